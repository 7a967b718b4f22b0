package household

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Store defines the persistence operations the API needs. Every query that
// touches owned rows is scoped by user id.
type Store interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	TopUsersByScore(ctx context.Context, limit int) ([]RankedUser, error)

	AddIngredient(ctx context.Context, userID int64, name, quantity, expiry string) (int64, error)
	IngredientsByUser(ctx context.Context, userID int64) ([]Ingredient, error)
	IngredientNamesByUser(ctx context.Context, userID int64) ([]string, error)

	AddCalorieEntry(ctx context.Context, userID int64, food string, calories int) (int64, error)
	CalorieEntriesByUser(ctx context.Context, userID int64) ([]CalorieEntry, error)

	AddShoppingItem(ctx context.Context, userID int64, name, quantity string) (int64, error)
	ShoppingItemsByUser(ctx context.Context, userID int64) ([]ShoppingItem, error)
	DeleteShoppingItem(ctx context.Context, id, userID int64) error
}

// SQLStore implements Store on top of sqlx. The same implementation serves
// SQLite (default, pure-Go driver) and Postgres; only the bootstrap DDL
// differs per dialect.
type SQLStore struct {
	db *sqlx.DB
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	score INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS ingredients (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	quantity TEXT NOT NULL,
	expiry TEXT NOT NULL DEFAULT '',
	user_id INTEGER NOT NULL REFERENCES users(id)
);
CREATE TABLE IF NOT EXISTS calories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	food TEXT NOT NULL,
	calories INTEGER NOT NULL,
	user_id INTEGER NOT NULL REFERENCES users(id),
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS shopping_list (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	quantity TEXT NOT NULL,
	user_id INTEGER NOT NULL REFERENCES users(id)
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	username TEXT NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	score INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS ingredients (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	quantity TEXT NOT NULL,
	expiry TEXT NOT NULL DEFAULT '',
	user_id INTEGER NOT NULL REFERENCES users(id)
);
CREATE TABLE IF NOT EXISTS calories (
	id SERIAL PRIMARY KEY,
	food TEXT NOT NULL,
	calories INTEGER NOT NULL,
	user_id INTEGER NOT NULL REFERENCES users(id),
	created_at TEXT NOT NULL DEFAULT now()::text
);
CREATE TABLE IF NOT EXISTS shopping_list (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	quantity TEXT NOT NULL,
	user_id INTEGER NOT NULL REFERENCES users(id)
);
`

// NewSQLStore connects with the given database/sql driver ("sqlite" or
// "postgres") and creates the schema if it is absent.
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	schema := schemaPostgres
	if driver == "sqlite" {
		// SQLite allows one writer; a single pooled connection also keeps
		// :memory: databases coherent across queries.
		db.SetMaxOpenConns(1)
		schema = schemaSQLite
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new user with score 0 and returns the generated id.
func (s *SQLStore) CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error) {
	var id int64
	q := s.db.Rebind("INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?) RETURNING id")
	if err := s.db.QueryRowxContext(ctx, q, username, email, passwordHash).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

// UserByEmail returns the user with the given email, or nil when no such
// user exists.
func (s *SQLStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	q := s.db.Rebind("SELECT id, username, email, password_hash, score FROM users WHERE email = ?")
	if err := s.db.GetContext(ctx, &u, q, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// TopUsersByScore returns at most limit users ordered by descending score.
func (s *SQLStore) TopUsersByScore(ctx context.Context, limit int) ([]RankedUser, error) {
	users := []RankedUser{}
	q := s.db.Rebind("SELECT username, score AS points FROM users ORDER BY score DESC LIMIT ?")
	if err := s.db.SelectContext(ctx, &users, q, limit); err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return users, nil
}

// AddIngredient inserts an ingredient owned by userID and returns its id.
func (s *SQLStore) AddIngredient(ctx context.Context, userID int64, name, quantity, expiry string) (int64, error) {
	var id int64
	q := s.db.Rebind("INSERT INTO ingredients (name, quantity, expiry, user_id) VALUES (?, ?, ?, ?) RETURNING id")
	if err := s.db.QueryRowxContext(ctx, q, name, quantity, expiry, userID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert ingredient: %w", err)
	}
	return id, nil
}

// IngredientsByUser returns all ingredients owned by userID.
func (s *SQLStore) IngredientsByUser(ctx context.Context, userID int64) ([]Ingredient, error) {
	ingredients := []Ingredient{}
	q := s.db.Rebind("SELECT id, name, quantity, expiry, user_id FROM ingredients WHERE user_id = ?")
	if err := s.db.SelectContext(ctx, &ingredients, q, userID); err != nil {
		return nil, fmt.Errorf("failed to get ingredients: %w", err)
	}
	return ingredients, nil
}

// IngredientNamesByUser returns just the names of the user's ingredients.
func (s *SQLStore) IngredientNamesByUser(ctx context.Context, userID int64) ([]string, error) {
	names := []string{}
	q := s.db.Rebind("SELECT name FROM ingredients WHERE user_id = ?")
	if err := s.db.SelectContext(ctx, &names, q, userID); err != nil {
		return nil, fmt.Errorf("failed to get ingredient names: %w", err)
	}
	return names, nil
}

// AddCalorieEntry inserts a calorie log row; created_at is assigned by the
// database default.
func (s *SQLStore) AddCalorieEntry(ctx context.Context, userID int64, food string, calories int) (int64, error) {
	var id int64
	q := s.db.Rebind("INSERT INTO calories (food, calories, user_id) VALUES (?, ?, ?) RETURNING id")
	if err := s.db.QueryRowxContext(ctx, q, food, calories, userID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert calorie entry: %w", err)
	}
	return id, nil
}

// CalorieEntriesByUser returns the user's calorie log newest-first. The id
// tiebreak keeps entries inserted within the same timestamp in reverse
// insertion order.
func (s *SQLStore) CalorieEntriesByUser(ctx context.Context, userID int64) ([]CalorieEntry, error) {
	entries := []CalorieEntry{}
	q := s.db.Rebind("SELECT id, food, calories, user_id, created_at FROM calories WHERE user_id = ? ORDER BY created_at DESC, id DESC")
	if err := s.db.SelectContext(ctx, &entries, q, userID); err != nil {
		return nil, fmt.Errorf("failed to get calorie entries: %w", err)
	}
	return entries, nil
}

// AddShoppingItem inserts a shopping-list row owned by userID.
func (s *SQLStore) AddShoppingItem(ctx context.Context, userID int64, name, quantity string) (int64, error) {
	var id int64
	q := s.db.Rebind("INSERT INTO shopping_list (name, quantity, user_id) VALUES (?, ?, ?) RETURNING id")
	if err := s.db.QueryRowxContext(ctx, q, name, quantity, userID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert shopping item: %w", err)
	}
	return id, nil
}

// ShoppingItemsByUser returns the user's shopping list.
func (s *SQLStore) ShoppingItemsByUser(ctx context.Context, userID int64) ([]ShoppingItem, error) {
	items := []ShoppingItem{}
	q := s.db.Rebind("SELECT id, name, quantity, user_id FROM shopping_list WHERE user_id = ?")
	if err := s.db.SelectContext(ctx, &items, q, userID); err != nil {
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}
	return items, nil
}

// DeleteShoppingItem deletes the row only when it is owned by userID. The
// delete of a missing or foreign id affects no rows and is not an error.
func (s *SQLStore) DeleteShoppingItem(ctx context.Context, id, userID int64) error {
	q := s.db.Rebind("DELETE FROM shopping_list WHERE id = ? AND user_id = ?")
	if _, err := s.db.ExecContext(ctx, q, id, userID); err != nil {
		return fmt.Errorf("failed to delete shopping item: %w", err)
	}
	return nil
}
