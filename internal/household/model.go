package household

// User is an account row. Score is mutated by collaborators outside this
// service; no endpoint here writes it.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Score        int    `json:"score" db:"score"`
}

// Ingredient is one pantry entry owned by a user. Quantity and expiry are
// free text; expiry may be empty.
type Ingredient struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Quantity string `json:"quantity" db:"quantity"`
	Expiry   string `json:"expiry" db:"expiry"`
	UserID   int64  `json:"user_id" db:"user_id"`
}

// CalorieEntry is an append-only calorie log row. CreatedAt is assigned by
// the database at insertion time and kept as the stored string so the row
// serializes exactly as persisted.
type CalorieEntry struct {
	ID        int64  `json:"id" db:"id"`
	Food      string `json:"food" db:"food"`
	Calories  int    `json:"calories" db:"calories"`
	UserID    int64  `json:"user_id" db:"user_id"`
	CreatedAt string `json:"created_at" db:"created_at"`
}

// ShoppingItem is one shopping-list row owned by a user.
type ShoppingItem struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Quantity string `json:"quantity" db:"quantity"`
	UserID   int64  `json:"user_id" db:"user_id"`
}

// RankedUser is a leaderboard row: username plus score exposed as points.
type RankedUser struct {
	Username string `json:"username" db:"username"`
	Points   int    `json:"points" db:"points"`
}
