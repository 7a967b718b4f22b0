package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pantrypal/internal/auth"
	"pantrypal/internal/household"
)

// TextExtractor defines the interface for OCR text extraction.
type TextExtractor interface {
	Text(ctx context.Context, imagePath string) (string, error)
}

// LabelDetector defines the interface for the external image classifier.
type LabelDetector interface {
	FoodLabels(ctx context.Context, image []byte) ([]string, error)
}

// RecipeSearcher defines the interface for the external recipe search API.
type RecipeSearcher interface {
	Search(ctx context.Context, query string) ([]json.RawMessage, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Store     household.Store
	Tokens    *auth.TokenService
	OCR       TextExtractor
	Labels    LabelDetector
	Recipes   RecipeSearcher
	UploadDir string
}

// NewHandler creates a new Handler.
func NewHandler(store household.Store, tokens *auth.TokenService, ocr TextExtractor, labels LabelDetector, recipes RecipeSearcher, uploadDir string) *Handler {
	return &Handler{
		Store:     store,
		Tokens:    tokens,
		OCR:       ocr,
		Labels:    labels,
		Recipes:   recipes,
		UploadDir: uploadDir,
	}
}

// Health reports that the server is up.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Server is running"})
}

type registerInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account.
func (h *Handler) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Username == "" || input.Email == "" || input.Password == "" {
		respondError(c, validationError("Please fill all fields"))
		return
	}

	ctx := c.Request.Context()

	existing, err := h.Store.UserByEmail(ctx, input.Email)
	if err != nil {
		respondError(c, internalError("Registration failed", err))
		return
	}
	if existing != nil {
		respondError(c, conflictError("Email already registered"))
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		respondError(c, internalError("Error hashing password", err))
		return
	}

	userID, err := h.Store.CreateUser(ctx, input.Username, input.Email, hash)
	if err != nil {
		respondError(c, internalError("Registration failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User registered", "userId": userID})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password are indistinguishable in the response.
func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		respondError(c, validationError("Please fill all fields"))
		return
	}

	user, err := h.Store.UserByEmail(c.Request.Context(), input.Email)
	if err != nil || user == nil || !auth.CheckPassword(user.PasswordHash, input.Password) {
		respondError(c, unauthorizedError("Invalid credentials"))
		return
	}

	token, err := h.Tokens.Generate(user.ID, user.Email, user.Username)
	if err != nil {
		respondError(c, internalError("Could not generate token", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
		"token":    token,
	})
}

type ingredientInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Expiry   string `json:"expiry"`
}

// AddIngredient stores a new pantry ingredient for the caller.
func (h *Handler) AddIngredient(c *gin.Context) {
	var input ingredientInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Name == "" || input.Quantity == "" {
		respondError(c, validationError("Missing fields"))
		return
	}

	userID := identity(c).ID
	ingredientID, err := h.Store.AddIngredient(c.Request.Context(), userID, input.Name, input.Quantity, input.Expiry)
	if err != nil {
		respondError(c, internalError("Failed to add ingredient", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ingredient added", "ingredientId": ingredientID})
}

// GetIngredients returns all of the caller's ingredients.
func (h *Handler) GetIngredients(c *gin.Context) {
	ingredients, err := h.Store.IngredientsByUser(c.Request.Context(), identity(c).ID)
	if err != nil {
		respondError(c, internalError("Failed to fetch ingredients", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

// GetIngredientList returns the caller's ingredient names joined with commas.
func (h *Handler) GetIngredientList(c *gin.Context) {
	names, err := h.Store.IngredientNamesByUser(c.Request.Context(), identity(c).ID)
	if err != nil {
		respondError(c, internalError("Failed to fetch ingredients", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": strings.Join(names, ",")})
}

type calorieInput struct {
	Food     string `json:"food"`
	Calories int    `json:"calories"`
}

// LogCalories appends a calorie entry for the caller. A zero calorie count
// is rejected as missing input.
func (h *Handler) LogCalories(c *gin.Context) {
	var input calorieInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Food == "" || input.Calories == 0 {
		respondError(c, validationError("Food and calories are required."))
		return
	}

	entryID, err := h.Store.AddCalorieEntry(c.Request.Context(), identity(c).ID, input.Food, input.Calories)
	if err != nil {
		respondError(c, internalError("Failed to log calories.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Calories logged.", "entryId": entryID})
}

// GetCalories returns the caller's calorie log, newest first.
func (h *Handler) GetCalories(c *gin.Context) {
	entries, err := h.Store.CalorieEntriesByUser(c.Request.Context(), identity(c).ID)
	if err != nil {
		respondError(c, internalError("Failed to fetch data.", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetShoppingList returns the caller's shopping list.
func (h *Handler) GetShoppingList(c *gin.Context) {
	items, err := h.Store.ShoppingItemsByUser(c.Request.Context(), identity(c).ID)
	if err != nil {
		respondError(c, internalError("Failed to load shopping list", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type shoppingItemInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// AddShoppingItem stores a new shopping-list item for the caller.
func (h *Handler) AddShoppingItem(c *gin.Context) {
	var input shoppingItemInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Name == "" || input.Quantity == "" {
		respondError(c, validationError("Missing fields"))
		return
	}

	itemID, err := h.Store.AddShoppingItem(c.Request.Context(), identity(c).ID, input.Name, input.Quantity)
	if err != nil {
		respondError(c, internalError("Failed to add item", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item added", "itemId": itemID})
}

// DeleteShoppingItem deletes a shopping-list item when the caller owns it.
// Deleting a missing or foreign id still reports success; the ownership
// predicate guarantees no other user's row is touched.
func (h *Handler) DeleteShoppingItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, validationError("Invalid item id"))
		return
	}

	if err := h.Store.DeleteShoppingItem(c.Request.Context(), itemID, identity(c).ID); err != nil {
		respondError(c, internalError("Failed to delete item", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// GetLeaderboard returns the top five users by score. Public.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	leaderboard, err := h.Store.TopUsersByScore(c.Request.Context(), 5)
	if err != nil {
		respondError(c, internalError("Failed to retrieve leaderboard", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": leaderboard})
}

// SearchRecipes proxies a recipe search to the external API and relays the
// result list verbatim.
func (h *Handler) SearchRecipes(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		respondError(c, validationError("Missing query"))
		return
	}

	recipes, err := h.Recipes.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, internalError("Failed to fetch recipes", err))
		return
	}
	if recipes == nil {
		recipes = []json.RawMessage{}
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
