package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with CORS and every route registered.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	// Public routes
	r.GET("/", h.Health)
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/scan-expiry", h.ScanExpiry)
	r.GET("/leaderboard", h.GetLeaderboard)
	r.GET("/recipes", h.SearchRecipes)

	// Protected routes
	protected := r.Group("/")
	protected.Use(AuthRequired(h.Tokens))
	{
		protected.POST("/ingredients", h.AddIngredient)
		protected.GET("/getIngredients", h.GetIngredients)
		protected.GET("/ingredients-list", h.GetIngredientList)
		protected.POST("/calories", h.LogCalories)
		protected.GET("/calories", h.GetCalories)
		protected.GET("/shopping-list", h.GetShoppingList)
		protected.POST("/shopping-list", h.AddShoppingItem)
		protected.DELETE("/shopping-list/:id", h.DeleteShoppingItem)
	}

	return r
}
