package main

import (
	"context"
	"fmt"

	"pantrypal/internal/api"
	"pantrypal/internal/auth"
	"pantrypal/internal/config"
	"pantrypal/internal/household"
	"pantrypal/internal/platform/ocr"
	"pantrypal/internal/platform/spoonacular"
	"pantrypal/internal/platform/vision"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	store, err := household.NewSQLStore(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		panic(fmt.Errorf("error creating store: %w", err))
	}
	defer store.Close()

	visionClient, err := vision.NewClient(ctx, cfg.AWSRegion)
	if err != nil {
		panic(fmt.Errorf("error creating vision client: %w", err))
	}

	tokens := auth.NewTokenService(cfg.JWTSecret)
	ocrClient := ocr.NewClient(cfg.OCRLanguage)
	recipeClient := spoonacular.NewClient(cfg.SpoonacularAPIKey)

	handler := api.NewHandler(store, tokens, ocrClient, visionClient, recipeClient, cfg.UploadDir)

	r := api.NewRouter(handler)
	r.Run(":" + cfg.Port)
}
