// Package ocr extracts text from images with Tesseract.
package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Client runs Tesseract against image files on disk.
type Client struct {
	language string
}

// NewClient creates an OCR client for the given Tesseract language code
// (for example "eng").
func NewClient(language string) *Client {
	return &Client{language: language}
}

// Text runs OCR over the image at imagePath and returns the raw recognized
// text. Tesseract itself is not cancellable; ctx is checked before starting.
func (c *Client) Text(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(c.language); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to load image for OCR: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	return text, nil
}
