package api

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nfnt/resize"
)

// expiryPattern matches ISO (YYYY-MM-DD, YYYY/MM/DD), European (DD-MM-YYYY),
// short (DD-MM-YY), and bare day/month (D-M) date forms. The first match is
// returned verbatim; no calendar validation is applied.
var expiryPattern = regexp.MustCompile(`\d{4}[-/]\d{2}[-/]\d{2}|\d{2}[-/]\d{2}[-/]\d{4}|\d{2}[-/]\d{2}[-/]\d{2}|\b\d{1,2}[-/]\d{1,2}\b`)

// noExpiryFound is the sentinel returned when no date-shaped text matched.
const noExpiryFound = "No expiry date found"

// classifierWidth is the width images are resized to before label detection.
const classifierWidth = 800

func extractExpiryDate(text string) string {
	if m := expiryPattern.FindString(text); m != "" {
		return m
	}
	return noExpiryFound
}

// resizeForClassifier scales the image to 800px wide, preserving aspect
// ratio, and re-encodes it as JPEG for the classifier.
func resizeForClassifier(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img = resize.Resize(classifierWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// ScanExpiry runs the expiry-scan pipeline over an uploaded image: OCR, date
// extraction, resize, and food-label detection. The temp file is removed on
// every exit path; any pipeline failure collapses to one generic error.
func (h *Handler) ScanExpiry(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, validationError("No image provided"))
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		respondError(c, internalError("Failed to process image", err))
		return
	}

	imagePath := filepath.Join(h.UploadDir, fmt.Sprintf("scan-%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename)))
	if err := c.SaveUploadedFile(file, imagePath); err != nil {
		respondError(c, internalError("Failed to process image", err))
		return
	}
	defer func() {
		if err := os.Remove(imagePath); err != nil {
			log.Printf("failed to remove temp file %s: %v", imagePath, err)
		}
	}()

	ctx := c.Request.Context()

	text, err := h.OCR.Text(ctx, imagePath)
	if err != nil {
		respondError(c, internalError("Failed to process image", err))
		return
	}

	expiryDate := extractExpiryDate(text)

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		respondError(c, internalError("Failed to process image", err))
		return
	}

	resized, err := resizeForClassifier(imageData)
	if err != nil {
		respondError(c, internalError("Failed to process image", err))
		return
	}

	labels, err := h.Labels.FoodLabels(ctx, resized)
	if err != nil {
		respondError(c, internalError("Failed to process image", err))
		return
	}
	if labels == nil {
		labels = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"text": text, "expiryDate": expiryDate, "labels": labels})
}
