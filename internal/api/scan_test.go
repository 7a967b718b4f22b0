package api

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"pantrypal/internal/auth"
)

// stubOCR is a mock of the OCR client.
type stubOCR struct {
	text        string
	returnError error
}

func (s *stubOCR) Text(ctx context.Context, imagePath string) (string, error) {
	if s.returnError != nil {
		return "", s.returnError
	}
	return s.text, nil
}

// stubLabels is a mock of the label-detection client.
type stubLabels struct {
	labels        []string
	returnError   error
	receivedImage []byte
}

func (s *stubLabels) FoodLabels(ctx context.Context, img []byte) ([]string, error) {
	s.receivedImage = img
	if s.returnError != nil {
		return nil, s.returnError
	}
	return s.labels, nil
}

func newScanHandler(t *testing.T, ocr *stubOCR, labels *stubLabels) (*Handler, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	uploadDir := filepath.Join(t.TempDir(), "uploads")
	tokens := auth.NewTokenService("test-secret")
	h := NewHandler(newMockStore(), tokens, ocr, labels, &stubRecipeSearcher{}, uploadDir)
	return h, uploadDir
}

// multipartImage builds a multipart body with a generated PNG under the
// "image" field.
func multipartImage(t *testing.T, width, height int) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "label.png")
	assert.NoError(t, err)
	_, err = part.Write(pngBuf.Bytes())
	assert.NoError(t, err)
	writer.Close()
	return body, writer.FormDataContentType()
}

func uploadedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	assert.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestScanExpiry(t *testing.T) {
	ocr := &stubOCR{text: "BEST BEFORE 2025-12-31 KEEP REFRIGERATED"}
	labels := &stubLabels{labels: []string{"Milk", "Dairy"}}
	h, uploadDir := newScanHandler(t, ocr, labels)
	r := NewRouter(h)

	body, contentType := multipartImage(t, 1600, 400)
	req := httptest.NewRequest(http.MethodPost, "/scan-expiry", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody(t, rr)
	assert.Equal(t, "BEST BEFORE 2025-12-31 KEEP REFRIGERATED", resp["text"])
	assert.Equal(t, "2025-12-31", resp["expiryDate"])
	assert.Equal(t, []any{"Milk", "Dairy"}, resp["labels"])

	// The classifier must receive the 800px-wide resize, not the original.
	resized, _, err := image.Decode(bytes.NewReader(labels.receivedImage))
	assert.NoError(t, err)
	assert.Equal(t, 800, resized.Bounds().Dx())
	assert.Equal(t, 200, resized.Bounds().Dy())

	// Temp file is gone after the request.
	assert.Empty(t, uploadedFiles(t, uploadDir))
}

func TestScanExpiryNoFile(t *testing.T) {
	h, uploadDir := newScanHandler(t, &stubOCR{}, &stubLabels{})
	r := NewRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/scan-expiry", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "No image provided", decodeBody(t, rr)["error"])

	// Rejected before any temp file was created.
	_, err := os.Stat(uploadDir)
	assert.True(t, os.IsNotExist(err))
}

func TestScanExpiryNoDateInText(t *testing.T) {
	ocr := &stubOCR{text: "no dates anywhere on this label"}
	h, _ := newScanHandler(t, ocr, &stubLabels{})
	r := NewRouter(h)

	body, contentType := multipartImage(t, 100, 100)
	req := httptest.NewRequest(http.MethodPost, "/scan-expiry", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody(t, rr)
	assert.Equal(t, "No expiry date found", resp["expiryDate"])
	assert.Equal(t, []any{}, resp["labels"])
}

func TestScanExpiryPipelineFailureCleansUp(t *testing.T) {
	ocr := &stubOCR{returnError: assert.AnError}
	h, uploadDir := newScanHandler(t, ocr, &stubLabels{})
	r := NewRouter(h)

	body, contentType := multipartImage(t, 100, 100)
	req := httptest.NewRequest(http.MethodPost, "/scan-expiry", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to process image", decodeBody(t, rr)["error"])

	// Cleanup runs on the failure path too.
	assert.Empty(t, uploadedFiles(t, uploadDir))
}

func TestScanExpiryClassifierFailure(t *testing.T) {
	labels := &stubLabels{returnError: assert.AnError}
	h, uploadDir := newScanHandler(t, &stubOCR{text: "exp 01/02/2026"}, labels)
	r := NewRouter(h)

	body, contentType := multipartImage(t, 100, 100)
	req := httptest.NewRequest(http.MethodPost, "/scan-expiry", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	// The caller sees the same generic error as for an OCR failure.
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to process image", decodeBody(t, rr)["error"])
	assert.Empty(t, uploadedFiles(t, uploadDir))
}

func TestExtractExpiryDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"iso dash", "best before 2025-12-31", "2025-12-31"},
		{"iso slash", "use by 2025/12/31 only", "2025/12/31"},
		{"european", "EXP 31-12-2025", "31-12-2025"},
		{"short year", "12/06/25 batch 7", "12/06/25"},
		{"bare day month", "consume by 3-12", "3-12"},
		{"first match wins", "packed 2024-01-01 expires 2025-01-01", "2024-01-01"},
		{"impossible but shaped", "99-99-9999", "99-99-9999"},
		{"no date", "keep refrigerated", "No expiry date found"},
		{"empty", "", "No expiry date found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractExpiryDate(tt.text))
		})
	}
}

func TestResizeForClassifier(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	var buf bytes.Buffer
	assert.NoError(t, jpeg.Encode(&buf, img, nil))

	out, err := resizeForClassifier(buf.Bytes())
	assert.NoError(t, err)

	resized, _, err := image.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
	assert.Equal(t, 800, resized.Bounds().Dx())
	assert.Equal(t, 400, resized.Bounds().Dy())

	_, err = resizeForClassifier([]byte("not an image"))
	assert.Error(t, err)
}
