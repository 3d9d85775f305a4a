package controllers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/internal/catalog"
	"github.com/pawmart/backoffice-backend/internal/media"
	"github.com/pawmart/backoffice-backend/pkg/config"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
)

// galleryRecorder stubs the catalog surface the image handlers touch.
type galleryRecorder struct {
	catalog.Service
	paths []string
	err   error
}

func (g *galleryRecorder) AttachProductImages(_ context.Context, _ uuid.UUID, paths []string) (*catalog.ProductDTO, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.paths = paths
	return &catalog.ProductDTO{}, nil
}

func imageUploadRequest(t *testing.T, productID uuid.UUID, files map[string][]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for field, names := range files {
		for _, name := range names {
			part, err := writer.CreateFormFile(field, name)
			if err != nil {
				t.Fatalf("create form file: %v", err)
			}
			if _, err := part.Write([]byte("image-bytes")); err != nil {
				t.Fatalf("write form file: %v", err)
			}
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	r := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/images", &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return r
}

func serveImageUpload(t *testing.T, svc catalog.Service, dir string, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	store, err := media.NewStorage(dir, "/uploads")
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	cfg := config.UploadsConfig{TempDir: t.TempDir(), MaxBytes: 1 << 20}

	router := chi.NewRouter()
	router.Post("/api/v1/products/{productId}/images", UploadProductImages(svc, store, cfg, nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func storedFileCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	return len(entries)
}

func TestUploadProductImagesStoresImageAndGalleryFields(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	svc := &galleryRecorder{}
	r := imageUploadRequest(t, uuid.New(), map[string][]string{
		"image":   {"cover.jpg"},
		"gallery": {"side.png", "back.webp"},
	})

	w := serveImageUpload(t, svc, dir, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(svc.paths) != 3 {
		t.Fatalf("expected 3 gallery paths, got %v", svc.paths)
	}
	for _, path := range svc.paths {
		if path == "" || path[0] != '/' {
			t.Fatalf("expected public paths, got %v", svc.paths)
		}
	}
	if got := storedFileCount(t, dir); got != 3 {
		t.Fatalf("expected 3 stored files, got %d", got)
	}
}

func TestUploadProductImagesRemovesFilesWhenSaveFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	svc := &galleryRecorder{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	r := imageUploadRequest(t, uuid.New(), map[string][]string{"image": {"cover.jpg"}})

	w := serveImageUpload(t, svc, dir, r)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := storedFileCount(t, dir); got != 0 {
		t.Fatalf("stored files must be removed after a failed save, found %d", got)
	}
}

func TestUploadProductImagesRequiresAnImageField(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := imageUploadRequest(t, uuid.New(), map[string][]string{"attachment": {"cover.jpg"}})

	w := serveImageUpload(t, &galleryRecorder{}, dir, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := storedFileCount(t, dir); got != 0 {
		t.Fatalf("nothing should be stored, found %d", got)
	}
}
