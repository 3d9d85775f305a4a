package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/pawmart/backoffice-backend/pkg/config"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
)

func multipartRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	r := httptest.NewRequest(http.MethodPost, "/api/v1/bulk/products/import", &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return r
}

func uploadsConfig(t *testing.T) config.UploadsConfig {
	t.Helper()
	return config.UploadsConfig{TempDir: t.TempDir(), MaxBytes: 1 << 20}
}

func TestSpoolUploadAcceptsEitherCSVFieldName(t *testing.T) {
	t.Parallel()

	for _, field := range []string{"csv", "csvFile"} {
		t.Run(field, func(t *testing.T) {
			cfg := uploadsConfig(t)
			r := multipartRequest(t, field, "products.csv", "name,sku\nDog Food,PF-1")

			path, cleanup, err := spoolUpload(r, cfg)
			if err != nil {
				t.Fatalf("spool: %v", err)
			}
			defer cleanup()

			spooled, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read spooled file: %v", err)
			}
			if string(spooled) != "name,sku\nDog Food,PF-1" {
				t.Fatalf("unexpected spooled content %q", spooled)
			}
		})
	}
}

func TestSpoolUploadRejectsUnknownFieldName(t *testing.T) {
	t.Parallel()

	cfg := uploadsConfig(t)
	r := multipartRequest(t, "attachment", "products.csv", "name,sku")

	_, _, err := spoolUpload(r, cfg)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSpoolUploadCleanupRemovesTempFile(t *testing.T) {
	t.Parallel()

	cfg := uploadsConfig(t)
	r := multipartRequest(t, "csv", "inventory.csv", "sku,warehouseName,quantity")

	path, cleanup, err := spoolUpload(r, cfg)
	if err != nil {
		t.Fatalf("spool: %v", err)
	}
	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected temp file removed, stat err %v", err)
	}
}
