package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/pawmart/backoffice-backend/api/responses"
	"github.com/pawmart/backoffice-backend/internal/bulk"
	"github.com/pawmart/backoffice-backend/pkg/config"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/logger"
)

// Sheet uploads arrive under either field name depending on the client.
var csvUploadFields = []string{"csv", "csvFile"}

// ImportProductsCSV accepts a multipart CSV upload and runs the product
// import. The upload is spooled to the temp dir so a slow network read does
// not hold database work open.
func ImportProductsCSV(svc bulk.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, cleanup, err := spoolUpload(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer cleanup()

		file, err := os.Open(path)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "opening spooled upload"))
			return
		}
		defer file.Close()

		summary, err := svc.ImportProducts(r.Context(), file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// ImportInventoryCSV accepts a multipart CSV upload and runs the inventory
// reconciliation.
func ImportInventoryCSV(svc bulk.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, cleanup, err := spoolUpload(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer cleanup()

		file, err := os.Open(path)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "opening spooled upload"))
			return
		}
		defer file.Close()

		summary, err := svc.ImportInventory(r.Context(), file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// ExportProductsCSV streams the catalog as a CSV attachment.
func ExportProductsCSV(svc bulk.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)
		if err := svc.ExportProducts(r.Context(), w); err != nil {
			// Headers are already out; the truncated body is the best signal
			// left, so just log.
			if logg != nil {
				logg.Error(r.Context(), "product export failed", err)
			}
		}
	}
}

// spoolUpload copies the multipart file to the uploads temp dir and returns
// its path with a cleanup func.
func spoolUpload(r *http.Request, cfg config.UploadsConfig) (string, func(), error) {
	r.Body = http.MaxBytesReader(nil, r.Body, cfg.MaxBytes)
	if err := r.ParseMultipartForm(cfg.MaxBytes); err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart upload")
	}

	upload, err := firstUploadField(r, csvUploadFields)
	if err != nil {
		return "", nil, err
	}
	defer upload.Close()

	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating upload temp dir")
	}
	tmp, err := os.CreateTemp(cfg.TempDir, "upload-*.csv")
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating temp file")
	}

	if _, err := tmp.ReadFrom(upload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading upload")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "closing temp file")
	}

	path := tmp.Name()
	return path, func() { os.Remove(path) }, nil
}

// firstUploadField returns the first multipart file present under any of the
// accepted field names.
func firstUploadField(r *http.Request, fields []string) (multipart.File, error) {
	for _, field := range fields {
		upload, _, err := r.FormFile(field)
		if err == nil {
			return upload, nil
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading "+field+" field")
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv file field is required")
}
