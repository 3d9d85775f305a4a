package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/pawmart/backoffice-backend/api/responses"
	"github.com/pawmart/backoffice-backend/internal/catalog"
	"github.com/pawmart/backoffice-backend/internal/media"
	"github.com/pawmart/backoffice-backend/pkg/config"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/logger"
)

// Image uploads arrive as a single `image` file, a multi-file `gallery`
// field, or both in one request.
var imageUploadFields = []string{"image", "gallery"}

// UploadProductImages stores the uploaded files under the public image dir
// and appends their paths to the product gallery. Stored files are removed
// again when the gallery update fails.
func UploadProductImages(svc catalog.Service, store *media.Storage, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		names, paths, err := storeUploadedImages(r, store, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AttachProductImages(r.Context(), productID, paths)
		if err != nil {
			removeStored(r, store, logg, names)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// UploadSpecialProductImages mirrors UploadProductImages for the parallel
// taxonomy.
func UploadSpecialProductImages(svc catalog.Service, store *media.Storage, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		names, paths, err := storeUploadedImages(r, store, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AttachSpecialProductImages(r.Context(), productID, paths)
		if err != nil {
			removeStored(r, store, logg, names)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// storeUploadedImages persists every image in the request and returns the
// stored names plus the public paths to record. A failure part way through
// removes what was already stored.
func storeUploadedImages(r *http.Request, store *media.Storage, cfg config.UploadsConfig) ([]string, []string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, cfg.MaxBytes)
	if err := r.ParseMultipartForm(cfg.MaxBytes); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart upload")
	}

	var headers []*multipart.FileHeader
	for _, field := range imageUploadFields {
		headers = append(headers, r.MultipartForm.File[field]...)
	}
	if len(headers) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "image or gallery file field is required")
	}

	names := make([]string, 0, len(headers))
	paths := make([]string, 0, len(headers))
	for _, header := range headers {
		upload, err := header.Open()
		if err != nil {
			removeAll(store, names)
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading image upload")
		}
		name, err := store.Save(upload, header.Filename)
		upload.Close()
		if err != nil {
			removeAll(store, names)
			return nil, nil, err
		}
		names = append(names, name)
		paths = append(paths, store.PublicPath(name))
	}
	return names, paths, nil
}

func removeStored(r *http.Request, store *media.Storage, logg *logger.Logger, names []string) {
	for _, name := range names {
		if err := store.Remove(name); err != nil && logg != nil {
			logg.Warn(r.Context(), "failed to remove stored image "+name)
		}
	}
}

func removeAll(store *media.Storage, names []string) {
	for _, name := range names {
		store.Remove(name)
	}
}
