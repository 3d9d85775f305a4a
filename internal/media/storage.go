package media

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
)

// imageExtensions is the accepted upload whitelist.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Storage writes uploaded images under a public static directory, keyed by a
// generated filename so uploads never collide or overwrite each other.
type Storage struct {
	dir       string
	publicURL string
}

// NewStorage builds image storage rooted at dir; stored files are addressed
// as publicURL/<generated name>.
func NewStorage(dir, publicURL string) (*Storage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("public image directory required")
	}
	if publicURL == "" {
		publicURL = "/uploads"
	}
	return &Storage{dir: dir, publicURL: publicURL}, nil
}

// Save copies the upload to disk under a generated name and returns that
// name. The original filename only contributes its extension.
func (s *Storage) Save(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := imageExtensions[ext]; !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating image dir")
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating image file")
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading image upload")
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "closing image file")
	}
	return name, nil
}

// PublicPath returns the URL path a stored name is served under.
func (s *Storage) PublicPath(name string) string {
	return path.Join(s.publicURL, name)
}

// Remove deletes a stored file. Used as compensating cleanup when the record
// update after an upload fails; a missing file is not an error.
func (s *Storage) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
