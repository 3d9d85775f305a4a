package bulk

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pawmart/backoffice-backend/internal/catalog"
	"github.com/pawmart/backoffice-backend/internal/inventory"
	"github.com/pawmart/backoffice-backend/pkg/db"
	"github.com/pawmart/backoffice-backend/pkg/logger"
)

const defaultImportWindow = 5 * time.Minute

// RowError is one failed row in an import summary.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportSummary reports a product import batch. Skips (duplicate SKUs) are
// counted separately from errors; neither aborts the batch.
type ImportSummary struct {
	TotalRows   int        `json:"total_rows"`
	Success     int        `json:"success_count"`
	Skipped     int        `json:"skipped_count"`
	ErrorCount  int        `json:"error_count"`
	Errors      []RowError `json:"errors,omitempty"`
	SuccessRate float64    `json:"success_rate"`
}

func (s *ImportSummary) finalize() {
	s.ErrorCount = len(s.Errors)
	if s.TotalRows > 0 {
		s.SuccessRate = float64(s.Success) / float64(s.TotalRows) * 100
	}
}

// InventorySummary reports an inventory import batch.
type InventorySummary struct {
	TotalRows int               `json:"total_rows"`
	Report    *inventory.Report `json:"report"`
}

// Service is the CSV import/export pipeline.
type Service interface {
	ImportProducts(ctx context.Context, r io.Reader) (*ImportSummary, error)
	ImportInventory(ctx context.Context, r io.Reader) (*InventorySummary, error)
	ExportProducts(ctx context.Context, w io.Writer) error
}

type service struct {
	catalogRepo  *catalog.Repository
	reconciler   *inventory.Reconciler
	dbClient     *db.Client
	logg         *logger.Logger
	importWindow time.Duration
}

// NewService constructs the bulk pipeline. importWindow caps how long one
// batch may run before its context is canceled.
func NewService(catalogRepo *catalog.Repository, reconciler *inventory.Reconciler, dbClient *db.Client, logg *logger.Logger, importWindow time.Duration) (Service, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if reconciler == nil {
		return nil, fmt.Errorf("inventory reconciler required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if importWindow <= 0 {
		importWindow = defaultImportWindow
	}
	return &service{
		catalogRepo:  catalogRepo,
		reconciler:   reconciler,
		dbClient:     dbClient,
		logg:         logg,
		importWindow: importWindow,
	}, nil
}
