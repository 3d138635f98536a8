package services

import (
	"context"

	"financeflow/internal/export"
	"financeflow/internal/progress"
	"financeflow/internal/storage"
)

// ExportEstimate is the pre-export preview shown before the user
// commits to a download.
type ExportEstimate struct {
	RecordCount   int    `json:"record_count"`
	EstimatedSize int64  `json:"estimated_size"`
	DisplaySize   string `json:"display_size"`
}

// ExportService binds the export pipeline to the SQLite reader, the
// downloads file store and the progress registry.
type ExportService struct {
	storage  *storage.SQLiteRepository
	pipeline *export.Pipeline
}

func NewExportService(st *storage.SQLiteRepository, files export.FileStore, registry *progress.Registry) *ExportService {
	return &ExportService{
		storage:  st,
		pipeline: export.NewPipeline(st, files, registry),
	}
}

func (s *ExportService) Export(ctx context.Context, opts export.Options, onProgress progress.Callback, exportID string) export.Result {
	return s.pipeline.Export(ctx, opts, onProgress, exportID)
}

// Estimate predicts the export size from current row counts. Filters
// are ignored: the estimate is an upper bound, not a promise.
func (s *ExportService) Estimate(ctx context.Context, opts export.Options) (ExportEstimate, error) {
	if errs := opts.Validate(); errs != nil {
		return ExportEstimate{}, errs
	}

	counts, err := s.storage.CountRecords(ctx)
	if err != nil {
		return ExportEstimate{}, err
	}

	records := 0
	if opts.IncludeTransactions {
		records += counts.Transactions
	}
	if opts.IncludeCategories {
		records += counts.Categories
	}
	if opts.IncludeBudgets {
		records += counts.Budgets
	}
	if opts.IncludeGoals {
		records += counts.Goals
	}

	size := export.EstimateFileSize(records, opts.Format)
	return ExportEstimate{
		RecordCount:   records,
		EstimatedSize: size,
		DisplaySize:   export.FormatFileSize(size),
	}, nil
}
