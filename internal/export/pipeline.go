package export

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"financeflow/internal/core"
	"financeflow/internal/progress"
)

// App identifiers stamped into the JSON metadata block.
const (
	AppName    = "FinanceFlow"
	AppVersion = "1.0.0"
)

// Stage names and their weight in the overall progress percentage.
const (
	StageInitializing = "initializing"
	StageCollecting   = "collecting"
	StageFormatting   = "formatting"
	StageSaving       = "saving"
)

// Stages is the fixed, sequential stage model of the pipeline.
var Stages = []progress.StageWeight{
	{Name: StageInitializing, Weight: 10},
	{Name: StageCollecting, Weight: 40},
	{Name: StageFormatting, Weight: 30},
	{Name: StageSaving, Weight: 20},
}

type (
	// DataReader is the database collaborator contract: each call
	// returns a fully materialized in-memory collection.
	DataReader interface {
		TransactionsWithCategories(ctx context.Context) ([]core.TransactionDetail, error)
		Categories(ctx context.Context) ([]core.Category, error)
		BudgetsWithDetails(ctx context.Context) ([]core.BudgetDetail, error)
		Goals(ctx context.Context) ([]core.Goal, error)
	}

	// FileStore is the file-system collaborator contract.
	FileStore interface {
		SaveToDownloads(filename string, content []byte) (path string, err error)
		FileSize(path string) (int64, error)
		Delete(path string) error
	}

	// Pipeline runs exports. Collaborators are injected at construction;
	// the pipeline owns none of their lifecycles.
	Pipeline struct {
		reader   DataReader
		files    FileStore
		registry *progress.Registry
		now      func() time.Time
	}
)

func NewPipeline(reader DataReader, files FileStore, registry *progress.Registry) *Pipeline {
	return &Pipeline{
		reader:   reader,
		files:    files,
		registry: registry,
		now:      time.Now,
	}
}

// Export runs one export invocation: validate, collect, format, save.
// Every failure is returned as a Result with Success=false and a
// human-readable error; the progress subscription for the export ID is
// removed on success and failure alike.
func (p *Pipeline) Export(ctx context.Context, opts Options, onProgress progress.Callback, exportID string) Result {
	// Fail fast before any collaborator is invoked.
	if errs := opts.Validate(); errs != nil {
		return Result{Success: false, Error: errs.Error()}
	}

	if exportID == "" {
		exportID = "export_" + strconv.FormatInt(p.now().UnixNano(), 10)
	}
	if onProgress != nil {
		p.registry.Subscribe(exportID, onProgress)
	}
	defer p.registry.Unsubscribe(exportID)

	tracker := p.registry.NewStageTracker(exportID, Stages)

	tracker.UpdateStage(StageInitializing, 0, "Preparing export")
	tracker.UpdateStage(StageInitializing, 100, "Export prepared")

	dataset, err := p.collect(ctx, opts, tracker)
	if err != nil {
		slog.ErrorContext(ctx, "Export collection failed", "export_id", exportID, "error", err)
		return Result{Success: false, Error: err.Error()}
	}

	content, err := p.format(dataset, opts)
	if err != nil {
		slog.ErrorContext(ctx, "Export formatting failed", "export_id", exportID, "error", err)
		return Result{Success: false, Error: err.Error()}
	}
	tracker.UpdateStage(StageFormatting, 100, "Data formatted")

	filename := ExportFilename(opts.Format, p.now())
	tracker.UpdateStage(StageSaving, 0, "Saving "+filename)

	path, err := p.files.SaveToDownloads(filename, []byte(content))
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("save export file: %v", err)}
	}
	size, err := p.files.FileSize(path)
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("read export file size: %v", err)}
	}
	tracker.Complete("Export complete")

	slog.InfoContext(ctx, "Export completed",
		"export_id", exportID,
		"format", string(opts.Format),
		"file", filename,
		"size_bytes", size,
		"records", dataset.RecordCount())

	return Result{
		Success:     true,
		FileName:    filename,
		FilePath:    path,
		FileSize:    size,
		RecordCount: dataset.RecordCount(),
	}
}

// collect reads each included record type from the database
// collaborator, applying the transaction filters. Progress advances
// once per record-type read completed, not per record.
func (p *Pipeline) collect(ctx context.Context, opts Options, tracker *progress.StageTracker) (Dataset, error) {
	var d Dataset
	total := opts.includedCount()
	done := 0

	step := func(label string) {
		done++
		tracker.UpdateStage(StageCollecting, done*100/total, label)
	}

	if opts.IncludeTransactions {
		txs, err := p.reader.TransactionsWithCategories(ctx)
		if err != nil {
			return d, fmt.Errorf("collect transactions: %w", err)
		}
		d.Transactions = filterTransactions(txs, opts)
		step("Collected transactions")
	}
	if opts.IncludeCategories {
		cats, err := p.reader.Categories(ctx)
		if err != nil {
			return d, fmt.Errorf("collect categories: %w", err)
		}
		if cats == nil {
			cats = []core.Category{}
		}
		d.Categories = cats
		step("Collected categories")
	}
	if opts.IncludeBudgets {
		budgets, err := p.reader.BudgetsWithDetails(ctx)
		if err != nil {
			return d, fmt.Errorf("collect budgets: %w", err)
		}
		if budgets == nil {
			budgets = []core.BudgetDetail{}
		}
		d.Budgets = budgets
		step("Collected budgets")
	}
	if opts.IncludeGoals {
		goals, err := p.reader.Goals(ctx)
		if err != nil {
			return d, fmt.Errorf("collect goals: %w", err)
		}
		if goals == nil {
			goals = []core.Goal{}
		}
		d.Goals = goals
		step("Collected goals")
	}

	return d, nil
}

// filterTransactions applies the date-range filter (inclusive calendar
// bounds), the category filter and anonymization.
func filterTransactions(txs []core.TransactionDetail, opts Options) []core.TransactionDetail {
	out := make([]core.TransactionDetail, 0, len(txs))
	categorySet := make(map[int64]bool, len(opts.CategoryIDs))
	for _, id := range opts.CategoryIDs {
		categorySet[id] = true
	}

	for _, t := range txs {
		if !core.WithinDateRange(t.Date, opts.StartDate, opts.EndDate) {
			continue
		}
		if len(categorySet) > 0 && !categorySet[t.CategoryID] {
			continue
		}
		if opts.Anonymize {
			t.Description = ScrubDescription(t.Description)
		}
		out = append(out, t)
	}
	return out
}

func (p *Pipeline) format(d Dataset, opts Options) (string, error) {
	switch opts.Format {
	case FormatJSON:
		return RenderJSON(d, opts, AppName, AppVersion, p.now())
	default:
		return RenderCSV(d)
	}
}
