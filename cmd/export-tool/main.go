package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"financeflow/internal/config"
	"financeflow/internal/export"
	"financeflow/internal/files"
	applog "financeflow/internal/log"
	"financeflow/internal/progress"
	"financeflow/internal/services"
	"financeflow/internal/share"
	"financeflow/internal/storage"
)

func main() {
	_ = godotenv.Load()

	var (
		format       = flag.String("format", "csv", "export format: csv or json")
		transactions = flag.Bool("transactions", false, "include transactions")
		categories   = flag.Bool("categories", false, "include categories")
		budgets      = flag.Bool("budgets", false, "include budgets")
		goals        = flag.Bool("goals", false, "include goals")
		all          = flag.Bool("all", false, "include every record type")
		startDate    = flag.String("start", "", "transaction start date (YYYY-MM-DD)")
		endDate      = flag.String("end", "", "transaction end date (YYYY-MM-DD)")
		categoryIDs  = flag.String("category-ids", "", "comma-separated category IDs to filter transactions")
		anonymize    = flag.Bool("anonymize", false, "scrub sensitive data from descriptions")
		upload       = flag.Bool("share", false, "upload the export to Google Drive")
		quiet        = flag.Bool("quiet", false, "suppress the progress bar")
	)
	flag.Parse()

	logConfig := applog.DefaultConfig()
	logConfig.Component = applog.ComponentExport
	applog.SetDefault(applog.New(logConfig))

	cfg := config.Load()

	opts, err := buildOptions(*format, *transactions, *categories, *budgets, *goals, *all, *startDate, *endDate, *categoryIDs, *anonymize)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: open database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	svc := services.NewExportService(repo, files.NewStore(cfg.DownloadsDir), progress.NewRegistry())

	var onProgress progress.Callback
	if !*quiet {
		bar := progressbar.NewOptions(100,
			progressbar.OptionSetDescription("exporting"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
		onProgress = func(u progress.Update) {
			bar.Describe(u.Label)
			_ = bar.Set(u.Overall)
		}
	}

	ctx := context.Background()
	result := svc.Export(ctx, opts, onProgress, "")
	if !result.Success {
		fmt.Fprintln(os.Stderr, "export failed:", result.Error)
		os.Exit(1)
	}

	fmt.Printf("Exported %d records to %s (%s)\n",
		result.RecordCount, result.FilePath, export.FormatFileSize(result.FileSize))

	if *upload {
		shareResult := shareExport(ctx, result.FilePath)
		if shareResult.Method == share.MethodDrive {
			fmt.Println("Shared via Google Drive:", shareResult.Link)
		} else {
			if shareResult.Error != "" {
				fmt.Fprintln(os.Stderr, "upload failed, keeping local copy:", shareResult.Error)
			}
			fmt.Println("Available locally:", shareResult.Link)
		}
	}
}

func buildOptions(format string, transactions, categories, budgets, goals, all bool, start, end, categoryIDs string, anonymize bool) (export.Options, error) {
	opts := export.Options{
		Format:              export.Format(strings.ToLower(format)),
		IncludeTransactions: transactions || all,
		IncludeCategories:   categories || all,
		IncludeBudgets:      budgets || all,
		IncludeGoals:        goals || all,
		Anonymize:           anonymize,
	}

	var err error
	if opts.StartDate, err = parseFlagDate(start); err != nil {
		return export.Options{}, err
	}
	if opts.EndDate, err = parseFlagDate(end); err != nil {
		return export.Options{}, err
	}

	if categoryIDs != "" {
		for _, raw := range strings.Split(categoryIDs, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return export.Options{}, fmt.Errorf("invalid category id %q", raw)
			}
			opts.CategoryIDs = append(opts.CategoryIDs, id)
		}
	}

	if errs := opts.Validate(); errs != nil {
		return export.Options{}, errs
	}
	return opts, nil
}

func parseFlagDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// shareExport uploads to Drive when credentials are configured and
// falls back to the local path otherwise.
func shareExport(ctx context.Context, path string) share.Result {
	var uploader share.Uploader
	if drive, err := share.NewDriveFromEnv(ctx); err == nil {
		uploader = drive
	} else {
		fmt.Fprintln(os.Stderr, "Google Drive not configured:", err)
	}
	return share.NewSharer(uploader).ShareWithFallback(ctx, path)
}
