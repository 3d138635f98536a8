package export

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Per-format size heuristics for the pre-export estimate shown to the
// user: a fixed overhead plus an average bytes-per-record figure.
const (
	csvBaseBytes       = 100
	csvBytesPerRecord  = 150
	jsonBaseBytes      = 1000
	jsonBytesPerRecord = 250
)

// EstimateFileSize predicts the export file size in bytes for a record
// count and format. Unknown formats use the CSV heuristic.
func EstimateFileSize(recordCount int, format Format) int64 {
	if recordCount < 0 {
		recordCount = 0
	}
	if format == FormatJSON {
		return int64(jsonBaseBytes + recordCount*jsonBytesPerRecord)
	}
	return int64(csvBaseBytes + recordCount*csvBytesPerRecord)
}

// FormatFileSize renders a byte count for display: "0 B", "1 KB",
// "1.5 KB", "1 MB".
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	if bytes < 1024 {
		return strconv.FormatInt(bytes, 10) + " B"
	}
	units := []string{"KB", "MB", "GB", "TB"}
	v := float64(bytes)
	unit := ""
	for _, u := range units {
		v /= 1024
		unit = u
		if v < 1024 {
			break
		}
	}
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + " " + unit
}

const maxFilenameLength = 255

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// ExportFilename builds the download filename for an export:
// financeflow_export_<YYYYMMDD>.<ext>, sanitized to filesystem-safe
// characters and truncated to 255 characters.
func ExportFilename(format Format, at time.Time) string {
	name := "financeflow_export_" + at.Format("20060102") + "." + format.Extension()
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if len(name) > maxFilenameLength {
		name = name[:maxFilenameLength]
	}
	return name
}
