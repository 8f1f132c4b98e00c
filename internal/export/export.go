// Package export writes ranked scan results to CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"disktop/internal/units"
)

const (
	// timestampLayout is the filename timestamp format.
	timestampLayout = "20060102_150405"
	// lastWriteLayout is the LastWrite column format.
	lastWriteLayout = "2006-01-02 15:04:05"
)

// Row is one ranked record. Rank is assigned from slice position, 1-based.
type Row struct {
	Size    int64
	Path    string
	ModTime time.Time
}

// FileName builds the export file name for one device and category, e.g.
// "Top20Files_C_20250102_150405.csv". Colons are stripped from the device
// name and path separators are flattened so the name stays a single path
// element.
func FileName(category string, topN int, deviceName string, ts time.Time) string {
	name := strings.NewReplacer(":", "", "/", "_", `\`, "_").Replace(deviceName)

	return fmt.Sprintf("Top%d%s_%s_%s.csv", topN, category, name, ts.Format(timestampLayout))
}

// Write creates path (and any missing parent directories) and writes the
// header plus one row per record, ranked in slice order. pathHeader names
// the path column ("Path" or "Folder"). Unlike scan errors, export errors
// are fatal and propagate.
func Write(path, pathHeader string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}

	w := csv.NewWriter(f)

	records := [][]string{{"Rank", "SizeBytes", "Size", pathHeader, "LastWrite"}}

	for i, row := range rows {
		records = append(records, []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(row.Size, 10),
			units.Format(uint64(row.Size)),
			row.Path,
			row.ModTime.Format(lastWriteLayout),
		})
	}

	if err := w.WriteAll(records); err != nil {
		_ = f.Close()

		return fmt.Errorf("writing export file %q: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file %q: %w", path, err)
	}

	return nil
}
