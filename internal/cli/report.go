package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"disktop/internal/disk"
	"disktop/internal/export"
	"disktop/internal/scan"
	"disktop/internal/selection"
	"disktop/internal/units"
)

// deviceReport bundles one device's scan results for JSON output.
type deviceReport struct {
	Device  disk.Device        `json:"device"`
	Files   *scan.FileReport   `json:"files"`
	Folders *scan.FolderReport `json:"folders,omitempty"`
}

// run drives a full report: enumerate devices, resolve the selection, scan
// each selected device and hand results to the formatter and exporter.
func run(opt options) error {
	excludes, err := compileExcludes(opt.Excludes)
	if err != nil {
		return err
	}

	ctx := context.Background()

	devices := disk.New(disk.Options{DenyPrefixes: opt.ExcludeMounts}).Enumerate(ctx)
	if len(devices) == 0 {
		return errors.New("no disks found")
	}

	// In JSON mode the table and prompt go to stderr so stdout stays
	// machine-readable.
	tableOut := os.Stdout
	if opt.Output == "json" {
		tableOut = os.Stderr
	}

	printDeviceTable(tableOut, devices)

	expr := opt.Select
	if expr == "" {
		expr = promptSelection(tableOut)
	}

	indices := selection.Parse(expr, len(devices))
	if len(indices) == 0 {
		return errors.New("no valid selections")
	}

	if opt.Export {
		if err := os.MkdirAll(opt.OutputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %q: %w", opt.OutputDir, err)
		}
	}

	scanOpt := scan.Options{
		TopN:     opt.Top,
		MinSize:  opt.MinSize,
		Excludes: excludes,
	}

	progress := progressHook(opt)
	if progress != nil {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(os.Stderr, "\033[?25l")
		defer fmt.Fprint(os.Stderr, "\033[?25h")
	}

	runTS := time.Now()

	var jsonReports []deviceReport

	for _, idx := range indices {
		device := devices[idx-1]

		files := scan.TopFiles(ctx, device.Path, scanOpt, progress)

		var folders *scan.FolderReport
		if opt.IncludeFolders {
			folders = scan.TopFolders(ctx, device.Path, scanOpt)
		}

		if progress != nil {
			fmt.Fprint(os.Stderr, "\r\033[2K\r")
		}

		if opt.Output == "json" {
			jsonReports = append(jsonReports, deviceReport{Device: device, Files: files, Folders: folders})
		} else {
			printDeviceReport(os.Stdout, device, opt.Top, files, folders)
		}

		if opt.Export {
			if err := exportDevice(opt, device, runTS, files, folders); err != nil {
				return err
			}
		}
	}

	if opt.Output == "json" {
		return printJSON(os.Stdout, jsonReports)
	}

	//nolint:forbidigo // Report output to console
	fmt.Println("\nDone.")

	return nil
}

// compileExcludes compiles the exclusion patterns, failing on the first
// invalid one.
func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		out = append(out, re)
	}

	return out, nil
}

// promptSelection prints the selection prompt and reads one line from
// stdin. A read failure yields an empty expression, which the caller
// treats as an empty selection.
func promptSelection(w *os.File) string {
	fmt.Fprint(w, "\nEnter disk numbers (e.g., 1,3,5), ranges (e.g., 1-4), or 'all': ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}

	return strings.TrimSpace(line)
}

// progressHook returns the in-place scan progress callback, or nil when
// progress output would interfere (JSON mode, debug logging, or stderr not
// a terminal).
func progressHook(opt options) func(files, bytes int64) {
	if opt.Output == "json" || opt.Debug || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}

	return func(files, bytes int64) {
		msg := fmt.Sprintf("Scanning… %d files, %s", files, units.Format(uint64(bytes))) //nolint:gosec // Bytes is always positive
		fmt.Fprintf(os.Stderr, "\r\033[2K%s\r", msg)
	}
}

// exportDevice writes the CSV files for one device. Export failures are
// fatal, unlike scan errors.
func exportDevice(opt options, device disk.Device, runTS time.Time, files *scan.FileReport, folders *scan.FolderReport) error {
	if len(files.Files) > 0 {
		path := filepath.Join(opt.OutputDir, export.FileName("Files", opt.Top, device.Name, runTS))
		if err := export.Write(path, "Path", fileRows(files.Files)); err != nil {
			return err
		}

		//nolint:forbidigo // Export confirmation to console
		fmt.Println("Exported:", path)
	}

	if folders != nil && len(folders.Folders) > 0 {
		path := filepath.Join(opt.OutputDir, export.FileName("Folders", opt.Top, device.Name, runTS))
		if err := export.Write(path, "Folder", folderRows(folders.Folders)); err != nil {
			return err
		}

		//nolint:forbidigo // Export confirmation to console
		fmt.Println("Exported:", path)
	}

	return nil
}

func fileRows(files []scan.FileRecord) []export.Row {
	rows := make([]export.Row, len(files))
	for i, f := range files {
		rows[i] = export.Row{Size: f.Size, Path: f.Path, ModTime: f.ModTime}
	}

	return rows
}

func folderRows(folders []scan.FolderRecord) []export.Row {
	rows := make([]export.Row, len(folders))
	for i, f := range folders {
		rows[i] = export.Row{Size: f.Size, Path: f.Path, ModTime: f.ModTime}
	}

	return rows
}
