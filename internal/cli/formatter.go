package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"disktop/internal/disk"
	"disktop/internal/scan"
	"disktop/internal/units"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// printJSON outputs the device reports in JSON format.
func printJSON(writer io.Writer, reports []deviceReport) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// printDeviceTable prints the enumerated devices with their capacity,
// indexed from 1 in the order the selection expression refers to.
func printDeviceTable(writer io.Writer, devices []disk.Device) {
	fmt.Fprintln(writer, "\n== Disks ==")

	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)
	fmt.Fprintln(w, "Idx\tName\tTotal\tFree\tUsed")

	for i, d := range devices {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			i+1, d.Name, units.Format(d.Total), units.Format(d.Free), units.Format(d.Used()))
	}

	w.Flush()
}

// printDeviceReport prints one device's scan results as tables.
func printDeviceReport(writer io.Writer, device disk.Device, topN int, files *scan.FileReport, folders *scan.FolderReport) {
	fmt.Fprintf(writer, "\n=== %s (%s) ===\n", device.Name, device.Path)

	fmt.Fprintf(writer, "\n-- Top %d Files --\n", topN)

	if len(files.Files) == 0 {
		fmt.Fprintln(writer, "No files found or access denied.")
	} else {
		w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)
		fmt.Fprintln(w, "Rank\tSize\tPath")

		for i, f := range files.Files {
			fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, units.Format(uint64(f.Size)), f.Path)
		}

		w.Flush()
		fmt.Fprintf(writer, "Scanned %d files (%s)", files.Scanned, units.Format(uint64(files.TotalBytes)))

		if files.Skipped > 0 {
			fmt.Fprintf(writer, ", skipped %d entries", files.Skipped)
		}

		fmt.Fprintf(writer, " in %v\n", files.Elapsed.Round(time.Millisecond))
	}

	if folders == nil {
		return
	}

	fmt.Fprintf(writer, "\n-- Top %d Folders --\n", topN)

	if len(folders.Folders) == 0 {
		fmt.Fprintln(writer, "No folders found or access denied.")

		return
	}

	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)
	fmt.Fprintln(w, "Rank\tSize\tFolder")

	for i, f := range folders.Folders {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, units.Format(uint64(f.Size)), f.Path)
	}

	w.Flush()
}
