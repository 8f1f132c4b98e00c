// Package units renders byte counts in binary (1024-based) units.
package units

import "fmt"

var suffixes = []string{"KB", "MB", "GB", "TB", "PB"}

// Format renders size using binary units B through PB. Values below 1 KB
// print as integers ("512 B"), everything larger with two decimals
// ("1.50 KB"). Values past the PB range stay in PB.
func Format(size uint64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}

	value := float64(size)
	suffix := ""

	for _, s := range suffixes {
		value /= 1024
		suffix = s

		if value < 1024 {
			break
		}
	}

	return fmt.Sprintf("%.2f %s", value, suffix)
}
