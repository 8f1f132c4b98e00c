// Package cli wires flags, the interactive device prompt and report
// output around the scan and disk packages.
package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"disktop/internal/config"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// options collects the parsed flag values for one run.
type options struct {
	Top            int
	IncludeFolders bool
	Export         bool
	OutputDir      string
	Select         string
	Output         string
	MinSize        int64
	Excludes       []string
	ExcludeMounts  []string
	Debug          bool
	Version        bool
}

func help() {
	//nolint:forbidigo // Help output to console
	fmt.Println(heredoc.Doc(`
		disktop inventories fixed disks and mount points and reports the
		largest files (and optionally top-level folders) on each.

		Usage:

			disktop [flags]

		After printing the device table, disktop prompts for a selection.
		Selections accept single indices, comma lists, inclusive ranges and
		'all' (e.g. "1,3,5", "1-4", "1-3, 5, 7-8"). Use --select to skip the
		prompt in scripts.

		With --export, one CSV per device and category is written to the
		output directory. Defaults can also come from DISKTOP_OUTPUT_DIR,
		DISKTOP_TOP and DISKTOP_EXCLUDE_MOUNTS (or a .env file).

		Flags:
	`))
	pflag.PrintDefaults()
}

// Execute runs the CLI with the provided arguments.
func (c CLI) Execute() error {
	cfg := config.Load()

	var (
		opt        options
		minSizeStr string
	)

	allowedOutputs := []string{"table", "json"}

	pflag.IntVarP(&opt.Top, "top", "t", cfg.Top, "Number of items to report per category")
	pflag.BoolVar(&opt.IncludeFolders, "include-folders", false, "Also compute Top-N top-level folders by total size")
	pflag.BoolVar(&opt.Export, "export", false, "Export CSVs to the output directory")
	pflag.StringVar(&opt.OutputDir, "output-dir", cfg.OutputDir, "Where to write CSVs")
	pflag.StringVarP(&opt.Select, "select", "s", "", "Device selection expression; skips the interactive prompt")
	pflag.StringVarP(&opt.Output, "output", "o", "table", "Output format: json or table")
	pflag.StringVar(&minSizeStr, "min-size", "0KB", "Minimum file size to rank (e.g., 1KB)")
	pflag.StringSliceVarP(&opt.Excludes, "exclude", "e", nil, "Regex patterns to exclude from scanning")
	pflag.StringSliceVar(&opt.ExcludeMounts, "exclude-mount", cfg.ExcludeMounts, "Mount path prefixes to exclude from enumeration")
	pflag.BoolVar(&opt.Debug, "debug", false, "Enable debug output")
	pflag.BoolVarP(&opt.Version, "version", "v", false, "Show version and exit")

	pflag.CommandLine.SortFlags = false
	pflag.Usage = help
	pflag.Parse()

	setupLogging(opt.Debug)

	if opt.Version {
		//nolint:forbidigo // Version output to console
		fmt.Println(c.version)

		return nil
	}

	if !slices.Contains(allowedOutputs, opt.Output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", opt.Output, allowedOutputs)
	}

	if opt.Top <= 0 {
		opt.Top = config.DefaultTop
	}

	if minSizeStr != "" {
		size, err := humanize.ParseBytes(minSizeStr)
		if err != nil {
			return fmt.Errorf("invalid min-size: %w", err)
		}

		opt.MinSize = int64(size) //nolint:gosec // Size conversion from humanize is safe
	}

	return run(opt)
}

// setupLogging configures the global zerolog logger on stderr.
func setupLogging(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Logger()
}
