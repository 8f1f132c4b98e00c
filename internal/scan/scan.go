// Package scan walks directory trees and reports the largest files and
// top-level folders beneath a root.
//
// Traversal uses fastwalk for parallel directory reads and never follows
// symlinks. Access errors are swallowed per entry: an unreadable file or
// subtree is counted as skipped and the walk continues, so a scan always
// produces a (possibly partial) report rather than failing.
package scan

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/rs/zerolog/log"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// FileRecord describes a single regular file seen during a walk.
type FileRecord struct {
	// Path is the absolute path of the file.
	Path string `json:"path"`
	// Size is the file size in bytes.
	Size int64 `json:"size"`
	// ModTime is the file's last modification time.
	ModTime time.Time `json:"mod_time"`
}

// FolderRecord describes an immediate child directory of a scan root and
// the aggregate size of everything beneath it.
type FolderRecord struct {
	// Path is the absolute path of the directory.
	Path string `json:"path"`
	// Size is the sum of all descendant file sizes in bytes.
	Size int64 `json:"size"`
	// ModTime is the modification time of the directory entry itself.
	ModTime time.Time `json:"mod_time"`
}

// FileReport is the outcome of a Top-N file scan. A report is always
// produced; partial results plus the skip counter stand in for errors.
type FileReport struct {
	// Files holds at most N records, largest first. Equal sizes carry no
	// guaranteed relative order.
	Files []FileRecord `json:"files"`
	// Scanned is the number of regular files visited.
	Scanned int64 `json:"scanned"`
	// TotalBytes is the cumulative size of all visited files.
	TotalBytes int64 `json:"total_bytes"`
	// Skipped counts entries dropped due to access errors.
	Skipped int64 `json:"skipped"`
	// Elapsed is the wall time of the scan.
	Elapsed time.Duration `json:"elapsed"`
}

// FolderReport is the outcome of a top-level folder aggregation.
type FolderReport struct {
	// Folders holds at most N records, largest first.
	Folders []FolderRecord `json:"folders"`
	// Skipped counts entries dropped due to access errors.
	Skipped int64 `json:"skipped"`
	// Elapsed is the wall time of the aggregation.
	Elapsed time.Duration `json:"elapsed"`
}

// Options configures a scan.
type Options struct {
	// TopN is the number of records to retain. Zero or negative yields
	// empty reports.
	TopN int
	// MinSize excludes files smaller than this many bytes from the file
	// ranking. Folder aggregation always sums every file.
	MinSize int64
	// Excludes prunes any path matching one of the patterns. Matching
	// directories are skipped whole.
	Excludes []*regexp.Regexp
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
}

// collector aggregates walk results from concurrent fastwalk callbacks
// behind a mutex.
type collector struct {
	mu         sync.Mutex
	top        *topHeap
	scanned    int64
	totalBytes int64
	skipped    int64
}

func newCollector(topN int) *collector {
	return &collector{top: newTopHeap(topN)}
}

func (c *collector) add(rec FileRecord, rank bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.scanned++
	c.totalBytes += rec.Size

	if rank {
		c.top.offer(rec)
	}
}

func (c *collector) skip() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skipped++
}

func (c *collector) snapshot() (files, bytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.scanned, c.totalBytes
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx
// is done.
func startProgressReporter(ctx context.Context, c *collector, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.snapshot())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// excluded reports whether path matches any exclusion pattern. Matching is
// done on the slash form of the path.
func excluded(path string, patterns []*regexp.Regexp) bool {
	if len(patterns) == 0 {
		return false
	}

	fPath := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(fPath) {
			return true
		}
	}

	return false
}

// TopFiles walks the tree at root and returns the opt.TopN largest regular
// files, largest first. Symlinks are not followed. Unreadable entries are
// counted in the report's Skipped field and otherwise ignored; an
// unopenable root yields an empty report. Cancelling ctx stops the walk
// and returns whatever the scan has retained so far.
func TopFiles(ctx context.Context, root string, opt Options, progress func(files, bytes int64)) *FileReport {
	start := time.Now()
	c := newCollector(opt.TopN)

	if opt.TopN > 0 {
		walkTree(ctx, root, opt, c, progress, func(info fs.FileInfo, path string) {
			rank := info.Size() >= opt.MinSize
			c.add(FileRecord{Path: path, Size: info.Size(), ModTime: info.ModTime()}, rank)
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return &FileReport{
		Files:      c.top.drain(),
		Scanned:    c.scanned,
		TotalBytes: c.totalBytes,
		Skipped:    c.skipped,
		Elapsed:    time.Since(start),
	}
}

// TopFolders ranks the immediate child directories of root by the total
// size of all files anywhere beneath them, largest first, truncated to
// opt.TopN. Only depth-1 directories are ranked; deeper directories
// contribute to their depth-1 ancestor's total. An unreadable root yields
// an empty report.
func TopFolders(ctx context.Context, root string, opt Options) *FolderReport {
	start := time.Now()
	report := &FolderReport{}

	if opt.TopN <= 0 {
		report.Elapsed = time.Since(start)

		return report
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		log.Debug().Err(err).Str("root", root).Msg("cannot list folder root")
		report.Skipped++
		report.Elapsed = time.Since(start)

		return report
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			report.Elapsed = time.Since(start)

			return report
		default:
		}

		// DirEntry reports symlinks by their link type, so links to
		// directories are not descended into.
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(root, entry.Name())
		if excluded(path, opt.Excludes) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			report.Skipped++

			continue
		}

		c := newCollector(0)
		walkTree(ctx, path, opt, c, nil, func(fi fs.FileInfo, _ string) {
			c.add(FileRecord{Size: fi.Size()}, false)
		})

		report.Skipped += c.skipped
		report.Folders = append(report.Folders, FolderRecord{
			Path:    path,
			Size:    c.totalBytes,
			ModTime: info.ModTime(),
		})
	}

	sortFolders(report.Folders)

	if len(report.Folders) > opt.TopN {
		report.Folders = report.Folders[:opt.TopN]
	}

	report.Elapsed = time.Since(start)

	return report
}

// sortFolders orders records largest first. Equal sizes carry no
// guaranteed relative order.
func sortFolders(folders []FolderRecord) {
	sort.Slice(folders, func(i, j int) bool {
		return folders[i].Size > folders[j].Size
	})
}

// walkTree runs the shared permissive traversal: parallel, symlink-free,
// swallowing per-entry errors into the collector's skip counter. visit is
// called for every surviving regular file and must be safe for concurrent
// use (the collector methods are).
func walkTree(
	ctx context.Context,
	root string,
	opt Options,
	c *collector,
	progress func(int64, int64),
	visit func(info fs.FileInfo, path string),
) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, c, progress, opt.ProgressInterval)

	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	err := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("skipping entry")
			c.skip()

			return nil
		}

		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		if excluded(path, opt.Excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			c.skip()

			return nil
		}

		visit(info, path)

		return nil
	})
	// A cancelled walk still hands back the partial top set; any other
	// walk-level failure means the root itself was unreachable and the
	// report stays empty.
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Debug().Err(err).Str("root", root).Msg("walk aborted")
		c.skip()
	}
}
