package scan

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates a file of the given size under dir, creating parent
// directories as needed.
func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))

	return path
}

func TestTopFilesRanksLargestFirst(t *testing.T) {
	dir := t.TempDir()

	sizes := map[string]int{"a.bin": 10, "b.bin": 50, "c.bin": 5, "sub/d.bin": 200, "sub/e.bin": 1}
	for name, size := range sizes {
		writeFile(t, dir, name, size)
	}

	report := TopFiles(context.Background(), dir, Options{TopN: 3}, nil)

	require.Len(t, report.Files, 3)
	assert.Equal(t, int64(200), report.Files[0].Size)
	assert.Equal(t, int64(50), report.Files[1].Size)
	assert.Equal(t, int64(10), report.Files[2].Size)
	assert.Equal(t, int64(5), report.Scanned)
	assert.Equal(t, int64(266), report.TotalBytes)
	assert.Zero(t, report.Skipped)
}

func TestTopFilesMatchesFullSort(t *testing.T) {
	dir := t.TempDir()

	sizes := []int{17, 3, 3, 250, 88, 1, 42, 9000, 512, 64, 7, 1024}
	for i, size := range sizes {
		writeFile(t, dir, filepath.Join("d", "f"+string(rune('a'+i))), size)
	}

	const topN = 5

	report := TopFiles(context.Background(), dir, Options{TopN: topN}, nil)
	require.Len(t, report.Files, topN)

	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	for i := 0; i < topN; i++ {
		assert.Equal(t, int64(sizes[i]), report.Files[i].Size)
	}
}

func TestTopFilesResultNeverExceedsN(t *testing.T) {
	dir := t.TempDir()

	for i := 0; i < 40; i++ {
		writeFile(t, dir, "f"+string(rune('a'+i%26))+string(rune('a'+i/26)), i+1)
	}

	report := TopFiles(context.Background(), dir, Options{TopN: 4}, nil)

	assert.Len(t, report.Files, 4)
	assert.Equal(t, int64(40), report.Scanned)
}

func TestTopFilesFewerFilesThanN(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "only.bin", 7)

	report := TopFiles(context.Background(), dir, Options{TopN: 10}, nil)

	require.Len(t, report.Files, 1)
	assert.Equal(t, int64(7), report.Files[0].Size)
}

func TestTopFilesZeroN(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.bin", 10)

	assert.Empty(t, TopFiles(context.Background(), dir, Options{TopN: 0}, nil).Files)
	assert.Empty(t, TopFiles(context.Background(), dir, Options{TopN: -1}, nil).Files)
}

func TestTopFilesMissingRoot(t *testing.T) {
	report := TopFiles(context.Background(), filepath.Join(t.TempDir(), "absent"), Options{TopN: 3}, nil)

	assert.Empty(t, report.Files)
}

func TestTopFilesEmptyRoot(t *testing.T) {
	report := TopFiles(context.Background(), t.TempDir(), Options{TopN: 3}, nil)

	assert.Empty(t, report.Files)
	assert.Zero(t, report.Scanned)
}

func TestTopFilesMinSize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.bin", 10)
	writeFile(t, dir, "large.bin", 100)

	report := TopFiles(context.Background(), dir, Options{TopN: 5, MinSize: 50}, nil)

	require.Len(t, report.Files, 1)
	assert.Equal(t, int64(100), report.Files[0].Size)
}

func TestTopFilesExcludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("node_modules", "huge.bin"), 500)
	writeFile(t, dir, "kept.bin", 20)

	opt := Options{TopN: 5, Excludes: []*regexp.Regexp{regexp.MustCompile(`.*node_modules/.*`)}}
	report := TopFiles(context.Background(), dir, opt, nil)

	require.Len(t, report.Files, 1)
	assert.Equal(t, "kept.bin", filepath.Base(report.Files[0].Path))
}

func TestTopFilesCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.bin", 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled walk returns whatever partial set it has, not an error.
	report := TopFiles(ctx, dir, Options{TopN: 3}, nil)
	assert.LessOrEqual(t, len(report.Files), 3)
}

func TestTopHeapBoundedMemory(t *testing.T) {
	h := newTopHeap(5)

	for i := 0; i < 1000; i++ {
		h.offer(FileRecord{Path: "f", Size: int64(i)})
		assert.LessOrEqual(t, h.Len(), 5)
	}

	files := h.drain()
	require.Len(t, files, 5)

	for i, want := range []int64{999, 998, 997, 996, 995} {
		assert.Equal(t, want, files[i].Size)
	}
}

func TestTopHeapEqualSizesDoNotEvict(t *testing.T) {
	h := newTopHeap(2)

	h.offer(FileRecord{Path: "a", Size: 10})
	h.offer(FileRecord{Path: "b", Size: 10})
	// Equal to the current minimum: must not replace it.
	h.offer(FileRecord{Path: "c", Size: 10})

	files := h.drain()
	require.Len(t, files, 2)

	paths := []string{files[0].Path, files[1].Path}
	assert.NotContains(t, paths, "c")
}

func TestTopFoldersAggregatesDepthOneOnly(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, filepath.Join("alpha", "f1.bin"), 100)
	writeFile(t, dir, filepath.Join("alpha", "nested", "deep", "f2.bin"), 400)
	writeFile(t, dir, filepath.Join("beta", "f3.bin"), 50)
	writeFile(t, dir, "loose.bin", 9000)

	report := TopFolders(context.Background(), dir, Options{TopN: 10})

	require.Len(t, report.Folders, 2)
	assert.Equal(t, "alpha", filepath.Base(report.Folders[0].Path))
	assert.Equal(t, int64(500), report.Folders[0].Size)
	assert.Equal(t, "beta", filepath.Base(report.Folders[1].Path))
	assert.Equal(t, int64(50), report.Folders[1].Size)
}

func TestTopFoldersTruncatesToN(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"a", "b", "c", "d"} {
		writeFile(t, dir, filepath.Join(name, "f.bin"), len(name)*10)
	}

	report := TopFolders(context.Background(), dir, Options{TopN: 2})

	assert.Len(t, report.Folders, 2)
}

func TestTopFoldersMissingRoot(t *testing.T) {
	report := TopFolders(context.Background(), filepath.Join(t.TempDir(), "absent"), Options{TopN: 3})

	assert.Empty(t, report.Folders)
	assert.Equal(t, int64(1), report.Skipped)
}

func TestTopFoldersZeroN(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("a", "f.bin"), 10)

	assert.Empty(t, TopFolders(context.Background(), dir, Options{TopN: 0}).Folders)
}
