//go:build !windows

package disk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenied(t *testing.T) {
	m := &mountEnumerator{deny: DefaultDenyPrefixes}

	tests := []struct {
		mount  string
		denied bool
	}{
		{"/", false},
		{"/home", false},
		{"/proc", true},
		{"/proc/sys/fs/binfmt_misc", true},
		{"/sys/fs/cgroup", true},
		{"/dev/shm", true},
		{"/run/lock", true},
		{"/snap/core/123", true},
		{"/private/var/vm", true},
		{"/mnt/data", false},
	}

	for _, tt := range tests {
		t.Run(tt.mount, func(t *testing.T) {
			assert.Equal(t, tt.denied, m.denied(tt.mount))
		})
	}
}

func TestDeniedCustomPrefixes(t *testing.T) {
	m := &mountEnumerator{deny: []string{"/mnt/backup"}}

	assert.True(t, m.denied("/mnt/backup/weekly"))
	assert.False(t, m.denied("/proc"))
}

func TestParseDFOutput(t *testing.T) {
	out := "Filesystem     1024-blocks     Used Available Capacity Mounted on\n" +
		"/dev/sda2        487652352 95867136 366945280      21% /\n" +
		"tmpfs              8145100        0   8145100       0% /dev/shm\n" +
		"/dev/sdb1        976762584  1234567 975528017       1% /mnt/data\n" +
		"\n"

	mounts := parseDFOutput(out)

	require.Len(t, mounts, 3)
	assert.Equal(t, []string{"/", "/dev/shm", "/mnt/data"}, mounts)
}

func TestParseDFOutputEmpty(t *testing.T) {
	assert.Empty(t, parseDFOutput(""))
	assert.Empty(t, parseDFOutput("Filesystem 1024-blocks Used Available Capacity Mounted on\n"))
}

func TestEnumerateInvariants(t *testing.T) {
	devices := New(Options{}).Enumerate(context.Background())

	// Discovery is host dependent; assert the structural invariants only.
	for i, d := range devices {
		assert.NotEmpty(t, d.Name)
		assert.NotEmpty(t, d.Path)
		assert.LessOrEqual(t, d.Free, d.Total)

		if i > 0 {
			assert.LessOrEqual(t, devices[i-1].Name, d.Name)
		}
	}
}
