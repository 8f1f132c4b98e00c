//go:build !windows

package disk

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	psdisk "github.com/shirou/gopsutil/v3/disk"
)

// mountEnumerator discovers devices from the live mount table.
type mountEnumerator struct {
	deny []string
}

func newPlatformEnumerator(opts Options) Enumerator {
	return &mountEnumerator{deny: opts.DenyPrefixes}
}

// Enumerate lists every real mount point with its capacity. Pseudo
// filesystems are filtered by path prefix, duplicate mount paths collapse
// to one entry, and a mount whose capacity query fails is skipped.
func (m *mountEnumerator) Enumerate(ctx context.Context) []Device {
	seen := make(map[string]struct{})

	var devices []Device

	for _, mnt := range m.mountPoints(ctx) {
		mnt = filepath.Clean(mnt)

		if m.denied(mnt) {
			continue
		}

		if info, err := os.Stat(mnt); err != nil || !info.IsDir() {
			continue
		}

		if _, ok := seen[mnt]; ok {
			continue
		}

		seen[mnt] = struct{}{}

		usage, err := psdisk.UsageWithContext(ctx, mnt)
		if err != nil {
			log.Debug().Err(err).Str("mount", mnt).Msg("skipping mount: usage query failed")

			continue
		}

		devices = append(devices, Device{
			Name:   mnt,
			Path:   mnt,
			Total:  usage.Total,
			Free:   usage.Free,
			Fstype: usage.Fstype,
		})
	}

	sortDevices(devices)

	return devices
}

// denied reports whether mnt falls under any excluded prefix.
func (m *mountEnumerator) denied(mnt string) bool {
	for _, prefix := range m.deny {
		if strings.HasPrefix(mnt, prefix) {
			return true
		}
	}

	return false
}

// mountPoints reads the mount table, falling back to parsing df output and
// finally to the bare root mount.
func (m *mountEnumerator) mountPoints(ctx context.Context) []string {
	parts, err := psdisk.PartitionsWithContext(ctx, true)
	if err == nil && len(parts) > 0 {
		mounts := make([]string, 0, len(parts))
		for _, p := range parts {
			mounts = append(mounts, p.Mountpoint)
		}

		return mounts
	}

	log.Debug().Err(err).Msg("mount table unreadable, falling back to df")

	out, err := exec.CommandContext(ctx, "df", "-P").Output()
	if err == nil {
		if mounts := parseDFOutput(string(out)); len(mounts) > 0 {
			return mounts
		}
	}

	return []string{"/"}
}

// parseDFOutput extracts mount points from POSIX `df -P` output. The mount
// point is the sixth column; columns past it cannot occur in -P format, so
// the last field is taken to tolerate device names containing spaces.
func parseDFOutput(out string) []string {
	lines := strings.Split(out, "\n")
	if len(lines) < 2 {
		return nil
	}

	var mounts []string

	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) >= 6 {
			mounts = append(mounts, fields[len(fields)-1])
		}
	}

	return mounts
}
