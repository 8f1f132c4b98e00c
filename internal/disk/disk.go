// Package disk discovers scannable storage devices and their capacity.
//
// Discovery is platform specific: Unix hosts enumerate the live mount
// table, Windows hosts enumerate fixed drive letters. Both strategies sit
// behind the Enumerator interface and are selected at startup through
// build tags.
package disk

import (
	"context"
	"sort"
)

// DefaultDenyPrefixes lists mount path prefixes that never refer to
// persistent physical storage and are excluded from scanning by default.
var DefaultDenyPrefixes = []string{"/proc", "/sys", "/dev", "/run", "/snap", "/private/var"}

// Device is a single scannable storage root.
type Device struct {
	// Name is the display label: the drive letter on Windows, the mount
	// path elsewhere.
	Name string `json:"name"`
	// Path is the filesystem root to scan.
	Path string `json:"path"`
	// Total is the device capacity in bytes.
	Total uint64 `json:"total"`
	// Free is the unused capacity in bytes. Free never exceeds Total.
	Free uint64 `json:"free"`
	// Fstype is the filesystem type when known.
	Fstype string `json:"fstype,omitempty"`
}

// Used returns the occupied capacity in bytes.
func (d Device) Used() uint64 { return d.Total - d.Free }

// Options configures device discovery.
type Options struct {
	// DenyPrefixes overrides the pseudo-filesystem exclusion list. Empty
	// means DefaultDenyPrefixes. Ignored on Windows.
	DenyPrefixes []string
}

// Enumerator discovers storage devices. Discovery is best effort: a device
// whose metadata query fails is silently skipped, and an empty result is a
// valid outcome, not an error.
type Enumerator interface {
	Enumerate(ctx context.Context) []Device
}

// New returns the enumerator for the host platform.
func New(opts Options) Enumerator {
	if len(opts.DenyPrefixes) == 0 {
		opts.DenyPrefixes = DefaultDenyPrefixes
	}

	return newPlatformEnumerator(opts)
}

// sortDevices orders devices by name ascending so that device indices stay
// deterministic across repeated enumerations on an unchanged system.
func sortDevices(devices []Device) {
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Name < devices[j].Name
	})
}
