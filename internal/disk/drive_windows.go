//go:build windows

package disk

import (
	"context"

	"github.com/rs/zerolog/log"
	psdisk "github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/sys/windows"
)

const driveLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// driveEnumerator discovers fixed local drives by letter.
type driveEnumerator struct{}

func newPlatformEnumerator(_ Options) Enumerator {
	return driveEnumerator{}
}

// Enumerate walks the logical-drive bitmask and keeps only drives
// classified as fixed local storage. Removable, network, optical and
// RAM-disk drives are excluded. A drive whose type or capacity query fails
// is skipped.
func (driveEnumerator) Enumerate(ctx context.Context) []Device {
	bitmask, err := windows.GetLogicalDrives()
	if err != nil {
		log.Debug().Err(err).Msg("logical drive enumeration failed")

		return nil
	}

	var devices []Device

	for i, letter := range driveLetters {
		if bitmask&(1<<i) == 0 {
			continue
		}

		root := string(letter) + `:\`

		rootPtr, err := windows.UTF16PtrFromString(root)
		if err != nil {
			continue
		}

		if windows.GetDriveType(rootPtr) != windows.DRIVE_FIXED {
			continue
		}

		usage, err := psdisk.UsageWithContext(ctx, root)
		if err != nil {
			log.Debug().Err(err).Str("drive", root).Msg("skipping drive: usage query failed")

			continue
		}

		devices = append(devices, Device{
			Name:   string(letter) + ":",
			Path:   root,
			Total:  usage.Total,
			Free:   usage.Free,
			Fstype: usage.Fstype,
		})
	}

	sortDevices(devices)

	return devices
}
