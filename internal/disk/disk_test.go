package disk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceUsed(t *testing.T) {
	d := Device{Total: 1000, Free: 300}

	assert.Equal(t, uint64(700), d.Used())
}

func TestSortDevicesByName(t *testing.T) {
	devices := []Device{
		{Name: "/var"},
		{Name: "/"},
		{Name: "/home"},
	}

	sortDevices(devices)

	assert.Equal(t, "/", devices[0].Name)
	assert.Equal(t, "/home", devices[1].Name)
	assert.Equal(t, "/var", devices[2].Name)
}
