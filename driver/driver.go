// Copyright 2025 The PIMHAL Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package driver creates PIM HAL devices and registers the driver with
// the process-wide registry.
package driver

import (
	"fmt"

	"github.com/memflow/pimhal"
	"github.com/memflow/pimhal/hal"
	"github.com/memflow/pimhal/pim"
)

// Name is the identifier the PIM driver registers under.
const Name = "pim"

// FullName is the human-readable driver description.
const FullName = "PIM SDK driver"

// DeviceID addresses a logical device of a driver. The PIM driver exposes
// a single logical device and ignores the id on creation.
type DeviceID uint64

// DefaultDeviceID selects the default device.
const DefaultDeviceID DeviceID = 0

// Info is the static description of a driver.
type Info struct {
	Name     string
	FullName string
}

// Options configure driver and device construction.
type Options struct {
	Device hal.DeviceOptions
}

// DefaultOptions returns the default driver configuration.
func DefaultOptions() Options {
	return Options{Device: hal.DefaultDeviceOptions()}
}

// Driver creates devices over one PIM SDK instance.
type Driver struct {
	name    string
	options Options
	sdk     pim.SDK
}

// New returns a driver with the given identifier and SDK.
func New(name string, options Options, sdk pim.SDK) (*Driver, error) {
	if sdk == nil {
		return nil, pimhal.Errorf(pimhal.InvalidArgument, "driver requires an SDK")
	}
	return &Driver{name: name, options: options, sdk: sdk}, nil
}

// Name returns the driver identifier.
func (d *Driver) Name() string { return d.name }

// Info returns the static driver-info record.
func (d *Driver) Info() Info {
	return Info{Name: d.name, FullName: FullName}
}

// DumpDeviceInfo returns a short description of the device with the given
// id.
func (d *Driver) DumpDeviceInfo(id DeviceID) string {
	return fmt.Sprintf("%s: single logical PIM device (id ignored, got %d)", d.name, id)
}

// CreateDevice returns the driver's single logical device. The id is
// ignored: every id maps to the same device identity.
func (d *Driver) CreateDevice(id DeviceID) (*hal.Device, error) {
	return hal.NewDevice("PIM", d.options.Device, d.sdk)
}

// CreateDeviceByPath creates a device from a path string. Only the empty
// path is supported; it delegates to creation by default id.
func (d *Driver) CreateDeviceByPath(path string) (*hal.Device, error) {
	if path == "" {
		return d.CreateDevice(DefaultDeviceID)
	}
	return nil, pimhal.Errorf(pimhal.Unimplemented, "unsupported device path %q", path)
}
