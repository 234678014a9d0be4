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

// Package platform exposes the PIM device as a GX platform, so a
// tensor-program engine can move host data to and from device buffers.
package platform

import (
	"github.com/gx-org/backend/platform"
	"github.com/memflow/pimhal/hal"
)

// Platform is the PIM platform.
type Platform struct {
	hal    *hal.Device
	device *Device
}

// New returns a platform over a HAL device.
func New(dev *hal.Device) *Platform {
	plat := &Platform{hal: dev}
	plat.device = &Device{plat: plat}
	return plat
}

// Name of the platform.
func (plat *Platform) Name() string {
	return "pim"
}

// Device returns a device given its ID.
// The PIM platform exposes a single logical device: the same pointer is
// returned for every ordinal, so pointer comparison identifies it.
func (plat *Platform) Device(ordinal int) (platform.Device, error) {
	return plat.device, nil
}

// HAL returns the underlying HAL device.
func (plat *Platform) HAL() *hal.Device {
	return plat.hal
}
