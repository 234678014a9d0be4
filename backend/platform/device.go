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

package platform

import (
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/platform"
	"github.com/gx-org/backend/shape"
	"github.com/pkg/errors"
	"github.com/memflow/pimhal"
	"github.com/memflow/pimhal/hal"
)

// Device is the single logical PIM device of the platform.
type Device struct {
	plat *Platform
}

// Platform owning the device.
func (dev *Device) Platform() platform.Platform {
	return dev.plat
}

// Ordinal of the device on the platform.
func (dev *Device) Ordinal() int {
	return 0
}

// Send raw data to the device. Return a handle from this package.
func (dev *Device) send(data []byte, sh *shape.Shape) (*Handle, error) {
	if sh.DType != dtype.Float32 {
		return nil, errors.Errorf("GX %s data type not supported by pim", sh.DType.String())
	}
	params := hal.BufferParams{
		Type:        hal.MemoryTypeDeviceLocal | hal.MemoryTypeDeviceVisible,
		Access:      hal.MemoryAccessRead | hal.MemoryAccessWrite,
		Usage:       hal.BufferUsageTransfer | hal.BufferUsageDispatchStorage,
		TensorShape: pimhal.Dims(sh.AxisLengths),
		TensorRank:  len(sh.AxisLengths),
	}
	buffer, err := dev.plat.hal.Allocator().AllocateBuffer(params, len(data), data)
	if err != nil {
		return nil, err
	}
	return NewHandle(dev, buffer, sh)
}

func (dev *Device) sendFromHost(handle platform.HostBuffer) (*Handle, error) {
	data := handle.Acquire()
	defer handle.Release()
	return dev.send(data, handle.Shape())
}

// Send raw data to the device.
func (dev *Device) Send(data []byte, sh *shape.Shape) (platform.DeviceHandle, error) {
	return dev.send(data, sh)
}
