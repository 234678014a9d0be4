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

package platform_test

import (
	"testing"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/memflow/pimhal"
	"github.com/memflow/pimhal/backend/platform"
	"github.com/memflow/pimhal/hal"
	"github.com/memflow/pimhal/pim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlatform(t *testing.T) *platform.Platform {
	t.Helper()
	dev, err := hal.NewDevice("PIM", hal.DefaultDeviceOptions(), pim.NewSimulator())
	require.NoError(t, err)
	return platform.New(dev)
}

func TestPlatformSingleDevice(t *testing.T) {
	plat := newPlatform(t)
	assert.Equal(t, "pim", plat.Name())

	first, err := plat.Device(0)
	require.NoError(t, err)
	second, err := plat.Device(3)
	require.NoError(t, err)
	assert.Same(t, first, second, "every ordinal maps to the single device")

	dev := first.(*platform.Device)
	assert.Equal(t, 0, dev.Ordinal())
	assert.Same(t, plat, dev.Platform())
}

func TestDeviceSendAndMapBack(t *testing.T) {
	plat := newPlatform(t)
	devAny, err := plat.Device(0)
	require.NoError(t, err)
	dev := devAny.(*platform.Device)

	sh := &shape.Shape{DType: dtype.Float32, AxisLengths: []int{2, 2}}
	values := []float32{1, 2, 3, 4}
	handleAny, err := dev.Send(pimhal.BytesFromFloat32s(values), sh)
	require.NoError(t, err)

	handle := handleAny.(*platform.Handle)
	assert.Equal(t, sh, handle.Shape())
	assert.Same(t, devAny, handle.Device())
	assert.Equal(t, pimhal.Dims{2, 2}, handle.Buffer().Dims())

	mapped, err := handle.Buffer().Map(0, int(sh.ByteSize()))
	require.NoError(t, err)
	assert.Equal(t, values, pimhal.Float32sFromBytes(mapped))
}

func TestDeviceSendRejectsNonFloat32(t *testing.T) {
	plat := newPlatform(t)
	devAny, err := plat.Device(0)
	require.NoError(t, err)
	dev := devAny.(*platform.Device)

	sh := &shape.Shape{DType: dtype.Float64, AxisLengths: []int{2}}
	_, err = dev.Send(make([]byte, 16), sh)
	require.Error(t, err)
	assert.ErrorContains(t, err, "not supported by pim")
}

func TestHandleToSameDevice(t *testing.T) {
	plat := newPlatform(t)
	devAny, err := plat.Device(0)
	require.NoError(t, err)
	dev := devAny.(*platform.Device)

	sh := &shape.Shape{DType: dtype.Float32, AxisLengths: []int{4}}
	handleAny, err := dev.Send(pimhal.BytesFromFloat32s([]float32{1, 2, 3, 4}), sh)
	require.NoError(t, err)
	handle := handleAny.(*platform.Handle)

	moved, err := handle.ToDevice(dev)
	require.NoError(t, err)
	assert.Same(t, handle, moved, "same-device transfer returns the handle unchanged")

	moved2, err := platform.ToDevice(dev, handle)
	require.NoError(t, err)
	assert.Same(t, handle, moved2)
}
