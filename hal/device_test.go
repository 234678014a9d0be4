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

package hal_test

import (
	"context"
	"testing"
	"time"

	"github.com/memflow/pimhal"
	"github.com/memflow/pimhal/hal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeviceRequiresSDK(t *testing.T) {
	_, err := hal.NewDevice("PIM", hal.DefaultDeviceOptions(), nil)
	require.Error(t, err)
	assert.True(t, pimhal.IsInvalidArgument(err))
}

func TestQueryI64ExecutableFormat(t *testing.T) {
	dev := newTestDevice(t, newStubSDK())

	got, err := dev.QueryI64("hal.executable.format", pimhal.ExecutableFormat)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	got, err = dev.QueryI64("hal.executable.format", "vulkan-spirv-fb")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestQueryI64UnknownCategory(t *testing.T) {
	dev := newTestDevice(t, newStubSDK())
	_, err := dev.QueryI64("hal.device.id", "pim")
	require.Error(t, err)
	assert.True(t, pimhal.IsNotFound(err))
	assert.ErrorContains(t, err, "hal.device.id :: pim")
}

func TestCreateCommandBufferForcesDispatchCategory(t *testing.T) {
	dev := newTestDevice(t, newStubSDK())
	cb, err := dev.CreateCommandBuffer(hal.CommandBufferModeOneShot,
		hal.CommandCategoryTransfer, hal.QueueAffinityAny, 0)
	require.NoError(t, err)
	assert.NotZero(t, cb.Categories()&hal.CommandCategoryDispatch)
	assert.NotZero(t, cb.Categories()&hal.CommandCategoryTransfer)
}

func TestCreateLayouts(t *testing.T) {
	dev := newTestDevice(t, newStubSDK())

	setLayout, err := dev.CreateDescriptorSetLayout([]hal.DescriptorSetLayoutBinding{
		{Binding: 0, Type: hal.DescriptorTypeStorageBuffer},
		{Binding: 1, Type: hal.DescriptorTypeStorageBuffer},
	})
	require.NoError(t, err)

	layout, err := dev.CreatePipelineLayout(2, []*hal.DescriptorSetLayout{setLayout})
	require.NoError(t, err)
	assert.Equal(t, 2, layout.PushConstantCount())
	assert.Equal(t, 1, layout.SetLayoutCount())
	assert.Equal(t, setLayout, layout.SetLayout(0))
}

func TestExecutableCachePreparesKnownFormat(t *testing.T) {
	dev := newTestDevice(t, newStubSDK())
	cache, err := dev.CreateExecutableCache("test")
	require.NoError(t, err)

	assert.True(t, cache.CanPrepareFormat(pimhal.ExecutableFormat))
	assert.False(t, cache.CanPrepareFormat("vmvx-bytecode-fb"))

	layout, err := dev.CreatePipelineLayout(0, nil)
	require.NoError(t, err)
	data := hal.MarshalExecutableDef(&hal.ExecutableDef{
		EntryPoints:  []string{"main"},
		CommandWords: []uint64{2},
	})
	executable, err := cache.PrepareExecutable(hal.ExecutableParams{
		Data:            data,
		PipelineLayouts: []*hal.PipelineLayout{layout},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, executable.EntryPoints())
}

func TestSemaphoreSignalAndQuery(t *testing.T) {
	dev := newTestDevice(t, newStubSDK())
	sem, err := dev.CreateSemaphore(5)
	require.NoError(t, err)

	got, err := sem.Query()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got)

	require.NoError(t, sem.Signal(9))
	got, err = sem.Query()
	require.NoError(t, err)
	assert.Equal(t, uint64(9), got)

	require.NoError(t, sem.Wait(9, time.Second))
}

func TestWaitSemaphoresReturnsImmediately(t *testing.T) {
	dev := newTestDevice(t, newStubSDK())
	sem, err := dev.CreateSemaphore(0)
	require.NoError(t, err)

	err = dev.WaitSemaphores(context.Background(), hal.WaitModeAll,
		[]hal.SemaphoreValue{{Semaphore: sem, Value: 100}}, time.Millisecond)
	assert.NoError(t, err)
}

func TestQueueAllocaAndDealloca(t *testing.T) {
	dev := newTestDevice(t, newStubSDK())

	buffer, err := dev.QueueAlloca(hal.QueueAffinityAny, nil, nil, dispatchParams(), 16)
	require.NoError(t, err)
	assert.Equal(t, pimhal.Dims{0, 0, 0}, buffer.Dims())

	require.NoError(t, dev.QueueDealloca(hal.QueueAffinityAny, nil, nil, buffer))
	assert.False(t, buffer.HasDevicePayload())
}

func TestQueueExecuteAndFlush(t *testing.T) {
	dev := newTestDevice(t, newStubSDK())
	cb := beginRecording(t, dev)
	require.NoError(t, cb.End())

	assert.NoError(t, dev.QueueExecute(hal.QueueAffinityAny, nil, nil, []*hal.CommandBuffer{cb}))
	assert.NoError(t, dev.QueueFlush(hal.QueueAffinityAny))
}

func TestCreateChannelUnimplemented(t *testing.T) {
	dev := newTestDevice(t, newStubSDK())
	_, err := dev.CreateChannel(hal.QueueAffinityAny)
	require.Error(t, err)
	assert.True(t, pimhal.IsUnimplemented(err))
}

func TestProfilingNoOps(t *testing.T) {
	dev := newTestDevice(t, newStubSDK())
	assert.NoError(t, dev.ProfilingBegin())
	assert.NoError(t, dev.ProfilingEnd())
	assert.NoError(t, dev.Trim())
}
