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

package hal

import (
	"context"
	"time"

	"github.com/memflow/pimhal"
	"github.com/memflow/pimhal/pim"
	"k8s.io/klog/v2"
)

// DeviceOptions override default device behavior.
type DeviceOptions struct {
	// LargeHeapBlockSize is the preferred block size for large
	// allocations. Carried for API parity; the PIM allocator keeps no
	// pool.
	LargeHeapBlockSize int
}

// DefaultDeviceOptions returns the default device configuration.
func DefaultDeviceOptions() DeviceOptions {
	return DeviceOptions{LargeHeapBlockSize: 64 * 1024 * 1024}
}

// WaitMode selects how multi-semaphore waits complete.
type WaitMode int

const (
	// WaitModeAll completes when every semaphore is reached.
	WaitModeAll WaitMode = iota
	// WaitModeAny completes when any semaphore is reached.
	WaitModeAny
)

// SemaphoreValue pairs a semaphore with a target payload value.
type SemaphoreValue struct {
	Semaphore *Semaphore
	Value     uint64
}

// Device is the uniform interface over one PIM accelerator. It owns the
// allocator servicing all buffer requests and hands out the recording and
// synchronization objects of the HAL.
type Device struct {
	id        string
	options   DeviceOptions
	sdk       pim.SDK
	allocator *Allocator
}

// NewDevice creates a device over the given SDK.
func NewDevice(id string, options DeviceOptions, sdk pim.SDK) (*Device, error) {
	if sdk == nil {
		return nil, pimhal.Errorf(pimhal.InvalidArgument, "device requires an SDK")
	}
	device := &Device{id: id, options: options, sdk: sdk}
	device.allocator = newAllocator(device, sdk)
	return device, nil
}

// ID returns the device identifier.
func (d *Device) ID() string { return d.id }

// SDK returns the accelerator SDK the device dispatches through.
func (d *Device) SDK() pim.SDK { return d.sdk }

// Allocator returns the allocator servicing buffer requests.
func (d *Device) Allocator() *Allocator { return d.allocator }

// ReplaceAllocator swaps the allocator servicing future requests.
func (d *Device) ReplaceAllocator(allocator *Allocator) {
	d.allocator = allocator
}

// Trim releases pooled resources held by the allocator.
func (d *Device) Trim() error {
	return d.allocator.Trim()
}

// QueryI64 probes a device capability. The category
// "hal.executable.format" reports 1 for this device's executable format
// and 0 for any other; all other category/key pairs are unknown.
func (d *Device) QueryI64(category, key string) (int64, error) {
	if category == "hal.executable.format" {
		if key == pimhal.ExecutableFormat {
			return 1, nil
		}
		return 0, nil
	}
	return 0, pimhal.Errorf(pimhal.NotFound,
		"unknown device configuration key value '%s :: %s'", category, key)
}

// CreateCommandBuffer allocates a recording session. Dispatch capability
// is always added to the requested categories.
func (d *Device) CreateCommandBuffer(mode CommandBufferMode, categories CommandCategory,
	affinity QueueAffinity, bindingCapacity int) (*CommandBuffer, error) {
	categories |= CommandCategoryDispatch
	return newCommandBuffer(d, mode, categories, affinity, bindingCapacity)
}

// CreateDescriptorSetLayout records the declared bindings of one
// descriptor set.
func (d *Device) CreateDescriptorSetLayout(bindings []DescriptorSetLayoutBinding) (*DescriptorSetLayout, error) {
	layout := &DescriptorSetLayout{bindings: make([]DescriptorSetLayoutBinding, len(bindings))}
	copy(layout.bindings, bindings)
	return layout, nil
}

// CreatePipelineLayout records push-constant capacity and set layouts.
func (d *Device) CreatePipelineLayout(pushConstants int, setLayouts []*DescriptorSetLayout) (*PipelineLayout, error) {
	layout := &PipelineLayout{
		pushConstants: pushConstants,
		setLayouts:    make([]*DescriptorSetLayout, len(setLayouts)),
	}
	copy(layout.setLayouts, setLayouts)
	return layout, nil
}

// CreateExecutableCache returns a cache preparing executables for this
// device.
func (d *Device) CreateExecutableCache(identifier string) (*ExecutableCache, error) {
	return newExecutableCache(identifier), nil
}

// CreateSemaphore returns a new inert semaphore.
func (d *Device) CreateSemaphore(initialValue uint64) (*Semaphore, error) {
	return newSemaphore(initialValue), nil
}

// CreateEvent returns a new inert event.
func (d *Device) CreateEvent() (*Event, error) {
	return &Event{}, nil
}

// CreateChannel opens a collective communication channel. Not provided by
// this device model.
func (d *Device) CreateChannel(affinity QueueAffinity) (any, error) {
	return nil, pimhal.Errorf(pimhal.Unimplemented, "collectives not implemented")
}

// QueueAlloca allocates a zero-filled buffer through the device
// allocator. Wait and signal semaphores are accepted for API parity; the
// allocation happens immediately.
func (d *Device) QueueAlloca(affinity QueueAffinity, wait, signal []SemaphoreValue,
	params BufferParams, allocationSize int) (*Buffer, error) {
	return d.allocator.AllocateBuffer(params, allocationSize, nil)
}

// QueueDealloca releases the buffer's host wrapper once the queue reaches
// it; with a sequential queue that is immediately.
func (d *Device) QueueDealloca(affinity QueueAffinity, wait, signal []SemaphoreValue, buffer *Buffer) error {
	buffer.Release()
	return nil
}

// QueueExecute submits recorded command buffers. Execution already
// happened synchronously during recording, so submission is a no-op.
func (d *Device) QueueExecute(affinity QueueAffinity, wait, signal []SemaphoreValue,
	commandBuffers []*CommandBuffer) error {
	klog.V(2).Infof("hal: queue execute of %d command buffers (no-op)", len(commandBuffers))
	return nil
}

// QueueFlush flushes pending queue work. Submissions flush as they are
// made.
func (d *Device) QueueFlush(affinity QueueAffinity) error {
	return nil
}

// WaitSemaphores blocks until the semaphores reach their target values.
// The context and timeout are accepted but not honored: the sequential
// execution model guarantees the values are already final.
func (d *Device) WaitSemaphores(ctx context.Context, mode WaitMode,
	semaphores []SemaphoreValue, timeout time.Duration) error {
	return nil
}

// ProfilingBegin starts a device profiling capture. No-op on PIM.
func (d *Device) ProfilingBegin() error {
	return nil
}

// ProfilingEnd finishes a device profiling capture. No-op on PIM.
func (d *Device) ProfilingEnd() error {
	return nil
}
