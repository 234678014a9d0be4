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
	"github.com/memflow/pimhal"
	"github.com/memflow/pimhal/pim"
	"k8s.io/klog/v2"
)

// BufferCompatibility reports how a buffer with given parameters can be
// used once allocated.
type BufferCompatibility uint32

const (
	// CompatibilityAllocatable means the allocator can serve the request.
	CompatibilityAllocatable BufferCompatibility = 1 << iota
	// CompatibilityQueueTransfer allows queue transfer commands.
	CompatibilityQueueTransfer
	// CompatibilityQueueDispatch allows use as a dispatch operand.
	CompatibilityQueueDispatch
)

// BufferParams describes an allocation request. TensorShape[:TensorRank]
// is the logical shape of the initial contents, when present.
type BufferParams struct {
	Type        MemoryType
	Access      MemoryAccess
	Usage       BufferUsage
	TensorShape pimhal.Dims
	TensorRank  int
}

// AllocatorStatistics mirrors the allocation counters of the device
// allocator. This device model keeps no pool, so all counters stay zero.
type AllocatorStatistics struct {
	HostBytesAllocated   int64
	HostBytesFreed       int64
	DeviceBytesAllocated int64
	DeviceBytesFreed     int64
}

// MemoryHeap describes one allocatable heap.
type MemoryHeap struct {
	Type         MemoryType
	MaxSize      int64
	AllowedUsage BufferUsage
}

// Allocator creates device buffers. Every allocation, including zero-fill
// defaults, round-trips through the SDK allocation primitive; there is no
// deferred device allocation.
type Allocator struct {
	device *Device
	sdk    pim.SDK
}

func newAllocator(device *Device, sdk pim.SDK) *Allocator {
	return &Allocator{device: device, sdk: sdk}
}

// AllocateBuffer uploads size/4 float32 elements to the device and wraps
// the returned address in a buffer.
//
// With initial data, the elements are read from initialData and the shape
// is params.TensorShape[:TensorRank]. Without initial data the same number
// of zero elements is uploaded and the shape defaults to [0,0,0] whatever
// the requested rank: the content is a placeholder until a dispatch names
// the buffer as its output and rewrites address and shape.
func (a *Allocator) AllocateBuffer(params BufferParams, size int, initialData []byte) (*Buffer, error) {
	elems := size / pimhal.ElemSize
	var data []float32
	var dims pimhal.Dims
	if len(initialData) > 0 {
		if len(initialData) < elems*pimhal.ElemSize {
			return nil, pimhal.Errorf(pimhal.InvalidArgument,
				"initial data holds %d bytes but allocation needs %d", len(initialData), elems*pimhal.ElemSize)
		}
		data = pimhal.Float32sFromBytes(initialData[:elems*pimhal.ElemSize])
		rank := params.TensorRank
		if rank > len(params.TensorShape) {
			rank = len(params.TensorShape)
		}
		dims = params.TensorShape[:rank].Clone()
	} else {
		data = make([]float32, elems)
		dims = pimhal.Dims{0, 0, 0}
	}

	addr, err := a.sdk.Alloc(data)
	if err != nil {
		return nil, pimhal.WrapStatus(pimhal.ResourceExhausted, err, "device allocation failed")
	}
	klog.V(2).Infof("hal: allocated %d elements at device address %d, dims %v", elems, addr, dims)

	return wrapBuffer(a, params.Type, params.Access, params.Usage,
		size, 0, size, addr, dims)
}

// DeallocateBuffer releases the host wrapper. Device memory stays in the
// SDK arena; there is no free primitive in this device model.
func (a *Allocator) DeallocateBuffer(buffer *Buffer) {
	buffer.Release()
}

// ImportBuffer would wrap externally allocated memory. The PIM device has
// no import path.
func (a *Allocator) ImportBuffer(params BufferParams, external []byte) (*Buffer, error) {
	return nil, pimhal.Errorf(pimhal.Unavailable, "importing from external buffers not supported")
}

// QueryBufferCompatibility reports how a buffer with the given parameters
// could be used, normalizes the allocation size, and clears the Optimal
// placement bit from params. A zero-byte request is bumped to 4 bytes and
// every size is rounded up to a multiple of 4 so 32-bit element access is
// always aligned.
func (a *Allocator) QueryBufferCompatibility(params *BufferParams, allocationSize int) (BufferCompatibility, int) {
	compatibility := CompatibilityAllocatable

	if params.Usage&BufferUsageTransfer != 0 {
		compatibility |= CompatibilityQueueTransfer
	}
	if params.Type&MemoryTypeDeviceVisible != 0 && params.Usage&BufferUsageDispatchStorage != 0 {
		compatibility |= CompatibilityQueueDispatch
	}

	params.Type &^= MemoryTypeOptimal

	if allocationSize == 0 {
		allocationSize = pimhal.ElemSize
	}
	if rem := allocationSize % pimhal.ElemSize; rem != 0 {
		allocationSize += pimhal.ElemSize - rem
	}
	return compatibility, allocationSize
}

// Trim releases pooled memory. There is no pool; always succeeds.
func (a *Allocator) Trim() error {
	return nil
}

// QueryStatistics reports allocation counters. Always zero.
func (a *Allocator) QueryStatistics() AllocatorStatistics {
	return AllocatorStatistics{}
}

// QueryMemoryHeaps enumerates allocatable heaps. The device model exposes
// none.
func (a *Allocator) QueryMemoryHeaps() []MemoryHeap {
	return nil
}
