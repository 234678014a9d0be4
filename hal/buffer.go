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

// Package hal implements the resource and command execution model of the
// PIM device: buffers backed by device addresses, verified executables,
// and command-buffer recording that turns a dispatch into a single
// accelerator invocation.
package hal

import (
	"sync/atomic"

	"github.com/memflow/pimhal"
	"github.com/memflow/pimhal/pim"
)

// MemoryType describes where a buffer's memory lives. The bits are
// advisory: the device model does not enforce them.
type MemoryType uint32

const (
	// MemoryTypeHostLocal places the buffer in host memory.
	MemoryTypeHostLocal MemoryType = 1 << iota
	// MemoryTypeDeviceVisible makes the buffer addressable by the device.
	MemoryTypeDeviceVisible
	// MemoryTypeDeviceLocal places the buffer in device memory.
	MemoryTypeDeviceLocal
	// MemoryTypeOptimal lets the allocator pick the placement. The
	// compatibility query clears this bit once placement is decided.
	MemoryTypeOptimal
)

// MemoryAccess describes the access allowed on a buffer.
type MemoryAccess uint32

const (
	// MemoryAccessRead allows reads.
	MemoryAccessRead MemoryAccess = 1 << iota
	// MemoryAccessWrite allows writes.
	MemoryAccessWrite
)

// BufferUsage describes how a buffer may be used.
type BufferUsage uint32

const (
	// BufferUsageTransfer allows transfer commands.
	BufferUsageTransfer BufferUsage = 1 << iota
	// BufferUsageDispatchStorage allows use as a dispatch operand.
	BufferUsageDispatchStorage
	// BufferUsageMapping allows host mapping.
	BufferUsageMapping
)

// Buffer is a host-side handle to a device-resident region. Address and
// dims always reflect the last allocation or dispatch that touched the
// buffer; there is no sub-range addressing. A buffer without a device
// payload carries no address and is skipped by dispatch operand lists.
//
// Buffers are reference counted. Releasing the last reference frees only
// the host wrapper: device memory belongs to the SDK arena and is
// reclaimed with the SDK at process exit.
type Buffer struct {
	allocator *Allocator

	allocationSize int
	byteOffset     int
	byteLength     int
	memoryType     MemoryType
	access         MemoryAccess
	usage          BufferUsage

	refs atomic.Int32

	hasDevice bool
	addr      pim.Addr
	dims      pimhal.Dims
}

func wrapBuffer(allocator *Allocator, memoryType MemoryType, access MemoryAccess,
	usage BufferUsage, allocationSize, byteOffset, byteLength int,
	addr pim.Addr, dims pimhal.Dims) (*Buffer, error) {
	if allocator == nil {
		return nil, pimhal.Errorf(pimhal.InvalidArgument, "buffer requires an allocator")
	}
	buffer := &Buffer{
		allocator:      allocator,
		allocationSize: allocationSize,
		byteOffset:     byteOffset,
		byteLength:     byteLength,
		memoryType:     memoryType,
		access:         access,
		usage:          usage,
		hasDevice:      true,
		addr:           addr,
		dims:           dims.Clone(),
	}
	buffer.refs.Store(1)
	return buffer, nil
}

// AllocationSize returns the byte size of the allocation.
func (b *Buffer) AllocationSize() int { return b.allocationSize }

// ByteOffset returns the offset of the usable range. Always 0 here.
func (b *Buffer) ByteOffset() int { return b.byteOffset }

// ByteLength returns the length of the usable range.
func (b *Buffer) ByteLength() int { return b.byteLength }

// MemoryType returns the advisory memory type bits.
func (b *Buffer) MemoryType() MemoryType { return b.memoryType }

// AllowedAccess returns the advisory access bits.
func (b *Buffer) AllowedAccess() MemoryAccess { return b.access }

// AllowedUsage returns the advisory usage bits.
func (b *Buffer) AllowedUsage() BufferUsage { return b.usage }

// HasDevicePayload reports whether the buffer carries a device address.
func (b *Buffer) HasDevicePayload() bool { return b.hasDevice }

// Addr returns the device address. No provenance validation is performed;
// the dispatch path passes heterogeneous buffer kinds through here.
func (b *Buffer) Addr() pim.Addr { return b.addr }

// SetAddr overwrites the device address in place.
func (b *Buffer) SetAddr(addr pim.Addr) {
	b.addr = addr
	b.hasDevice = true
}

// Dims returns the shape of the device-resident content.
func (b *Buffer) Dims() pimhal.Dims { return b.dims }

// SetDims overwrites the shape in place.
func (b *Buffer) SetDims(dims pimhal.Dims) {
	b.dims = dims.Clone()
}

// Rank returns the number of dimensions; 0 denotes an unshaped buffer.
func (b *Buffer) Rank() int { return b.dims.Rank() }

// Map reads length bytes back from the device at the buffer's current
// address into freshly allocated host memory. The offset is accepted for
// interface parity but the device model has no sub-range addressing, so
// reads always start at the region base. Unmapping is a no-op: there is no
// separate device cache to flush or invalidate.
func (b *Buffer) Map(offset, length int) ([]byte, error) {
	if !b.hasDevice {
		return nil, pimhal.Errorf(pimhal.FailedPrecondition,
			"buffer has no device-resident state to map")
	}
	elems := length / pimhal.ElemSize
	host := make([]float32, elems)
	if err := b.allocator.sdk.Read(b.addr, host); err != nil {
		return nil, err
	}
	return pimhal.BytesFromFloat32s(host), nil
}

// DebugPrint asks the SDK to log diagnostics for the buffer's region.
func (b *Buffer) DebugPrint() {
	if b.hasDevice {
		b.allocator.sdk.BufferInfo(b.addr)
	}
}

// Retain adds a reference.
func (b *Buffer) Retain() {
	b.refs.Add(1)
}

// Release drops a reference. When the count reaches zero the host wrapper
// is discarded; the device region is deliberately left to the SDK arena.
func (b *Buffer) Release() {
	if b.refs.Add(-1) == 0 {
		b.dims = nil
		b.allocator = nil
		b.hasDevice = false
	}
}
