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

// Package pimhal provides a hardware-abstraction backend for running
// precompiled tensor programs on a PIM (processing-in-memory) accelerator.
package pimhal

import (
	"encoding/binary"
	"math"
)

// ExecutableFormat identifies the serialized executable container this
// device consumes. Capability queries for "hal.executable.format" report 1
// only for this value.
const ExecutableFormat = "pim-isr-fb"

// ElemSize is the byte size of a single device element. The device operates
// exclusively on 32-bit floats.
const ElemSize = 4

// Dims is the ordered dimension sizes of a buffer's device-resident content.
// A nil or empty Dims denotes an unshaped buffer.
type Dims []int

// Rank returns the number of dimensions.
func (d Dims) Rank() int {
	return len(d)
}

// Elems returns the total element count described by the dimensions.
// Unshaped dims describe zero elements.
func (d Dims) Elems() int {
	if len(d) == 0 {
		return 0
	}
	n := 1
	for _, v := range d {
		n *= v
	}
	return n
}

// Clone returns a copy that does not alias the receiver.
func (d Dims) Clone() Dims {
	if d == nil {
		return nil
	}
	out := make(Dims, len(d))
	copy(out, d)
	return out
}

// Equal reports whether two dimension lists are identical.
func (d Dims) Equal(other Dims) bool {
	if len(d) != len(other) {
		return false
	}
	for i, v := range d {
		if v != other[i] {
			return false
		}
	}
	return true
}

// Float32sFromBytes reinterprets little-endian bytes as float32 elements.
// Trailing bytes that do not fill a full element are ignored.
func Float32sFromBytes(data []byte) []float32 {
	out := make([]float32, len(data)/ElemSize)
	for i := range out {
		bits := binary.LittleEndian.Uint32(data[i*ElemSize:])
		out[i] = math.Float32frombits(bits)
	}
	return out
}

// BytesFromFloat32s encodes float32 elements as little-endian bytes.
func BytesFromFloat32s(values []float32) []byte {
	out := make([]byte, len(values)*ElemSize)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*ElemSize:], math.Float32bits(v))
	}
	return out
}
