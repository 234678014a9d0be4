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

// Package pim defines the accelerator SDK surface the HAL dispatches
// through, and an in-process simulator implementing it.
package pim

import (
	"github.com/memflow/pimhal"
)

// Addr is an opaque handle to a region of device-resident memory, as
// returned by the SDK allocator. The HAL never interprets it.
type Addr int

// SDK is the four-primitive accelerator surface. All calls are synchronous:
// they return only once the device-side effect is complete and any returned
// address is valid.
//
// The SDK owns all device memory it hands out. There is no free primitive;
// the device arena is reclaimed when the SDK itself is released at process
// exit.
type SDK interface {
	// Alloc uploads the given elements to a fresh device region and
	// returns its address.
	Alloc(data []float32) (Addr, error)

	// Read copies len(out) elements from the device region at addr into
	// out.
	Read(addr Addr, out []float32) error

	// Dispatch executes one compiled operation. The operation selector op
	// is the executable's first command word; addrs and dims are the
	// ordered operand addresses and shapes. It returns the address and
	// shape of the result, which lives in a fresh device region.
	Dispatch(addrs []Addr, op uint64, dims []pimhal.Dims) (Addr, pimhal.Dims, error)

	// BufferInfo logs diagnostic information for the region at addr.
	BufferInfo(addr Addr)
}
