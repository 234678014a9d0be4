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

package pim

import (
	"sync"

	"github.com/memflow/pimhal"
	"k8s.io/klog/v2"
)

// Operation selectors understood by the simulator. Compiled executables
// carry one of these as their first command word.
const (
	// OpIdentity copies its input to a fresh region.
	OpIdentity uint64 = 1
	// OpAdd sums its inputs elementwise.
	OpAdd uint64 = 2
	// OpMul multiplies its inputs elementwise.
	OpMul uint64 = 3
	// OpRelu clamps negative elements of its input to zero.
	OpRelu uint64 = 4
	// OpMatmul multiplies a [m,k] operand by a [k,n] operand.
	OpMatmul uint64 = 5
)

// Simulator is an in-process reference device. Regions are plain host
// slices held in an arena keyed by address; the arena is never trimmed,
// mirroring the SDK ownership model where device memory outlives every
// HAL buffer and is reclaimed only with the simulator itself.
type Simulator struct {
	mu   sync.Mutex
	next Addr
	mem  map[Addr][]float32
}

var _ SDK = (*Simulator)(nil)

// NewSimulator returns an empty simulated device.
func NewSimulator() *Simulator {
	return &Simulator{next: 1, mem: make(map[Addr][]float32)}
}

// Alloc uploads data into a fresh region.
func (s *Simulator) Alloc(data []float32) (Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	region := make([]float32, len(data))
	copy(region, data)
	addr := s.next
	s.next++
	s.mem[addr] = region
	return addr, nil
}

// Read copies elements from the region at addr into out.
func (s *Simulator) Read(addr Addr, out []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	region, ok := s.mem[addr]
	if !ok {
		return pimhal.Errorf(pimhal.InvalidArgument, "no device region at address %d", addr)
	}
	if len(out) > len(region) {
		return pimhal.Errorf(pimhal.InvalidArgument,
			"read of %d elements exceeds region size %d at address %d", len(out), len(region), addr)
	}
	copy(out, region)
	return nil
}

// BufferInfo logs the element count of the region at addr.
func (s *Simulator) BufferInfo(addr Addr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	region, ok := s.mem[addr]
	if !ok {
		klog.Warningf("pim: buffer info for unknown address %d", addr)
		return
	}
	klog.V(1).Infof("pim: buffer @%d holds %d elements", addr, len(region))
}

// Dispatch executes one operation. When more than one operand is bound the
// last address is the output placeholder pushed by the command buffer and
// contributes no input data; a single bound operand serves as both input
// and output.
func (s *Simulator) Dispatch(addrs []Addr, op uint64, dims []pimhal.Dims) (Addr, pimhal.Dims, error) {
	if len(addrs) == 0 {
		return 0, nil, pimhal.Errorf(pimhal.InvalidArgument, "dispatch with no operands")
	}
	if len(dims) != len(addrs) {
		return 0, nil, pimhal.Errorf(pimhal.InvalidArgument,
			"dispatch with %d addresses but %d shapes", len(addrs), len(dims))
	}

	inAddrs, inDims := addrs, dims
	if len(addrs) > 1 {
		inAddrs = addrs[:len(addrs)-1]
		inDims = dims[:len(dims)-1]
	}
	inputs := make([][]float32, len(inAddrs))
	s.mu.Lock()
	for i, addr := range inAddrs {
		region, ok := s.mem[addr]
		if !ok {
			s.mu.Unlock()
			return 0, nil, pimhal.Errorf(pimhal.InvalidArgument, "no device region at address %d", addr)
		}
		inputs[i] = region
	}
	s.mu.Unlock()

	result, outDims, err := compute(op, inputs, inDims)
	if err != nil {
		return 0, nil, err
	}
	addr, err := s.Alloc(result)
	if err != nil {
		return 0, nil, err
	}
	return addr, outDims, nil
}

func compute(op uint64, inputs [][]float32, dims []pimhal.Dims) ([]float32, pimhal.Dims, error) {
	switch op {
	case OpIdentity:
		out := make([]float32, len(inputs[0]))
		copy(out, inputs[0])
		return out, dims[0].Clone(), nil
	case OpRelu:
		out := make([]float32, len(inputs[0]))
		for i, v := range inputs[0] {
			if v > 0 {
				out[i] = v
			}
		}
		return out, dims[0].Clone(), nil
	case OpAdd, OpMul:
		return elementwise(op, inputs, dims)
	case OpMatmul:
		return matmul(inputs, dims)
	}
	return nil, nil, pimhal.Errorf(pimhal.Unimplemented, "operation selector %d", op)
}

func elementwise(op uint64, inputs [][]float32, dims []pimhal.Dims) ([]float32, pimhal.Dims, error) {
	if len(inputs) < 2 {
		return nil, nil, pimhal.Errorf(pimhal.InvalidArgument,
			"elementwise operation %d needs two operands, got %d", op, len(inputs))
	}
	n := len(inputs[0])
	out := make([]float32, n)
	copy(out, inputs[0])
	for _, operand := range inputs[1:] {
		if len(operand) != n {
			return nil, nil, pimhal.Errorf(pimhal.InvalidArgument,
				"elementwise operand size %d does not match %d", len(operand), n)
		}
		for i, v := range operand {
			if op == OpAdd {
				out[i] += v
			} else {
				out[i] *= v
			}
		}
	}
	return out, dims[0].Clone(), nil
}

func matmul(inputs [][]float32, dims []pimhal.Dims) ([]float32, pimhal.Dims, error) {
	if len(inputs) < 2 {
		return nil, nil, pimhal.Errorf(pimhal.InvalidArgument, "matmul needs two operands, got %d", len(inputs))
	}
	a, b := dims[0], dims[1]
	if a.Rank() != 2 || b.Rank() != 2 || a[1] != b[0] {
		return nil, nil, pimhal.Errorf(pimhal.InvalidArgument,
			"matmul operand shapes %v x %v are incompatible", a, b)
	}
	m, k, n := a[0], a[1], b[1]
	out := make([]float32, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var acc float32
			for p := 0; p < k; p++ {
				acc += inputs[0][i*k+p] * inputs[1][p*n+j]
			}
			out[i*n+j] = acc
		}
	}
	return out, pimhal.Dims{m, n}, nil
}
