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

package pim_test

import (
	"testing"

	"github.com/memflow/pimhal"
	"github.com/memflow/pimhal/pim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatorAllocAndRead(t *testing.T) {
	sim := pim.NewSimulator()
	addr, err := sim.Alloc([]float32{1, 2, 3})
	require.NoError(t, err)

	out := make([]float32, 3)
	require.NoError(t, sim.Read(addr, out))
	assert.Equal(t, []float32{1, 2, 3}, out)
}

func TestSimulatorAllocCopiesData(t *testing.T) {
	sim := pim.NewSimulator()
	data := []float32{1, 2, 3}
	addr, err := sim.Alloc(data)
	require.NoError(t, err)

	data[0] = 99
	out := make([]float32, 3)
	require.NoError(t, sim.Read(addr, out))
	assert.Equal(t, []float32{1, 2, 3}, out)
}

func TestSimulatorReadUnknownAddress(t *testing.T) {
	sim := pim.NewSimulator()
	err := sim.Read(123, make([]float32, 1))
	require.Error(t, err)
	assert.True(t, pimhal.IsInvalidArgument(err))
}

func TestSimulatorReadBeyondRegion(t *testing.T) {
	sim := pim.NewSimulator()
	addr, err := sim.Alloc([]float32{1})
	require.NoError(t, err)

	err = sim.Read(addr, make([]float32, 8))
	require.Error(t, err)
	assert.True(t, pimhal.IsInvalidArgument(err))
}

// allocOperands uploads the given regions and returns addresses plus an
// extra zero-filled output placeholder, the way the command buffer binds
// dispatch operands.
func allocOperands(t *testing.T, sim *pim.Simulator, regions [][]float32, dims []pimhal.Dims) ([]pim.Addr, []pimhal.Dims) {
	t.Helper()
	addrs := make([]pim.Addr, 0, len(regions)+1)
	for _, region := range regions {
		addr, err := sim.Alloc(region)
		require.NoError(t, err)
		addrs = append(addrs, addr)
	}
	out, err := sim.Alloc(make([]float32, len(regions[0])))
	require.NoError(t, err)
	addrs = append(addrs, out)
	return addrs, append(append([]pimhal.Dims{}, dims...), pimhal.Dims{0, 0, 0})
}

func readResult(t *testing.T, sim *pim.Simulator, addr pim.Addr, n int) []float32 {
	t.Helper()
	out := make([]float32, n)
	require.NoError(t, sim.Read(addr, out))
	return out
}

func TestSimulatorDispatchAdd(t *testing.T) {
	sim := pim.NewSimulator()
	addrs, dims := allocOperands(t, sim,
		[][]float32{{1, 2, 3, 4}, {10, 20, 30, 40}},
		[]pimhal.Dims{{4}, {4}})

	addr, outDims, err := sim.Dispatch(addrs, pim.OpAdd, dims)
	require.NoError(t, err)
	assert.Equal(t, pimhal.Dims{4}, outDims)
	assert.Equal(t, []float32{11, 22, 33, 44}, readResult(t, sim, addr, 4))
}

func TestSimulatorDispatchMul(t *testing.T) {
	sim := pim.NewSimulator()
	addrs, dims := allocOperands(t, sim,
		[][]float32{{1, 2, 3, 4}, {2, 2, 2, 2}},
		[]pimhal.Dims{{4}, {4}})

	addr, _, err := sim.Dispatch(addrs, pim.OpMul, dims)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 4, 6, 8}, readResult(t, sim, addr, 4))
}

func TestSimulatorDispatchRelu(t *testing.T) {
	sim := pim.NewSimulator()
	addr, err := sim.Alloc([]float32{-1, 0, 2, -3})
	require.NoError(t, err)

	// A single operand serves as both input and output.
	result, outDims, err := sim.Dispatch([]pim.Addr{addr}, pim.OpRelu, []pimhal.Dims{{4}})
	require.NoError(t, err)
	assert.Equal(t, pimhal.Dims{4}, outDims)
	assert.Equal(t, []float32{0, 0, 2, 0}, readResult(t, sim, result, 4))
}

func TestSimulatorDispatchIdentity(t *testing.T) {
	sim := pim.NewSimulator()
	addr, err := sim.Alloc([]float32{5, 6})
	require.NoError(t, err)

	result, _, err := sim.Dispatch([]pim.Addr{addr}, pim.OpIdentity, []pimhal.Dims{{2}})
	require.NoError(t, err)
	assert.NotEqual(t, addr, result, "identity writes a fresh region")
	assert.Equal(t, []float32{5, 6}, readResult(t, sim, result, 2))
}

func TestSimulatorDispatchMatmul(t *testing.T) {
	sim := pim.NewSimulator()
	addrs, dims := allocOperands(t, sim,
		[][]float32{
			{1, 2, 3, 4, 5, 6},    // [2,3]
			{7, 8, 9, 10, 11, 12}, // [3,2]
		},
		[]pimhal.Dims{{2, 3}, {3, 2}})

	addr, outDims, err := sim.Dispatch(addrs, pim.OpMatmul, dims)
	require.NoError(t, err)
	assert.Equal(t, pimhal.Dims{2, 2}, outDims)
	assert.Equal(t, []float32{58, 64, 139, 154}, readResult(t, sim, addr, 4))
}

func TestSimulatorDispatchMatmulShapeMismatch(t *testing.T) {
	sim := pim.NewSimulator()
	addrs, dims := allocOperands(t, sim,
		[][]float32{{1, 2, 3, 4}, {1, 2, 3, 4}},
		[]pimhal.Dims{{2, 2}, {4, 1}})

	_, _, err := sim.Dispatch(addrs, pim.OpMatmul, dims)
	require.Error(t, err)
	assert.True(t, pimhal.IsInvalidArgument(err))
}

func TestSimulatorDispatchUnknownOp(t *testing.T) {
	sim := pim.NewSimulator()
	addr, err := sim.Alloc([]float32{1})
	require.NoError(t, err)

	_, _, err = sim.Dispatch([]pim.Addr{addr}, 999, []pimhal.Dims{{1}})
	require.Error(t, err)
	assert.True(t, pimhal.IsUnimplemented(err))
}

func TestSimulatorDispatchValidation(t *testing.T) {
	sim := pim.NewSimulator()

	_, _, err := sim.Dispatch(nil, pim.OpAdd, nil)
	assert.True(t, pimhal.IsInvalidArgument(err))

	addr, err := sim.Alloc([]float32{1})
	require.NoError(t, err)
	_, _, err = sim.Dispatch([]pim.Addr{addr}, pim.OpAdd, nil)
	assert.True(t, pimhal.IsInvalidArgument(err), "address and shape counts must match")

	_, _, err = sim.Dispatch([]pim.Addr{123, addr}, pim.OpIdentity, []pimhal.Dims{{1}, {1}})
	assert.True(t, pimhal.IsInvalidArgument(err), "unknown operand address")
}
