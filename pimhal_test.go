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

package pimhal_test

import (
	"testing"

	"github.com/memflow/pimhal"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDims(t *testing.T) {
	d := pimhal.Dims{2, 3, 4}
	assert.Equal(t, 3, d.Rank())
	assert.Equal(t, 24, d.Elems())
	assert.Equal(t, 0, pimhal.Dims(nil).Elems())

	clone := d.Clone()
	clone[0] = 9
	assert.Equal(t, pimhal.Dims{2, 3, 4}, d)

	assert.True(t, d.Equal(pimhal.Dims{2, 3, 4}))
	assert.False(t, d.Equal(pimhal.Dims{2, 3}))
	assert.False(t, d.Equal(pimhal.Dims{2, 3, 5}))
	assert.Nil(t, pimhal.Dims(nil).Clone())
}

func TestFloat32ByteConversion(t *testing.T) {
	values := []float32{0, 1, -2.5, 3.25}
	data := pimhal.BytesFromFloat32s(values)
	require.Len(t, data, len(values)*pimhal.ElemSize)
	assert.Equal(t, values, pimhal.Float32sFromBytes(data))

	// Trailing bytes that do not fill an element are ignored.
	assert.Equal(t, values[:3], pimhal.Float32sFromBytes(data[:15]))
	assert.Empty(t, pimhal.Float32sFromBytes(nil))
}

func TestStatusCodes(t *testing.T) {
	err := pimhal.Errorf(pimhal.InvalidArgument, "bad input %d", 7)
	assert.Equal(t, pimhal.InvalidArgument, pimhal.Code(err))
	assert.True(t, pimhal.IsInvalidArgument(err))
	assert.ErrorContains(t, err, "INVALID_ARGUMENT: bad input 7")

	assert.Equal(t, pimhal.OK, pimhal.Code(nil))
	assert.Equal(t, pimhal.Unavailable, pimhal.Code(errors.New("untagged")))
}

func TestWrapStatusKeepsCause(t *testing.T) {
	cause := errors.New("device full")
	err := pimhal.WrapStatus(pimhal.ResourceExhausted, cause, "allocation failed")
	require.Error(t, err)
	assert.Equal(t, pimhal.ResourceExhausted, pimhal.Code(err))
	assert.ErrorContains(t, err, "allocation failed")
	assert.ErrorIs(t, err, cause)

	assert.NoError(t, pimhal.WrapStatus(pimhal.ResourceExhausted, nil, "ignored"))
}

func TestStatusCodeString(t *testing.T) {
	assert.Equal(t, "OK", pimhal.OK.String())
	assert.Equal(t, "UNIMPLEMENTED", pimhal.Unimplemented.String())
	assert.Equal(t, "UNKNOWN", pimhal.StatusCode(99).String())
}
