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

package driver_test

import (
	"testing"

	"github.com/memflow/pimhal"
	"github.com/memflow/pimhal/driver"
	"github.com/memflow/pimhal/pim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryEnumerate(t *testing.T) {
	infos := driver.Enumerate()
	require.Len(t, infos, 1)
	assert.Equal(t, driver.Name, infos[0].Name)
	assert.Equal(t, driver.FullName, infos[0].FullName)
}

func TestRegistryCreate(t *testing.T) {
	drv, err := driver.Create(driver.Name)
	require.NoError(t, err)
	assert.Equal(t, driver.Name, drv.Name())
	assert.Equal(t, driver.Info{Name: driver.Name, FullName: driver.FullName}, drv.Info())
}

func TestRegistryCreateUnknown(t *testing.T) {
	_, err := driver.Create("cuda")
	require.Error(t, err)
	assert.True(t, pimhal.IsUnavailable(err))
	assert.ErrorContains(t, err, `no driver "cuda" is provided by this factory`)
}

func TestNewRequiresSDK(t *testing.T) {
	_, err := driver.New(driver.Name, driver.DefaultOptions(), nil)
	require.Error(t, err)
	assert.True(t, pimhal.IsInvalidArgument(err))
}

func TestCreateDeviceIgnoresID(t *testing.T) {
	drv, err := driver.New(driver.Name, driver.DefaultOptions(), pim.NewSimulator())
	require.NoError(t, err)

	first, err := drv.CreateDevice(driver.DefaultDeviceID)
	require.NoError(t, err)
	second, err := drv.CreateDevice(42)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())
}

func TestCreateDeviceByPath(t *testing.T) {
	drv, err := driver.New(driver.Name, driver.DefaultOptions(), pim.NewSimulator())
	require.NoError(t, err)

	dev, err := drv.CreateDeviceByPath("")
	require.NoError(t, err)
	assert.Equal(t, "PIM", dev.ID())

	_, err = drv.CreateDeviceByPath("pim://1")
	require.Error(t, err)
	assert.True(t, pimhal.IsUnimplemented(err))
}
