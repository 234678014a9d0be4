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

package main

import (
	"context"
	"fmt"

	"github.com/memflow/pimhal"
	"github.com/memflow/pimhal/driver"
	"github.com/memflow/pimhal/hal"
	"github.com/memflow/pimhal/pim"
	"github.com/urfave/cli/v3"
)

// smokeCmd records one elementwise-add dispatch against the simulated
// device and reads the result back: the full allocate → bind → dispatch →
// map path in one command.
func smokeCmd() *cli.Command {
	return &cli.Command{
		Name:  "smoke",
		Usage: "Run an end-to-end dispatch on the simulated device",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			drv, err := driver.Create(driver.Name)
			if err != nil {
				return err
			}
			dev, err := drv.CreateDevice(driver.DefaultDeviceID)
			if err != nil {
				return err
			}

			params := hal.BufferParams{
				Type:        hal.MemoryTypeDeviceLocal | hal.MemoryTypeDeviceVisible,
				Usage:       hal.BufferUsageTransfer | hal.BufferUsageDispatchStorage,
				TensorShape: pimhal.Dims{4},
				TensorRank:  1,
			}
			a, err := dev.Allocator().AllocateBuffer(params, 16,
				pimhal.BytesFromFloat32s([]float32{1, 2, 3, 4}))
			if err != nil {
				return err
			}
			b, err := dev.Allocator().AllocateBuffer(params, 16,
				pimhal.BytesFromFloat32s([]float32{10, 20, 30, 40}))
			if err != nil {
				return err
			}
			out, err := dev.Allocator().AllocateBuffer(params, 16, nil)
			if err != nil {
				return err
			}

			def := &hal.ExecutableDef{
				EntryPoints:  []string{"main"},
				CommandWords: []uint64{pim.OpAdd},
			}
			executable, err := hal.NewExecutable(hal.MarshalExecutableDef(def), 1)
			if err != nil {
				return err
			}

			cb, err := dev.CreateCommandBuffer(hal.CommandBufferModeOneShot, 0, hal.QueueAffinityAny, 0)
			if err != nil {
				return err
			}
			if err := cb.Begin(); err != nil {
				return err
			}
			bindings := []hal.DescriptorSetBinding{
				{Ordinal: 0, Buffer: a},
				{Ordinal: 1, Buffer: b},
				{Ordinal: 2, Buffer: out},
			}
			if err := cb.PushDescriptorSet(nil, 0, bindings); err != nil {
				return err
			}
			if err := cb.Dispatch(executable, 0, 1, 1, 1); err != nil {
				return err
			}
			if err := cb.End(); err != nil {
				return err
			}

			mapped, err := out.Map(0, out.AllocationSize())
			if err != nil {
				return err
			}
			fmt.Printf("result shape %v: %v\n", out.Dims(), pimhal.Float32sFromBytes(mapped))
			return nil
		},
	}
}
