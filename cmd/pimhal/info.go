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

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
	"github.com/memflow/pimhal"
	"github.com/memflow/pimhal/driver"
	"github.com/urfave/cli/v3"
)

type deviceReport struct {
	Driver           string `json:"driver"`
	Device           string `json:"device"`
	ExecutableFormat string `json:"executable_format"`
	FormatSupported  bool   `json:"format_supported"`
	LargeHeapBlock   string `json:"large_heap_block"`
	MemoryHeaps      int    `json:"memory_heaps"`
}

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show device and allocator information",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "driver", Value: driver.Name, Usage: "driver to instantiate"},
			&cli.BoolFlag{Name: "json", Usage: "emit machine-readable output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			drv, err := driver.Create(cmd.String("driver"))
			if err != nil {
				return err
			}
			dev, err := drv.CreateDevice(driver.DefaultDeviceID)
			if err != nil {
				return err
			}

			supported, err := dev.QueryI64("hal.executable.format", pimhal.ExecutableFormat)
			if err != nil {
				return err
			}
			options := driver.DefaultOptions()
			report := deviceReport{
				Driver:           drv.Name(),
				Device:           dev.ID(),
				ExecutableFormat: pimhal.ExecutableFormat,
				FormatSupported:  supported == 1,
				LargeHeapBlock:   humanize.IBytes(uint64(options.Device.LargeHeapBlockSize)),
				MemoryHeaps:      len(dev.Allocator().QueryMemoryHeaps()),
			}

			if cmd.Bool("json") {
				out, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			stats := dev.Allocator().QueryStatistics()
			fmt.Printf("driver:            %s\n", report.Driver)
			fmt.Printf("device:            %s\n", report.Device)
			fmt.Printf("executable format: %s (supported: %v)\n", report.ExecutableFormat, report.FormatSupported)
			fmt.Printf("large heap block:  %s\n", report.LargeHeapBlock)
			fmt.Printf("memory heaps:      %d\n", report.MemoryHeaps)
			fmt.Printf("device bytes:      %s allocated, %s freed\n",
				humanize.IBytes(uint64(stats.DeviceBytesAllocated)), humanize.IBytes(uint64(stats.DeviceBytesFreed)))
			return nil
		},
	}
}
