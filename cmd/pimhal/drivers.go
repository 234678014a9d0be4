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

	json "github.com/goccy/go-json"
	"github.com/memflow/pimhal/driver"
	"github.com/urfave/cli/v3"
)

func driversCmd() *cli.Command {
	return &cli.Command{
		Name:  "drivers",
		Usage: "List registered HAL drivers",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "emit machine-readable output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			infos := driver.Enumerate()
			if cmd.Bool("json") {
				out, err := json.MarshalIndent(infos, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}
			for _, info := range infos {
				fmt.Printf("%-12s %s\n", info.Name, info.FullName)
			}
			return nil
		},
	}
}
