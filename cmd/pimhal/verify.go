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
	"os"

	"github.com/memflow/pimhal/hal"
	"github.com/urfave/cli/v3"
)

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Verify a serialized executable container",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "entry-points",
				Value: 1,
				Usage: "entry-point count declared by the pipeline layouts",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one container file")
			}
			data, err := os.ReadFile(cmd.Args().First())
			if err != nil {
				return err
			}
			def, err := hal.ParseExecutableDef(data, cmd.Int("entry-points"))
			if err != nil {
				return err
			}
			fmt.Printf("entry points:  %d\n", len(def.EntryPoints))
			for i, name := range def.EntryPoints {
				fmt.Printf("  [%d] %s\n", i, name)
			}
			fmt.Printf("command words: %d", len(def.CommandWords))
			if len(def.CommandWords) == 0 {
				fmt.Print(" (no device work)")
			}
			fmt.Println()
			return nil
		},
	}
}
