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

package hal

// Executable is a verified, immutable compiled operation. It is shared
// across every command buffer that dispatches against it and never
// mutated after creation.
type Executable struct {
	entryPoints  []string
	commandWords []uint64
}

// ExecutableParams carries everything needed to prepare an executable.
// The pipeline-layout count is the caller's declared entry-point count:
// verification ties the serialized container to it before any field is
// trusted.
type ExecutableParams struct {
	Data            []byte
	PipelineLayouts []*PipelineLayout
}

// NewExecutable verifies data and extracts its command words and
// entry-point names into an immutable object.
func NewExecutable(data []byte, expectedEntryPoints int) (*Executable, error) {
	def, err := parseExecutableDef(data, expectedEntryPoints)
	if err != nil {
		return nil, err
	}
	return &Executable{
		entryPoints:  def.EntryPoints,
		commandWords: def.CommandWords,
	}, nil
}

// EntryPointCount returns the number of named entry points.
func (e *Executable) EntryPointCount() int {
	return len(e.entryPoints)
}

// EntryPoints returns the ordered entry-point names.
func (e *Executable) EntryPoints() []string {
	out := make([]string, len(e.entryPoints))
	copy(out, e.entryPoints)
	return out
}

// CommandWords returns the compiled command blob read by dispatch.
func (e *Executable) CommandWords() []uint64 {
	return e.commandWords
}

// CommandLen returns the number of command words. Zero designates an
// executable that performs no device work; dispatch elides the device
// call entirely for it.
func (e *Executable) CommandLen() int {
	return len(e.commandWords)
}
