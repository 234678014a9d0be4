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

import (
	"github.com/memflow/pimhal"
)

// ExecutableCache prepares executables from serialized definitions. It
// performs no actual caching: every preparation verifies and builds a
// fresh executable.
type ExecutableCache struct {
	identifier string
}

func newExecutableCache(identifier string) *ExecutableCache {
	return &ExecutableCache{identifier: identifier}
}

// Identifier returns the cache identifier supplied at creation.
func (c *ExecutableCache) Identifier() string {
	return c.identifier
}

// CanPrepareFormat reports whether the cache can prepare executables of
// the given format.
func (c *ExecutableCache) CanPrepareFormat(format string) bool {
	return format == pimhal.ExecutableFormat
}

// PrepareExecutable verifies the serialized definition against the
// caller's pipeline-layout count and builds the executable.
func (c *ExecutableCache) PrepareExecutable(params ExecutableParams) (*Executable, error) {
	return NewExecutable(params.Data, len(params.PipelineLayouts))
}
