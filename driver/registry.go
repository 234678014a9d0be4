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

package driver

import (
	"sort"
	"sync"

	"github.com/memflow/pimhal"
	"github.com/memflow/pimhal/pim"
)

// Factory creates a driver on demand.
type Factory func() (*Driver, error)

type registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	infos     map[string]Info
}

var global = &registry{
	factories: make(map[string]Factory),
	infos:     make(map[string]Info),
}

// Register adds a named driver factory to the process-wide registry.
// Call during package initialization.
func Register(info Info, factory Factory) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.factories[info.Name] = factory
	global.infos[info.Name] = info
}

// Enumerate returns the static info records of every registered driver,
// ordered by name.
func Enumerate() []Info {
	global.mu.Lock()
	defer global.mu.Unlock()
	infos := make([]Info, 0, len(global.infos))
	for _, info := range global.infos {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Create instantiates the driver registered under name.
func Create(name string) (*Driver, error) {
	global.mu.Lock()
	factory, ok := global.factories[name]
	global.mu.Unlock()
	if !ok {
		return nil, pimhal.Errorf(pimhal.Unavailable, "no driver %q is provided by this factory", name)
	}
	return factory()
}

func init() {
	Register(Info{Name: Name, FullName: FullName}, func() (*Driver, error) {
		return New(Name, DefaultOptions(), pim.NewSimulator())
	})
}
