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

// DescriptorType identifies the kind of resource bound at a descriptor
// slot.
type DescriptorType int

const (
	// DescriptorTypeStorageBuffer is a read-write buffer binding.
	DescriptorTypeStorageBuffer DescriptorType = iota
	// DescriptorTypeUniformBuffer is a read-only buffer binding.
	DescriptorTypeUniformBuffer
)

// DescriptorSetLayoutBinding declares one slot of a descriptor set.
type DescriptorSetLayoutBinding struct {
	Binding int
	Type    DescriptorType
}

// DescriptorSetLayout records the declared bindings of one descriptor
// set. The PIM device has no native descriptor objects; the layout is
// bookkeeping carried for the pipeline layout below.
type DescriptorSetLayout struct {
	bindings []DescriptorSetLayoutBinding
}

// BindingCount returns the number of declared slots.
func (l *DescriptorSetLayout) BindingCount() int {
	return len(l.bindings)
}

// PipelineLayout records push-constant capacity and the descriptor set
// layouts of a pipeline. Its set-layout count is what callers pass as the
// expected entry-point count when preparing executables.
type PipelineLayout struct {
	pushConstants int
	setLayouts    []*DescriptorSetLayout
}

// PushConstantCount returns the declared push-constant capacity.
func (l *PipelineLayout) PushConstantCount() int {
	return l.pushConstants
}

// SetLayoutCount returns the number of descriptor set layouts.
func (l *PipelineLayout) SetLayoutCount() int {
	return len(l.setLayouts)
}

// SetLayout returns the layout of set i.
func (l *PipelineLayout) SetLayout(i int) *DescriptorSetLayout {
	return l.setLayouts[i]
}
