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
	"github.com/memflow/pimhal/pim"
	"k8s.io/klog/v2"
)

// CommandBufferMode controls command buffer recording behavior.
type CommandBufferMode uint32

const (
	// CommandBufferModeOneShot marks a buffer submitted exactly once.
	CommandBufferModeOneShot CommandBufferMode = 1 << iota
	// CommandBufferModeAllowInlineExecution allows execution during
	// recording.
	CommandBufferModeAllowInlineExecution
)

// CommandCategory describes the command classes a buffer may record.
type CommandCategory uint32

const (
	// CommandCategoryTransfer covers copies and fills.
	CommandCategoryTransfer CommandCategory = 1 << iota
	// CommandCategoryDispatch covers dispatches.
	CommandCategoryDispatch
)

// QueueAffinity selects which queues may execute a command buffer.
type QueueAffinity uint64

// QueueAffinityAny places no constraint on queue selection.
const QueueAffinityAny QueueAffinity = ^QueueAffinity(0)

type recordingState int

const (
	stateInitial recordingState = iota
	stateRecording
	stateEnded
)

// DescriptorSetBinding associates one buffer with an ordinal slot of the
// descriptor set being pushed.
type DescriptorSetBinding struct {
	Ordinal int
	Buffer  *Buffer
	Offset  int
	Length  int
}

// bindingRegister is the single live descriptor-set generation. Pushing a
// descriptor set replaces the whole register: bindings do not nest and no
// history is kept.
type bindingRegister struct {
	addrs  []pim.Addr
	dims   []pimhal.Dims
	input  *Buffer
	output *Buffer
}

// CommandBuffer is a recording session. Recording is single-threaded: the
// binding register and input/output designations are private to the
// session and must not be mutated concurrently. Dispatches are synchronous
// SDK calls; the strictly-sequential execution model is what keeps output
// buffer rewrites race-free.
type CommandBuffer struct {
	device     *Device
	mode       CommandBufferMode
	categories CommandCategory
	affinity   QueueAffinity

	state recordingState
	reg   bindingRegister
}

func newCommandBuffer(device *Device, mode CommandBufferMode,
	categories CommandCategory, affinity QueueAffinity, bindingCapacity int) (*CommandBuffer, error) {
	if bindingCapacity > 0 {
		return nil, pimhal.Errorf(pimhal.Unimplemented,
			"indirect command buffers with binding tables not implemented")
	}
	return &CommandBuffer{
		device:     device,
		mode:       mode,
		categories: categories,
		affinity:   affinity,
		state:      stateInitial,
	}, nil
}

// Mode returns the recording mode inherited from creation.
func (cb *CommandBuffer) Mode() CommandBufferMode { return cb.mode }

// Categories returns the allowed command categories.
func (cb *CommandBuffer) Categories() CommandCategory { return cb.categories }

// QueueAffinity returns the queue affinity inherited from creation.
func (cb *CommandBuffer) QueueAffinity() QueueAffinity { return cb.affinity }

// Begin starts recording.
func (cb *CommandBuffer) Begin() error {
	if cb.state != stateInitial {
		return pimhal.Errorf(pimhal.FailedPrecondition, "command buffer has already begun recording")
	}
	cb.state = stateRecording
	return nil
}

// End finishes recording. No further commands may be recorded.
func (cb *CommandBuffer) End() error {
	if cb.state != stateRecording {
		return pimhal.Errorf(pimhal.FailedPrecondition, "command buffer is not recording")
	}
	cb.state = stateEnded
	return nil
}

func (cb *CommandBuffer) requireRecording() error {
	if cb.state != stateRecording {
		return pimhal.Errorf(pimhal.FailedPrecondition, "command buffer is not recording")
	}
	return nil
}

// PushDescriptorSet replaces the live binding register with the given
// bindings, in order. The first binding is designated the input buffer and
// the last the output buffer; with a single binding they are the same
// buffer, which is a valid single-argument dispatch. Buffers without a
// device payload contribute nothing to the operand lists. Only the most
// recent push influences the next dispatch.
func (cb *CommandBuffer) PushDescriptorSet(layout *PipelineLayout, set int, bindings []DescriptorSetBinding) error {
	if err := cb.requireRecording(); err != nil {
		return err
	}
	if len(bindings) == 0 {
		return pimhal.Errorf(pimhal.InvalidArgument, "descriptor set push requires at least one binding")
	}

	reg := bindingRegister{
		input:  bindings[0].Buffer,
		output: bindings[len(bindings)-1].Buffer,
	}
	for _, binding := range bindings {
		if binding.Buffer == nil || !binding.Buffer.HasDevicePayload() {
			continue
		}
		reg.addrs = append(reg.addrs, binding.Buffer.Addr())
		reg.dims = append(reg.dims, binding.Buffer.Dims().Clone())
	}
	cb.reg = reg
	return nil
}

// Dispatch invokes the accelerator once with the bound operand addresses
// and shapes and the executable's command blob, then rewrites the output
// buffer's address and shape with the result. An executable with no
// command words succeeds immediately without touching the device.
// Workgroup counts are accepted but unused: the device derives execution
// geometry from the operation selector and operand shapes.
func (cb *CommandBuffer) Dispatch(executable *Executable, entryPoint int, workgroupX, workgroupY, workgroupZ uint32) error {
	if err := cb.requireRecording(); err != nil {
		return err
	}
	if executable.CommandLen() == 0 {
		return nil
	}
	if cb.reg.output == nil {
		return pimhal.Errorf(pimhal.FailedPrecondition, "dispatch without a pushed descriptor set")
	}

	op := executable.CommandWords()[0]
	addr, dims, err := cb.device.sdk.Dispatch(cb.reg.addrs, op, cb.reg.dims)
	if err != nil {
		return err
	}

	cb.reg.output.SetAddr(addr)
	cb.reg.output.SetDims(dims)
	return nil
}

// DispatchIndirect reads workgroup counts from a buffer. Not provided by
// this device model.
func (cb *CommandBuffer) DispatchIndirect(executable *Executable, entryPoint int, workgroups *Buffer, offset int) error {
	return pimhal.Errorf(pimhal.Unimplemented, "indirect dispatch not implemented")
}

// ExecuteCommands replays a recorded command buffer. Not provided by this
// device model.
func (cb *CommandBuffer) ExecuteCommands(commands *CommandBuffer) error {
	return pimhal.Errorf(pimhal.Unimplemented, "nested command buffer execution not implemented")
}

// Collective records a collective operation. Not provided by this device
// model.
func (cb *CommandBuffer) Collective(op uint32, sendBinding, recvBinding DescriptorSetBinding, elementCount int) error {
	return pimhal.Errorf(pimhal.Unimplemented, "collectives not implemented on PIM")
}

// The operations below return success without effect: the device executes
// strictly sequentially, so there are never in-flight operations to order,
// and transfers happen through the allocator rather than recorded
// commands.

// ExecutionBarrier orders prior commands against later ones.
func (cb *CommandBuffer) ExecutionBarrier() error {
	return cb.requireRecording()
}

// SignalEvent sets an event.
func (cb *CommandBuffer) SignalEvent(event *Event) error {
	return cb.requireRecording()
}

// ResetEvent clears an event.
func (cb *CommandBuffer) ResetEvent(event *Event) error {
	return cb.requireRecording()
}

// WaitEvents waits for events.
func (cb *CommandBuffer) WaitEvents(events []*Event) error {
	return cb.requireRecording()
}

// DiscardBuffer hints that buffer contents are no longer needed.
func (cb *CommandBuffer) DiscardBuffer(buffer *Buffer) error {
	return cb.requireRecording()
}

// FillBuffer writes a repeating pattern into a buffer range.
func (cb *CommandBuffer) FillBuffer(target *Buffer, offset, length int, pattern []byte) error {
	return cb.requireRecording()
}

// UpdateBuffer writes host data into a buffer range.
func (cb *CommandBuffer) UpdateBuffer(source []byte, sourceOffset int, target *Buffer, targetOffset, length int) error {
	return cb.requireRecording()
}

// CopyBuffer copies between buffer ranges.
func (cb *CommandBuffer) CopyBuffer(source *Buffer, sourceOffset int, target *Buffer, targetOffset, length int) error {
	return cb.requireRecording()
}

// PushConstants records inline constant data.
func (cb *CommandBuffer) PushConstants(layout *PipelineLayout, offset int, values []byte) error {
	return cb.requireRecording()
}

// BeginDebugGroup opens a labeled scope in the recording.
func (cb *CommandBuffer) BeginDebugGroup(label string) {
	klog.V(3).Infof("hal: debug group begin %q", label)
}

// EndDebugGroup closes the innermost labeled scope.
func (cb *CommandBuffer) EndDebugGroup() {
	klog.V(3).Info("hal: debug group end")
}
