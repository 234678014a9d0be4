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
	"sync/atomic"
	"time"

	"k8s.io/klog/v2"
)

// Semaphore is API surface without timeline semantics: the pipeline is
// strictly sequential, so submissions complete before dependent work is
// recorded and there is nothing to wait on. Signal, wait and query all
// succeed without effect. Only the failure latch is real.
type Semaphore struct {
	payload atomic.Uint64
	failure atomic.Pointer[error]
}

func newSemaphore(initialValue uint64) *Semaphore {
	s := &Semaphore{}
	s.payload.Store(initialValue)
	return s
}

// Query returns the current payload value.
func (s *Semaphore) Query() (uint64, error) {
	return s.payload.Load(), nil
}

// Signal advances the payload value. No waiter exists to wake.
func (s *Semaphore) Signal(value uint64) error {
	klog.V(2).Infof("hal: semaphore signal %d (no-op)", value)
	s.payload.Store(value)
	return nil
}

// Fail latches a failure status on the semaphore.
func (s *Semaphore) Fail(err error) {
	s.failure.Store(&err)
}

// Failure returns the latched failure, if any.
func (s *Semaphore) Failure() error {
	if p := s.failure.Load(); p != nil {
		return *p
	}
	return nil
}

// Wait returns once the payload reaches value. The timeout is accepted
// but not honored: execution is synchronous, so the value is already
// final when Wait is called.
func (s *Semaphore) Wait(value uint64, timeout time.Duration) error {
	return nil
}

// Event is a recording-scope synchronization point. Like semaphores it is
// semantically inert on this device.
type Event struct{}
