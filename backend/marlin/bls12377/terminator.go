// Copyright 2020 ConsenSys Software Inc.
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

package marlin

import "sync/atomic"

// AtomicTerminator is the cooperative-cancellation primitive of spec.md's
// Termination Signal component (F): a prover holds one, checks it between
// pipeline steps, and a caller on another goroutine calls Set to request
// early abandonment. Verification takes no terminator.
type AtomicTerminator struct {
	flag atomic.Bool
}

// NewTerminator returns a terminator that has not been signaled.
func NewTerminator() *AtomicTerminator { return &AtomicTerminator{} }

// Set requests termination. Safe to call from any goroutine, any number of
// times.
func (t *AtomicTerminator) Set() { t.flag.Store(true) }

// IsSet reports whether termination has been requested. Implements
// sonicpc.Terminator.
func (t *AtomicTerminator) IsSet() bool {
	if t == nil {
		return false
	}
	return t.flag.Load()
}

// checkTerminator returns ErrTerminated, wrapped with step, if t is set.
// Called between the steps of ProveBatchWithTerminator.
func checkTerminator(t *AtomicTerminator, step string) error {
	if t.IsSet() {
		return wrapf(ErrTerminated, "terminated at %s", step)
	}
	return nil
}
