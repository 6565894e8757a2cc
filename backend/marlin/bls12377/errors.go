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

import "errors"

// Sentinel errors, one per failure mode in spec.md §7's error taxonomy.
// Callers should compare with errors.Is, since every layer below wraps its
// own detail onto these with %w.
var (
	// ErrIndexTooLarge means a circuit's indexed degree exceeds what the
	// supplied universal SRS supports, and the SRS could not be grown to
	// cover it (see sonicpc.ErrSRSCannotGrow).
	ErrIndexTooLarge = errors.New("marlin: circuit index exceeds SRS capacity")

	// ErrEmptyBatch means ProveBatchWithTerminator or VerifyBatchPrepared
	// was called with zero circuits or zero instances.
	ErrEmptyBatch = errors.New("marlin: empty circuit/instance batch")

	// ErrCircuitNotFound means FindProvingKey or FindVerifyingKey found no
	// key whose circuit hash equals the requested one.
	ErrCircuitNotFound = errors.New("marlin: circuit not found in batch")

	// ErrBatchSizeMismatch means the number of public-input assignments
	// supplied for a circuit did not match the number of instances actually
	// proved for it, or BatchCircuitSetup was asked to share one committer
	// key across circuits whose trimmed PCS parameters differ.
	ErrBatchSizeMismatch = errors.New("marlin: batch size mismatch")

	// ErrTerminated means a caller's Terminator was observed set mid-proof,
	// and the proof was cooperatively abandoned.
	ErrTerminated = errors.New("marlin: operation terminated")

	// ErrMissingEval means the prover's evaluation map did not contain a
	// value the verifier's query set required.
	ErrMissingEval = errors.New("marlin: missing evaluation for query")
)
