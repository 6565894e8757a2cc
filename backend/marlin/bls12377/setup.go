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

import (
	"errors"
	"fmt"

	"github.com/BaoNinh2808/marlin/ahp/bls12377"
	"github.com/BaoNinh2808/marlin/pcs/bls12377"
)

// UniversalSetup runs the trusted setup, producing public parameters that
// support indexing any circuit whose arithmetization needs at most
// maxDegree. This is the Setup Coordinator's `universal_setup`.
func UniversalSetup(maxDegree uint64) (*sonicpc.UniversalSRS, error) {
	Logger().Debug().Uint64("maxDegree", maxDegree).Msg("universal setup")
	srs, err := sonicpc.LoadSRS(maxDegree)
	if err != nil {
		return nil, fmt.Errorf("marlin: universal setup: %w", err)
	}
	return srs, nil
}

// CircuitSetup runs the AHP indexer over circuit, then trims srs to that
// circuit's degree bounds and commits to the index oracles — the Setup
// Coordinator's `circuit_setup`. mode is stamped onto the resulting
// verifying key so a later prove/verify call can be checked against the
// mode the circuit was indexed for.
func CircuitSetup(srs *sonicpc.UniversalSRS, mode MarlinMode, circuit ahp.ConstraintSynthesizer) (*CircuitProvingKey, *CircuitVerifyingKey, error) {
	cs := ahp.NewConstraintSystem()
	if err := circuit.Synthesize(cs); err != nil {
		return nil, nil, fmt.Errorf("marlin: circuit setup: synthesizing: %w", err)
	}
	index, err := ahp.Index(cs)
	if err != nil {
		return nil, nil, fmt.Errorf("marlin: circuit setup: indexing: %w", err)
	}

	supportedDegree := index.Info.ConstraintDomainSize()
	bounds := index.GetDegreeBounds()
	maxBound := supportedDegree
	for _, b := range bounds {
		if b > maxBound {
			maxBound = b
		}
	}
	if err := srs.DownloadPowersFor(0, maxBound); err != nil {
		if errors.Is(err, sonicpc.ErrSRSCannotGrow) && srs.MaxDegree() < maxBound {
			return nil, nil, wrapf(ErrIndexTooLarge, "index degree %d exceeds SRS max degree %d", maxBound, srs.MaxDegree())
		}
		return nil, nil, fmt.Errorf("marlin: circuit setup: growing SRS: %w", err)
	}

	ck, vk, err := sonicpc.Trim(srs, maxBound, bounds, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("marlin: circuit setup: trimming: %w", err)
	}

	indexOracles := index.IndexOracles()
	comms, rands, err := sonicpc.Commit(ck, toAHPIndexPolys(indexOracles), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("marlin: circuit setup: committing index: %w", err)
	}

	circuitVK := &CircuitVerifyingKey{Info: index.Info, Hash: index.Hash, ModeTag: mode, IndexComms: comms, PCSKey: vk}
	circuitPK := &CircuitProvingKey{VK: circuitVK, CK: ck, Index: index, IndexRands: rands}
	Logger().Debug().Int("numConstraints", index.Info.NumConstraints).Msg("circuit indexed")
	return circuitPK, circuitVK, nil
}

// CircuitSpecificSetup is a one-shot convenience that sizes a universal SRS
// exactly to one circuit and runs CircuitSetup against it. Matches the Rust
// source's `circuit_specific_setup`, which its own doc comment restricts to
// "testing purposes" — callers proving more than one circuit should use
// UniversalSetup once and CircuitSetup/BatchCircuitSetup per circuit so the
// SRS is shared.
func CircuitSpecificSetup(mode MarlinMode, circuit ahp.ConstraintSynthesizer) (*CircuitProvingKey, *CircuitVerifyingKey, error) {
	cs := ahp.NewConstraintSystem()
	if err := circuit.Synthesize(cs); err != nil {
		return nil, nil, fmt.Errorf("marlin: circuit-specific setup: synthesizing: %w", err)
	}
	index, err := ahp.Index(cs)
	if err != nil {
		return nil, nil, fmt.Errorf("marlin: circuit-specific setup: indexing: %w", err)
	}
	maxBound := index.Info.ConstraintDomainSize()
	for _, b := range index.GetDegreeBounds() {
		if b > maxBound {
			maxBound = b
		}
	}
	srs, err := UniversalSetup(maxBound)
	if err != nil {
		return nil, nil, err
	}
	return CircuitSetup(srs, mode, circuit)
}

// BatchCircuitSetup runs CircuitSetup independently for each circuit against
// the same universal SRS, then enforces the precondition spec.md §9 settled
// on in place of inventing a committer-key union operation: every resulting
// committer key must share the same supported degree, since a batch proof
// absorbs all circuits into one transcript and opens them with one set of
// PCS challenges.
func BatchCircuitSetup(srs *sonicpc.UniversalSRS, mode MarlinMode, circuits []ahp.ConstraintSynthesizer) ([]*CircuitProvingKey, []*CircuitVerifyingKey, error) {
	if len(circuits) == 0 {
		return nil, nil, ErrEmptyBatch
	}
	pks := make([]*CircuitProvingKey, len(circuits))
	vks := make([]*CircuitVerifyingKey, len(circuits))
	var commonDegree uint64
	for i, c := range circuits {
		pk, vk, err := CircuitSetup(srs, mode, c)
		if err != nil {
			return nil, nil, fmt.Errorf("marlin: batch circuit setup: circuit %d: %w", i, err)
		}
		if i == 0 {
			commonDegree = pk.CK.SupportedDegree()
		} else if pk.CK.SupportedDegree() != commonDegree {
			return nil, nil, wrapf(ErrBatchSizeMismatch, "circuit %d committer key degree %d differs from batch degree %d", i, pk.CK.SupportedDegree(), commonDegree)
		}
		pks[i], vks[i] = pk, vk
	}
	return pks, vks, nil
}
