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
	"fmt"

	"github.com/BaoNinh2808/marlin/ahp/bls12377"
	"github.com/BaoNinh2808/marlin/pcs/bls12377"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// VerifyBatchPrepared runs the Proof Verifier (component E): it re-derives
// every Fiat-Shamir challenge from the proof's own commitments, checks the
// proof's declared mode against the hiding flag its own oracles carry, then
// checks the claimed evaluations against the PCS opening. publicInputs
// holds, per circuit (same order as vks), the per-instance public input
// assignments; its shape must match the batch sizes the proof was
// constructed for, and every witness oracle is independently checked to open
// to these values at the constraint domain's fixed points, not merely to
// whatever the prover claims.
func VerifyBatchPrepared(mode MarlinMode, vks []*CircuitVerifyingKey, publicInputs [][][]fr.Element, proof *Proof) (bool, error) {
	if len(vks) == 0 || len(publicInputs) == 0 {
		return false, ErrEmptyBatch
	}
	if len(vks) != len(publicInputs) {
		return false, wrapf(ErrBatchSizeMismatch, "%d verifying keys but %d public-input groups", len(vks), len(publicInputs))
	}
	if len(proof.BatchSizes) != len(publicInputs) {
		return false, wrapf(ErrBatchSizeMismatch, "proof covers %d circuits but %d public-input groups given", len(proof.BatchSizes), len(publicInputs))
	}
	for i, group := range publicInputs {
		if proof.BatchSizes[i] != uint64(len(group)) {
			return false, wrapf(ErrBatchSizeMismatch, "circuit %d: proof has %d instances but %d public inputs given", i, proof.BatchSizes[i], len(group))
		}
	}

	for _, c := range proof.Commitments.First {
		if c.Info.Hiding != mode.ZK {
			return false, nil
		}
	}

	batchSizes := proof.BatchSizes
	t := initSponge(batchSizes)
	for _, vk := range vks {
		absorbLabeledCommitments(t, adaptCommitments(vk.IndexComms))
	}

	absorbPublicInputs(t, publicInputs)

	expectFirst := 0
	for _, group := range publicInputs {
		expectFirst += 3 * len(group)
	}
	if len(proof.Commitments.First) != expectFirst {
		return false, nil
	}
	absorbLabeledCommitments(t, adaptCommitments(proof.Commitments.First))
	msg1 := ahp.VerifierFirstRound(t)
	_ = msg1

	absorbLabeledCommitments(t, adaptCommitments(proof.Commitments.Second))
	msg2 := ahp.VerifierSecondRound(t)

	if len(proof.ProverThirdMsg) != len(vks) {
		return false, nil
	}
	absorbLabeledCommitments(t, adaptCommitments(proof.Commitments.Third))
	absorbProverThirdMessages(t, proof.ProverThirdMsg)

	absorbLabeledCommitments(t, adaptCommitments(proof.Commitments.Fourth))
	msg4 := ahp.VerifierFourthRound(t)

	comMap := make(map[string]sonicpc.LabeledCommitment)
	for _, c := range proof.Commitments.First {
		comMap[c.Info.Label] = c
	}
	for _, c := range proof.Commitments.Second {
		comMap[c.Info.Label] = c
	}
	for _, c := range proof.Commitments.Third {
		comMap[c.Info.Label] = c
	}
	for _, c := range proof.Commitments.Fourth {
		comMap[c.Info.Label] = c
	}
	for i, vk := range vks {
		for _, c := range vk.IndexComms {
			comMap[circuitPrefix(i)+c.Info.Label] = c
		}
	}

	var allSpecs []*ahp.LinearCombinationSpec
	for i, vk := range vks {
		specs := ahp.ConstructLinearCombinations(publicInputs[i], vk.Info.DomainGenerator(), msg2.Beta, msg4)
		allSpecs = append(allSpecs, prefixLCSpecs(i, specs)...)
	}

	lcs := toLCSpecs(allSpecs)
	qs := toQuerySet(allSpecs)

	evals := make(sonicpc.Evaluations, len(allSpecs))
	for _, s := range allSpecs {
		if s.ExpectedEval != nil {
			evals[s.Label] = *s.ExpectedEval
			continue
		}
		v, ok := proof.Evaluations[s.Label]
		if !ok {
			return false, wrapf(ErrMissingEval, "missing evaluation for %q", s.Label)
		}
		evals[s.Label] = v
	}

	ok, err := sonicpc.CheckCombinations(vks[0].PCSKey, lcs, comMap, qs, evals, proof.Opening)
	if err != nil {
		return false, fmt.Errorf("marlin: verify_batch: %w", err)
	}
	return ok, nil
}
