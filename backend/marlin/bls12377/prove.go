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
	"crypto/rand"
	"fmt"

	"github.com/BaoNinh2808/marlin/ahp/bls12377"
	"github.com/BaoNinh2808/marlin/pcs/bls12377"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// ProveBatchWithTerminator runs the Proof Assembler (component D): the four
// AHP rounds across every circuit/instance in the batch, interleaved with
// Fiat-Shamir absorption and cooperative termination checks, producing one
// batched Proof. instances[i] holds the already-synthesized
// constraint-system instances proved against pks[i]; len(instances) must
// equal len(pks).
func ProveBatchWithTerminator(mode MarlinMode, pks []*CircuitProvingKey, instances [][]*ahp.ConstraintSystem, terminator *AtomicTerminator) (*Proof, error) {
	if len(pks) == 0 || len(instances) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(pks) != len(instances) {
		return nil, wrapf(ErrBatchSizeMismatch, "%d proving keys but %d instance groups", len(pks), len(instances))
	}
	for i, group := range instances {
		if len(group) == 0 {
			return nil, wrapf(ErrEmptyBatch, "circuit %d has no instances", i)
		}
	}

	log := Logger().With().Int("numCircuits", len(pks)).Logger()
	log.Debug().Msg("prove_batch: start")

	if err := checkTerminator(terminator, "start"); err != nil {
		return nil, err
	}

	batchSizes := make([]uint64, len(instances))
	publicInputs := make([][][]fr.Element, len(instances))
	for i, group := range instances {
		batchSizes[i] = uint64(len(group))
		pub := make([][]fr.Element, len(group))
		for j, cs := range group {
			pub[j] = cs.PublicInputs()
		}
		publicInputs[i] = pub
	}

	t := initSponge(batchSizes)
	for _, pk := range pks {
		absorbLabeledCommitments(t, adaptCommitments(pk.VK.IndexComms))
	}

	if err := checkTerminator(terminator, "after index absorption"); err != nil {
		return nil, err
	}

	absorbPublicInputs(t, publicInputs)

	if err := checkTerminator(terminator, "after public input absorption"); err != nil {
		return nil, err
	}

	proverStates := make([]*ahp.ProverState, len(pks))
	var allFirst []sonicpc.LabeledCommitment
	polyMap := make(map[string]sonicpc.LabeledPolynomial)
	comMap := make(map[string]sonicpc.LabeledCommitment)
	randMap := make(map[string]sonicpc.Randomness)

	for i, pk := range pks {
		ps, err := ahp.NewProverState(pk.Index, mode.ZK, instances[i])
		if err != nil {
			return nil, fmt.Errorf("marlin: prove_batch: circuit %d: %w", i, err)
		}
		proverStates[i] = ps

		first := prefixPolys(i, ps.FirstRound())
		pcsPolys := toAHPPolys(first)
		var rng interface{ Read([]byte) (int, error) }
		if mode.ZK {
			rng = rand.Reader
		}
		comms, rands, err := sonicpc.Commit(pk.CK, pcsPolys, rng)
		if err != nil {
			return nil, fmt.Errorf("marlin: prove_batch: circuit %d: committing round 1: %w", i, err)
		}
		allFirst = append(allFirst, comms...)
		for j, p := range pcsPolys {
			polyMap[p.Info.Label] = p
			comMap[p.Info.Label] = comms[j]
			randMap[p.Info.Label] = rands[j]
		}
	}

	if err := checkTerminator(terminator, "after round 1 commit"); err != nil {
		return nil, err
	}

	absorbLabeledCommitments(t, adaptCommitments(allFirst))

	if err := checkTerminator(terminator, "after round 1 absorption"); err != nil {
		return nil, err
	}

	msg1 := ahp.VerifierFirstRound(t)

	var allSecond []sonicpc.LabeledCommitment
	for i, ps := range proverStates {
		second := prefixPolys(i, ps.SecondRound(msg1))
		pcsPolys := toAHPPolys(second)
		comms, rands, err := sonicpc.Commit(pks[i].CK, pcsPolys, nil)
		if err != nil {
			return nil, fmt.Errorf("marlin: prove_batch: circuit %d: committing round 2: %w", i, err)
		}
		allSecond = append(allSecond, comms...)
		for j, p := range pcsPolys {
			polyMap[p.Info.Label] = p
			comMap[p.Info.Label] = comms[j]
			randMap[p.Info.Label] = rands[j]
		}
	}

	if err := checkTerminator(terminator, "after round 2 commit"); err != nil {
		return nil, err
	}

	absorbLabeledCommitments(t, adaptCommitments(allSecond))

	if err := checkTerminator(terminator, "after round 2 absorption"); err != nil {
		return nil, err
	}

	msg2 := ahp.VerifierSecondRound(t)

	var allThird []sonicpc.LabeledCommitment
	thirdMsgs := make([]ahp.ProverThirdMessage, len(proverStates))
	for i, ps := range proverStates {
		third, msg := ps.ThirdRound(msg2)
		thirdMsgs[i] = msg
		prefixed := prefixPolys(i, third)
		pcsPolys := toAHPPolys(prefixed)
		comms, rands, err := sonicpc.Commit(pks[i].CK, pcsPolys, nil)
		if err != nil {
			return nil, fmt.Errorf("marlin: prove_batch: circuit %d: committing round 3: %w", i, err)
		}
		allThird = append(allThird, comms...)
		for j, p := range pcsPolys {
			polyMap[p.Info.Label] = p
			comMap[p.Info.Label] = comms[j]
			randMap[p.Info.Label] = rands[j]
		}
	}

	if err := checkTerminator(terminator, "after round 3 commit"); err != nil {
		return nil, err
	}

	absorbLabeledCommitments(t, adaptCommitments(allThird))
	absorbProverThirdMessages(t, thirdMsgs)

	if err := checkTerminator(terminator, "after round 3 absorption"); err != nil {
		return nil, err
	}

	var allFourth []sonicpc.LabeledCommitment
	for i, ps := range proverStates {
		fourth := prefixPolys(i, ps.FourthRound())
		pcsPolys := toAHPPolys(fourth)
		comms, rands, err := sonicpc.Commit(pks[i].CK, pcsPolys, nil)
		if err != nil {
			return nil, fmt.Errorf("marlin: prove_batch: circuit %d: committing round 4: %w", i, err)
		}
		allFourth = append(allFourth, comms...)
		for j, p := range pcsPolys {
			polyMap[p.Info.Label] = p
			comMap[p.Info.Label] = comms[j]
			randMap[p.Info.Label] = rands[j]
		}
	}

	if err := checkTerminator(terminator, "after round 4 commit"); err != nil {
		return nil, err
	}

	absorbLabeledCommitments(t, adaptCommitments(allFourth))

	if err := checkTerminator(terminator, "after round 4 absorption"); err != nil {
		return nil, err
	}

	msg4 := ahp.VerifierFourthRound(t)

	var allSpecs []*ahp.LinearCombinationSpec
	for i, pk := range pks {
		specs := ahp.ConstructLinearCombinations(publicInputs[i], pk.Index.Info.DomainGenerator(), msg2.Beta, msg4)
		allSpecs = append(allSpecs, prefixLCSpecs(i, specs)...)
	}

	lcs := toLCSpecs(allSpecs)
	qs := toQuerySet(allSpecs)
	evals := evalSpecsAgainstPolys(allSpecs, polyMap)

	if err := checkTerminator(terminator, "before opening"); err != nil {
		return nil, err
	}

	// All circuits in a batch were asserted (at BatchCircuitSetup time) to
	// share one committer key degree, so any one circuit's CK opens every
	// combination's folded polynomial.
	opening, err := sonicpc.OpenCombinations(pks[0].CK, lcs, polyMap, comMap, randMap, qs, evals)
	if err != nil {
		return nil, fmt.Errorf("marlin: prove_batch: opening combinations: %w", err)
	}

	if err := checkTerminator(terminator, "after opening"); err != nil {
		return nil, err
	}

	proof := &Proof{
		Commitments:    Commitments{First: allFirst, Second: allSecond, Third: allThird, Fourth: allFourth},
		Evaluations:    evals,
		Opening:        opening,
		BatchSizes:     batchSizes,
		ProverThirdMsg: thirdMsgs,
	}

	if debugVerifyEnabled {
		debugSelfVerify(mode, pks, instances, proof)
	}

	log.Debug().Msg("prove_batch: done")
	return proof, nil
}
