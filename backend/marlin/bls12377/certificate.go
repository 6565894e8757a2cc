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

// Certificate is a short proof that a CircuitVerifyingKey's index
// commitments were honestly computed from the circuit they claim to index —
// spec.md's Certificate Subprotocol (component C), independent of proving or
// verifying any particular statement.
type Certificate struct {
	Evaluations sonicpc.Evaluations
	Opening     *sonicpc.BatchProof
}

// circuitCheckCombination folds the nine index oracle labels into one
// "circuit_check" combination: squeeze one challenge per oracle, pop the
// last as the opening point, and weight the oracles [1, c_2, ..., c_n] with
// the rest — a single combined opening rather than nine separate
// single-term ones, so the certificate's soundness rests on one pairing
// check binding all nine oracles together at once.
func circuitCheckCombination(t interface{ SqueezeNonNativeFieldElement() fr.Element }, labels []string) (*sonicpc.LinearCombination, fr.Element) {
	n := len(labels)
	challenges := make([]fr.Element, n)
	for i := range challenges {
		challenges[i] = t.SqueezeNonNativeFieldElement()
	}
	point := challenges[n-1]
	one := fr.One()
	lc := sonicpc.EmptyLinearCombination("circuit_check")
	lc.Add(one, labels[0])
	for i := 1; i < n; i++ {
		lc.Add(challenges[i-1], labels[i])
	}
	return lc, point
}

// ProveVK proves that pk's index commitments open, at a transcript-derived
// point, to the claimed evaluations of the index polynomials pk.Index holds
// — i.e. that the verifying key was not tampered with after indexing.
// Matches the Rust source's `prove_vk`.
func ProveVK(pk *CircuitProvingKey) (*Certificate, error) {
	t := initSpongeForCertificate()
	absorbLabeledCommitments(t, adaptCommitments(pk.VK.IndexComms))

	oracles := pk.Index.IndexOracles()
	labels := make([]string, len(oracles))
	for i, o := range oracles {
		labels[i] = o.Info.Label
	}
	lc, point := circuitCheckCombination(t, labels)

	polys := toAHPIndexPolys(oracles)
	polyMap := make(map[string]sonicpc.LabeledPolynomial, len(polys))
	comMap := make(map[string]sonicpc.LabeledCommitment, len(pk.VK.IndexComms))
	for _, p := range polys {
		polyMap[p.Info.Label] = p
	}
	for _, c := range pk.VK.IndexComms {
		comMap[c.Info.Label] = c
	}

	lcs := []*sonicpc.LinearCombination{lc}
	qs := sonicpc.QuerySet{lc.Label: {PointLabel: "challenge", Point: point}}
	evals := evalSpecsAgainstPolys(lcSpecFromPCS(lc, point), polyMap)

	proof, err := sonicpc.OpenCombinations(pk.CK, lcs, polyMap, comMap, nil, qs, evals)
	if err != nil {
		return nil, fmt.Errorf("marlin: prove_vk: %w", err)
	}
	return &Certificate{Evaluations: evals, Opening: proof}, nil
}

// lcSpecFromPCS adapts one already-built sonicpc.LinearCombination back into
// an ahp.LinearCombinationSpec so evalSpecsAgainstPolys (shared with
// prove.go) can compute its claimed evaluation, without duplicating that
// summation logic here.
func lcSpecFromPCS(lc *sonicpc.LinearCombination, point fr.Element) []*ahp.LinearCombinationSpec {
	terms := make([]ahp.LCTerm, len(lc.Terms))
	for i, t := range lc.Terms {
		terms[i] = ahp.LCTerm{Coeff: t.Coeff, Label: t.PolyLabel}
	}
	return []*ahp.LinearCombinationSpec{{Label: lc.Label, Terms: terms, PointLabel: "challenge", Point: point}}
}

// VerifyVK checks a Certificate against vk, re-deriving the claimed
// evaluations itself from circuit rather than trusting cert.Evaluations:
// circuit is re-synthesized and re-indexed, and the resulting index
// polynomials are evaluated independently at the transcript-derived point
// (ahp.EvaluateIndexPolynomials). Without this, a certificate only proves
// internal self-consistency between the prover's own claim and its opening
// proof — never that vk.IndexComms actually commit to this circuit's real
// index. Returns (false, nil) on a cryptographic failure, an error only for
// malformed input.
func VerifyVK(circuit ahp.ConstraintSynthesizer, vk *CircuitVerifyingKey, cert *Certificate) (bool, error) {
	cs := ahp.NewConstraintSystem()
	if err := circuit.Synthesize(cs); err != nil {
		return false, fmt.Errorf("marlin: verify_vk: synthesizing circuit: %w", err)
	}
	honestIndex, err := ahp.Index(cs)
	if err != nil {
		return false, fmt.Errorf("marlin: verify_vk: indexing circuit: %w", err)
	}
	if honestIndex.Hash != vk.Hash {
		return false, nil
	}

	t := initSpongeForCertificate()
	absorbLabeledCommitments(t, adaptCommitments(vk.IndexComms))

	oracles := honestIndex.IndexOracles()
	labels := make([]string, len(oracles))
	for i, o := range oracles {
		labels[i] = o.Info.Label
	}
	lc, point := circuitCheckCombination(t, labels)

	honestEvals := ahp.EvaluateIndexPolynomials(honestIndex, point)
	var claimed fr.Element
	for i, term := range lc.Terms {
		var scaled fr.Element
		scaled.Mul(&honestEvals[i], &term.Coeff)
		claimed.Add(&claimed, &scaled)
	}

	comMap := make(map[string]sonicpc.LabeledCommitment, len(vk.IndexComms))
	for _, c := range vk.IndexComms {
		comMap[c.Info.Label] = c
	}

	lcs := []*sonicpc.LinearCombination{lc}
	qs := sonicpc.QuerySet{lc.Label: {PointLabel: "challenge", Point: point}}
	evals := sonicpc.Evaluations{lc.Label: claimed}

	return sonicpc.CheckCombinations(vk.PCSKey, lcs, comMap, qs, evals, cert.Opening)
}
