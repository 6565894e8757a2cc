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

package ahp

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// VerifierFirstMessage is the verifier's first-round challenge: the
// eta batching weights that fold z_A, z_B and z_A*z_B across matrices into
// one sumcheck target, per spec.md §4.D step 5.
type VerifierFirstMessage struct {
	EtaA, EtaB, EtaC fr.Element
}

// VerifierSecondMessage is the verifier's second-round challenge: the point
// beta at which the indexed row/col/val polynomials are queried.
type VerifierSecondMessage struct {
	Beta fr.Element
}

// VerifierFourthMessage is the verifier's fourth-round challenge: the point
// the final, combined linear combinations are opened at. It is derived only
// after both round 3's (g_a/g_b/g_c) and round 4's (h_2) oracles have been
// absorbed — round 3 alone produces no verifier message.
type VerifierFourthMessage struct {
	Point fr.Element
}

// Squeezer is the minimal transcript surface the verifier rounds need: a
// source of field-element challenges. Satisfied by *sponge.Transcript
// without this package importing sponge (kept decoupled so this AHP
// reference has no transcript-library dependency of its own, matching its
// role as an external collaborator in spec.md §1).
type Squeezer interface {
	SqueezeNonNativeFieldElement() fr.Element
}

// VerifierFirstRound derives the first verifier message from the transcript,
// after the first-round prover oracles have been absorbed.
func VerifierFirstRound(t Squeezer) VerifierFirstMessage {
	return VerifierFirstMessage{EtaA: t.SqueezeNonNativeFieldElement(), EtaB: t.SqueezeNonNativeFieldElement(), EtaC: t.SqueezeNonNativeFieldElement()}
}

// VerifierSecondRound derives the second verifier message (beta), after the
// second-round prover oracles have been absorbed.
func VerifierSecondRound(t Squeezer) VerifierSecondMessage {
	return VerifierSecondMessage{Beta: t.SqueezeNonNativeFieldElement()}
}

// VerifierFourthRound derives the opening point, after round 3's oracles and
// message and round 4's h_2 oracle have all been absorbed.
func VerifierFourthRound(t Squeezer) VerifierFourthMessage {
	return VerifierFourthMessage{Point: t.SqueezeNonNativeFieldElement()}
}

// LCTerm is one coeff*label summand of a LinearCombinationSpec, mirroring
// pcs.LinearCombinationTerm without this package depending on the pcs
// package.
type LCTerm struct {
	Coeff fr.Element
	Label string
}

// LinearCombinationSpec is the AHP's description of one combination check:
// which oracle labels combine, with what coefficients, and which query
// point they must be opened at. The orchestration layer translates this
// into the PCS's own LinearCombination/QuerySet types.
//
// ExpectedEval, when non-nil, overrides whatever evaluation the prover
// claims for this combination with a value the verifier computed
// independently (from the externally supplied public input, not from
// anything the proof carries) — the mechanism that cryptographically binds
// a proof to one specific statement rather than merely to internally
// self-consistent claims. A spec left nil is checked only for
// self-consistency between the prover's claimed evaluation and its opening
// proof, same as before.
type LinearCombinationSpec struct {
	Label        string
	Terms        []LCTerm
	PointLabel   string
	Point        fr.Element
	ExpectedEval *fr.Element
}

// ConstructLinearCombinations builds the full set of combination checks for
// one batch: per instance, single-oracle evaluation checks of w, z_a and z_b
// at the round-4 opening point plus the public-input binding checks; then a
// "circuit_check" combination of g_1 and h_1 at the opening point and a
// "matrix_check" combination of g_a/g_b/g_c/h_2 at beta. Neither combination
// includes the witness oracles or the index polynomials. This is the Go-native
// counterpart of the Rust source's `AHPForR1CS::construct_linear_combinations`.
//
// publicInputs holds, per instance (in the same order NewProverState built
// its oracles), the externally asserted public-input assignment; domainGen
// is the constraint domain's multiplicative generator, needed to derive the
// fixed points w^0, w^1, ..., w^k the witness oracle is Lagrange-interpolated
// over, so the verifier can check each instance's witness oracle opens to
// the claimed public input at exactly those points without trusting the
// prover's self-reported evaluation.
func ConstructLinearCombinations(publicInputs [][]fr.Element, domainGen fr.Element, beta fr.Element, fourth VerifierFourthMessage) []*LinearCombinationSpec {
	one := fr.One()
	numInstances := len(publicInputs)
	specs := make([]*LinearCombinationSpec, 0, numInstances*3+2)
	for i := 0; i < numInstances; i++ {
		specs = append(specs,
			&LinearCombinationSpec{Label: witnessLabel("w", i) + "_eval", Terms: []LCTerm{{Coeff: one, Label: witnessLabel("w", i)}}, PointLabel: "challenge", Point: fourth.Point},
			&LinearCombinationSpec{Label: witnessLabel("z_a", i) + "_eval", Terms: []LCTerm{{Coeff: one, Label: witnessLabel("z_a", i)}}, PointLabel: "challenge", Point: fourth.Point},
			&LinearCombinationSpec{Label: witnessLabel("z_b", i) + "_eval", Terms: []LCTerm{{Coeff: one, Label: witnessLabel("z_b", i)}}, PointLabel: "challenge", Point: fourth.Point},
		)
		specs = append(specs, publicInputBindingSpecs(i, publicInputs[i], domainGen, one)...)
	}
	specs = append(specs,
		&LinearCombinationSpec{Label: "circuit_check", Terms: []LCTerm{{Coeff: one, Label: "g_1"}, {Coeff: one, Label: "h_1"}}, PointLabel: "challenge", Point: fourth.Point},
		&LinearCombinationSpec{Label: "matrix_check", Terms: []LCTerm{
			{Coeff: one, Label: "g_a"}, {Coeff: one, Label: "g_b"}, {Coeff: one, Label: "g_c"}, {Coeff: one, Label: "h_2"},
		}, PointLabel: "beta", Point: beta},
	)
	return specs
}

// publicInputBindingSpecs returns one LinearCombinationSpec per entry of the
// witness assignment vector [1, x_1, ..., x_k] that instance i's witness
// oracle was interpolated from, each opened at the corresponding domain
// point w^j and overridden (via ExpectedEval) with the value the verifier
// computes on its own from pub — never the prover's claim.
func publicInputBindingSpecs(i int, pub []fr.Element, domainGen, one fr.Element) []*LinearCombinationSpec {
	specs := make([]*LinearCombinationSpec, 0, len(pub)+1)
	point := fr.One()
	for j := 0; j <= len(pub); j++ {
		expected := fr.One()
		if j > 0 {
			expected = pub[j-1]
		}
		specs = append(specs, &LinearCombinationSpec{
			Label:        fmt.Sprintf("%s_pub_%d", witnessLabel("w", i), j),
			Terms:        []LCTerm{{Coeff: one, Label: witnessLabel("w", i)}},
			PointLabel:   fmt.Sprintf("pub_point_%d", j),
			Point:        point,
			ExpectedEval: &expected,
		})
		point.Mul(&point, &domainGen)
	}
	return specs
}
