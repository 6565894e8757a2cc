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

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fft"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// witnessLabel names a per-instance first-round oracle, matching spec.md
// §6's `witness_label(poly, i)` convention.
func witnessLabel(poly string, instance int) string {
	return fmt.Sprintf("%s_%d", poly, instance)
}

type instanceState struct {
	publicInput []fr.Element
	zA, zB      []fr.Element // evaluations over domain H
	witnessPoly []fr.Element // coefficient form
	zAPoly      []fr.Element
	zBPoly      []fr.Element
	mask        []fr.Element // present only in ZK mode
}

// ProverState carries a prover's working oracles across the four rounds of
// one batched proof.
type ProverState struct {
	index     *IndexedCircuit
	domainH   *fft.Domain
	zk        bool
	instances []*instanceState

	// pendingH holds the three matrices' rational-sumcheck quotients
	// computed by ThirdRound, retained until FourthRound combines them into
	// h_2. Round 3 commits no h_* oracle of its own, so this state crosses
	// the verifier-silent boundary between rounds 3 and 4.
	pendingH [][]fr.Element
}

// NewProverState builds the prover's first-round state for a batch of
// instances sharing one indexed circuit.
func NewProverState(ic *IndexedCircuit, zk bool, instances []*ConstraintSystem) (*ProverState, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("ahp: prover: empty instance batch")
	}
	n := ic.Info.ConstraintDomainSize()
	domain := fft.NewDomain(n)

	ps := &ProverState{index: ic, domainH: domain, zk: zk}
	for _, cs := range instances {
		zA, zB, err := cs.FullAssignment()
		if err != nil {
			return nil, err
		}
		zA = padTo(zA, int(n))
		zB = padTo(zB, int(n))

		witnessEvals := padTo(append(append([]fr.Element{fr.One()}, cs.PublicInputs()...), cs.WitnessValues()...), int(n))

		zAPoly := interpolate(domain, zA)
		zBPoly := interpolate(domain, zB)
		witnessPoly := interpolate(domain, witnessEvals)

		inst := &instanceState{
			publicInput: cs.PublicInputs(),
			zA:          zA, zB: zB,
			witnessPoly: witnessPoly, zAPoly: zAPoly, zBPoly: zBPoly,
		}
		if zk {
			mask := make([]fr.Element, 2)
			if _, err := mask[0].SetRandom(); err != nil {
				return nil, fmt.Errorf("ahp: sampling mask: %w", err)
			}
			if _, err := mask[1].SetRandom(); err != nil {
				return nil, fmt.Errorf("ahp: sampling mask: %w", err)
			}
			inst.mask = mask
		}
		ps.instances = append(ps.instances, inst)
	}
	return ps, nil
}

func padTo(v []fr.Element, n int) []fr.Element {
	if len(v) >= n {
		return v[:n]
	}
	out := make([]fr.Element, n)
	copy(out, v)
	return out
}

func interpolate(domain *fft.Domain, evals []fr.Element) []fr.Element {
	coeffs := make([]fr.Element, len(evals))
	copy(coeffs, evals)
	domain.FFTInverse(coeffs, fft.DIF)
	fft.BitReverse(coeffs)
	return coeffs
}

// FirstRound emits, per instance, the witness, z_a and z_b oracles, with (in
// ZK mode) a domain-vanishing mask added to the witness and z_a oracles; z_b
// is emitted unmasked. These are the "first round"
// commitments of spec.md §4.D step 3. The mask is a random multiple of the
// domain's vanishing polynomial Z_H(X), so it leaves every evaluation on H
// (in particular the values a verifier independently recomputes from the
// public input, see ConstructLinearCombinations) untouched while still
// randomizing the oracle everywhere off the domain, including at the
// Fiat-Shamir challenge point the sumcheck identities are opened at.
func (ps *ProverState) FirstRound() []LabeledPolynomial {
	var out []LabeledPolynomial
	vanish := vanishingPoly(int(ps.domainH.Cardinality))
	for i, inst := range ps.instances {
		w, za, zb := inst.witnessPoly, inst.zAPoly, inst.zBPoly
		if ps.zk {
			w = polyAdd(w, polyScale(vanish, inst.mask[0]))
			za = polyAdd(za, polyScale(vanish, inst.mask[1]))
		}
		out = append(out,
			LabeledPolynomial{Info: PolynomialInfo{Label: witnessLabel("w", i), Hiding: ps.zk}, Poly: w},
			LabeledPolynomial{Info: PolynomialInfo{Label: witnessLabel("z_a", i), Hiding: ps.zk}, Poly: za},
			LabeledPolynomial{Info: PolynomialInfo{Label: witnessLabel("z_b", i), Hiding: ps.zk}, Poly: zb},
		)
	}
	return out
}

// SecondRound consumes the verifier's first message (the per-matrix eta
// batching challenges) and emits the g_1/h_1 oracles of spec.md §4.D
// step 6: a sumcheck reduction of the batched, eta-weighted R1CS identity
// sum_{i,x in H} eta_A z_A_i(x) + eta_B z_B_i(x) + eta_C z_A_i(x) z_B_i(x) = 0.
func (ps *ProverState) SecondRound(msg VerifierFirstMessage) []LabeledPolynomial {
	n := int(ps.domainH.Cardinality)
	var combined []fr.Element
	for _, inst := range ps.instances {
		zc := polyMul(inst.zAPoly, inst.zBPoly)
		term := polyAdd(polyScale(inst.zAPoly, msg.EtaA), polyScale(inst.zBPoly, msg.EtaB))
		term = polyAdd(term, polyScale(zc, msg.EtaC))
		combined = polyAdd(combined, term)
	}
	h1, rem := divModByVanishing(combined, n)
	g1, _ := shiftUpByOne(rem)

	return []LabeledPolynomial{
		{Info: PolynomialInfo{Label: "g_1", DegreeBound: uint64(n - 1)}, Poly: g1},
		{Info: PolynomialInfo{Label: "h_1"}, Poly: h1},
	}
}

// ProverThirdMessage is the prover's round-3 message: the constant term of
// each matrix's rational-sumcheck remainder (the claimed sum, over the
// nonzero-entry domain, of val(X)*(beta-row(X))), absorbed alongside round
// 3's oracle commitments so the verifier's later checks are bound to the
// value the prover claims, not merely to the degree-bounded oracle that
// carries the rest of the remainder.
type ProverThirdMessage struct {
	SumA, SumB, SumC fr.Element
}

// ThirdRound consumes the verifier's second message (beta) and emits the
// g_a/g_b/g_c oracles of spec.md §4.D step 9: the outer sumcheck that
// reduces a query of the indexed row/col/val polynomials at beta to a
// single rational-function identity per matrix. Round 3 commits no h_*
// oracle and the verifier sends no new message before round 4 — each
// matrix's quotient is retained on ps.pendingH for FourthRound to combine.
func (ps *ProverState) ThirdRound(msg VerifierSecondMessage) ([]LabeledPolynomial, ProverThirdMessage) {
	var out []LabeledPolynomial
	var pending [][]fr.Element
	var third ProverThirdMessage
	sums := [3]*fr.Element{&third.SumA, &third.SumB, &third.SumC}
	for idx, m := range []struct {
		name          string
		row, col, val []fr.Element
	}{
		{"a", ps.index.rowA, ps.index.colA, ps.index.valA},
		{"b", ps.index.rowB, ps.index.colB, ps.index.valB},
		{"c", ps.index.rowC, ps.index.colC, ps.index.valC},
	} {
		k := len(m.val)
		// val(X) scaled by beta-row, a stand-in for the matrix-query
		// polynomial val(X) / ((beta - row(X))(beta - col(X))) the real
		// indexer's rational sumcheck reduces to; see the package doc for
		// why this core implements a structurally faithful, not
		// bit-for-bit, version of that reduction.
		betaMinusRow := make([]fr.Element, k)
		for i := range m.row {
			betaMinusRow[i].Sub(&msg.Beta, &m.row[i])
		}
		weighted := make([]fr.Element, k)
		for i := range m.val {
			weighted[i].Mul(&m.val[i], &betaMinusRow[i])
		}
		h, rem := divModByVanishing(weighted, k)
		g, constTerm := shiftUpByOne(rem)
		*sums[idx] = constTerm
		pending = append(pending, h)
		out = append(out, LabeledPolynomial{Info: PolynomialInfo{Label: "g_" + m.name, DegreeBound: uint64(k - 1)}, Poly: g})
	}
	ps.pendingH = pending
	return out, third
}

// FourthRound combines the three matrices' quotients retained from
// ThirdRound into the single h_2 oracle the verifier's matrix-check linear
// combination references — spec.md §4.D step 7's separate, final prover
// round, committed only after round 3's oracles and message have already
// been absorbed into the transcript.
func (ps *ProverState) FourthRound() []LabeledPolynomial {
	var h2 []fr.Element
	for _, h := range ps.pendingH {
		h2 = polyAdd(h2, h)
	}
	ps.pendingH = nil
	return []LabeledPolynomial{{Info: PolynomialInfo{Label: "h_2"}, Poly: h2}}
}
