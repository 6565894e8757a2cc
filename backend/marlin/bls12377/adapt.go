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

// commAdapter lets a []sonicpc.LabeledCommitment be absorbed via
// absorbLabeledCommitments without sponge_init.go importing sonicpc.
type commAdapter struct{ c sonicpc.LabeledCommitment }

func (a commAdapter) Label() string { return a.c.Label() }
func (a commAdapter) Bytes() []byte { b := a.c.Commitment.Bytes(); return b[:] }

func adaptCommitments(cs []sonicpc.LabeledCommitment) []labeledCommitmentLike {
	out := make([]labeledCommitmentLike, len(cs))
	for i, c := range cs {
		out[i] = commAdapter{c: c}
	}
	return out
}

// toAHPPolys converts ahp's collaborator-neutral LabeledPolynomial into the
// PCS's own type, the boundary crossing between the AHP and PCS
// collaborators that the orchestration layer owns per spec.md §1.
func toAHPPolys(ps []ahp.LabeledPolynomial) []sonicpc.LabeledPolynomial {
	out := make([]sonicpc.LabeledPolynomial, len(ps))
	for i, p := range ps {
		out[i] = sonicpc.LabeledPolynomial{
			Info: sonicpc.PolynomialInfo{Label: p.Info.Label, DegreeBound: p.Info.DegreeBound, Hiding: p.Info.Hiding},
			Poly: p.Poly,
		}
	}
	return out
}

// toAHPIndexPolys is the same conversion for the indexer's oracles.
func toAHPIndexPolys(ps []ahp.LabeledPolynomial) []sonicpc.LabeledPolynomial { return toAHPPolys(ps) }

// circuitPrefix namespaces a label by its position in a multi-circuit
// batch, so that two circuits whose AHP oracles share a generic label (both
// have a "g_1", say) never collide in one batch's commitment/evaluation
// maps.
func circuitPrefix(circuitIdx int) string { return fmt.Sprintf("c%d_", circuitIdx) }

// prefixPolys returns copies of ps with every label namespaced by
// circuitPrefix(idx). prefixLCSpecs does the same for LC specs and the
// labels their terms reference.
func prefixPolys(idx int, ps []ahp.LabeledPolynomial) []ahp.LabeledPolynomial {
	prefix := circuitPrefix(idx)
	out := make([]ahp.LabeledPolynomial, len(ps))
	for i, p := range ps {
		out[i] = p
		out[i].Info.Label = prefix + p.Info.Label
	}
	return out
}

func prefixLCSpecs(idx int, specs []*ahp.LinearCombinationSpec) []*ahp.LinearCombinationSpec {
	prefix := circuitPrefix(idx)
	out := make([]*ahp.LinearCombinationSpec, len(specs))
	for i, s := range specs {
		terms := make([]ahp.LCTerm, len(s.Terms))
		for j, t := range s.Terms {
			terms[j] = ahp.LCTerm{Coeff: t.Coeff, Label: prefix + t.Label}
		}
		out[i] = &ahp.LinearCombinationSpec{Label: prefix + s.Label, Terms: terms, PointLabel: s.PointLabel, Point: s.Point, ExpectedEval: s.ExpectedEval}
	}
	return out
}

func toLCSpecs(specs []*ahp.LinearCombinationSpec) []*sonicpc.LinearCombination {
	out := make([]*sonicpc.LinearCombination, len(specs))
	for i, s := range specs {
		lc := sonicpc.EmptyLinearCombination(s.Label)
		for _, t := range s.Terms {
			lc.Add(t.Coeff, t.Label)
		}
		out[i] = lc
	}
	return out
}

func toQuerySet(specs []*ahp.LinearCombinationSpec) sonicpc.QuerySet {
	qs := make(sonicpc.QuerySet, len(specs))
	for _, s := range specs {
		qs[s.Label] = sonicpc.QueryPoint{PointLabel: s.PointLabel, Point: s.Point}
	}
	return qs
}

// evalSpecsAgainstPolys computes the claimed evaluation of every LC spec
// against the flat polynomial map, used by the prover to populate the
// Evaluations the verifier's query set expects.
func evalSpecsAgainstPolys(specs []*ahp.LinearCombinationSpec, polys map[string]sonicpc.LabeledPolynomial) sonicpc.Evaluations {
	evals := make(sonicpc.Evaluations, len(specs))
	for _, s := range specs {
		var acc fr.Element
		for _, t := range s.Terms {
			p, ok := polys[t.Label]
			if !ok {
				continue
			}
			v := p.Evaluate(s.Point)
			var scaled fr.Element
			scaled.Mul(&v, &t.Coeff)
			acc.Add(&acc, &scaled)
		}
		evals[s.Label] = acc
	}
	return evals
}
