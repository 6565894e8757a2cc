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

package sonicpc

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/stretchr/testify/require"
)

func randomPoly(t *testing.T, degree int) []fr.Element {
	t.Helper()
	p := make([]fr.Element, degree+1)
	for i := range p {
		_, err := p[i].SetRandom()
		require.NoError(t, err)
	}
	return p
}

func TestCommitOpenVerifySingle(t *testing.T) {
	srs, err := LoadSRS(64)
	require.NoError(t, err)

	ck, vk, err := Trim(srs, 32, nil, 0)
	require.NoError(t, err)

	poly := LabeledPolynomial{Info: PolynomialInfo{Label: "w"}, Poly: randomPoly(t, 10)}
	coms, rands, err := Commit(ck, []LabeledPolynomial{poly}, nil)
	require.NoError(t, err)
	require.Len(t, coms, 1)
	require.True(t, rands[0].IsEmpty())

	var point fr.Element
	_, err = point.SetRandom()
	require.NoError(t, err)

	lc := EmptyLinearCombination("w_at_point")
	one := fr.One()
	lc.Add(one, "w")

	qs := QuerySet{"w_at_point": {PointLabel: "z", Point: point}}
	polys := map[string]LabeledPolynomial{"w": poly}
	comsByLabel := map[string]LabeledCommitment{"w": coms[0]}
	evals := Evaluations{"w_at_point": poly.Evaluate(point)}

	proof, err := OpenCombinations(ck, []*LinearCombination{lc}, polys, comsByLabel, nil, qs, evals)
	require.NoError(t, err)

	ok, err := CheckCombinations(vk, []*LinearCombination{lc}, comsByLabel, qs, evals, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCheckCombinationsRejectsWrongEvaluation(t *testing.T) {
	srs, err := LoadSRS(32)
	require.NoError(t, err)
	ck, vk, err := Trim(srs, 16, nil, 0)
	require.NoError(t, err)

	poly := LabeledPolynomial{Info: PolynomialInfo{Label: "w"}, Poly: randomPoly(t, 5)}
	coms, _, err := Commit(ck, []LabeledPolynomial{poly}, nil)
	require.NoError(t, err)

	var point fr.Element
	_, err = point.SetRandom()
	require.NoError(t, err)

	lc := EmptyLinearCombination("w_at_point")
	one := fr.One()
	lc.Add(one, "w")

	qs := QuerySet{"w_at_point": {PointLabel: "z", Point: point}}
	polys := map[string]LabeledPolynomial{"w": poly}
	comsByLabel := map[string]LabeledCommitment{"w": coms[0]}
	correct := poly.Evaluate(point)
	evals := Evaluations{"w_at_point": correct}

	proof, err := OpenCombinations(ck, []*LinearCombination{lc}, polys, comsByLabel, nil, qs, evals)
	require.NoError(t, err)

	var wrong fr.Element
	wrong.Add(&correct, new(fr.Element).SetOne())
	badEvals := Evaluations{"w_at_point": wrong}

	ok, err := CheckCombinations(vk, []*LinearCombination{lc}, comsByLabel, qs, badEvals, proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDownloadPowersForFailsBeyondMaxDegree(t *testing.T) {
	srs, err := LoadSRS(16)
	require.NoError(t, err)
	err = srs.DownloadPowersFor(0, 1<<20)
	require.ErrorIs(t, err, ErrSRSCannotGrow)
}

func TestEvaluationsToFieldElementsIsOrderedByLabel(t *testing.T) {
	a, b, c := fr.NewElement(1), fr.NewElement(2), fr.NewElement(3)
	e := Evaluations{"zeta": a, "alpha": b, "beta": c}
	got := e.ToFieldElements()
	require.Len(t, got, 3)
	require.True(t, got[0].Equal(&b)) // alpha
	require.True(t, got[1].Equal(&c)) // beta
	require.True(t, got[2].Equal(&a)) // zeta
}
