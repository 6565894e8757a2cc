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
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/stretchr/testify/require"
)

// buildTestCircuit mirrors the Rust source's test circuit: a*b=c chained
// through num_constraints multiplication gates.
func buildTestCircuit(t *testing.T, numConstraints int) *ConstraintSystem {
	t.Helper()
	cs := NewConstraintSystem()
	a := fr.NewElement(3)
	b := fr.NewElement(5)
	av := cs.Alloc(a)
	bv := cs.Alloc(b)
	var c fr.Element
	c.Mul(&a, &b)
	cv := cs.AllocInput(c)

	cs.Enforce(
		LinearCombination{{Coeff: fr.One(), Variable: av}},
		LinearCombination{{Coeff: fr.One(), Variable: bv}},
		LinearCombination{{Coeff: fr.One(), Variable: cv}},
	)
	for i := 1; i < numConstraints; i++ {
		cs.Enforce(
			LinearCombination{{Coeff: fr.One(), Variable: av}},
			LinearCombination{{Coeff: fr.One(), Variable: bv}},
			LinearCombination{{Coeff: fr.One(), Variable: cv}},
		)
	}
	return cs
}

func TestIndexProducesExpectedOracleLabels(t *testing.T) {
	cs := buildTestCircuit(t, 4)
	idx, err := Index(cs)
	require.NoError(t, err)
	require.Equal(t, 4, idx.Info.NumConstraints)

	oracles := idx.IndexOracles()
	require.Len(t, oracles, 9)
	labels := map[string]bool{}
	for _, o := range oracles {
		labels[o.Info.Label] = true
	}
	for _, want := range []string{"row_a", "col_a", "val_a", "row_b", "col_b", "val_b", "row_c", "col_c", "val_c"} {
		require.True(t, labels[want], "missing label %s", want)
	}
}

func TestProverRoundsProduceExpectedLabels(t *testing.T) {
	cs := buildTestCircuit(t, 4)
	idx, err := Index(cs)
	require.NoError(t, err)

	ps, err := NewProverState(idx, false, []*ConstraintSystem{cs})
	require.NoError(t, err)

	first := ps.FirstRound()
	require.Len(t, first, 3)

	msg1 := VerifierFirstMessage{EtaA: fr.NewElement(1), EtaB: fr.NewElement(2), EtaC: fr.NewElement(3)}
	second := ps.SecondRound(msg1)
	require.Len(t, second, 2)

	msg2 := VerifierSecondMessage{Beta: fr.NewElement(7)}
	third, thirdMsg := ps.ThirdRound(msg2)
	require.Len(t, third, 3) // g_a,g_b,g_c
	require.IsType(t, ProverThirdMessage{}, thirdMsg)

	fourth := ps.FourthRound()
	require.Len(t, fourth, 1) // h_2

	msg4 := VerifierFourthMessage{Point: fr.NewElement(11)}
	specs := ConstructLinearCombinations([][]fr.Element{cs.PublicInputs()}, idx.Info.DomainGenerator(), msg2.Beta, msg4)
	require.NotEmpty(t, specs)
	found := false
	for _, s := range specs {
		if s.Label == "circuit_check" {
			found = true
		}
	}
	require.True(t, found)
}

func TestConstraintSystemFullAssignmentSatisfies(t *testing.T) {
	cs := buildTestCircuit(t, 3)
	zA, zB, err := cs.FullAssignment()
	require.NoError(t, err)
	require.Len(t, zA, 3)
	require.Len(t, zB, 3)
	for i := range zA {
		var zc fr.Element
		zc.Mul(&zA[i], &zB[i])
		require.True(t, zc.Equal(&cs.PublicInputs()[0]))
	}
}
