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
	"testing"

	"github.com/BaoNinh2808/marlin/ahp/bls12377"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const iterations = 10

// multiplyCircuit mirrors the Rust test fixture: a chain of num constraints
// a*b=c, where a and b are fixed witnesses and c is the sole public input.
type multiplyCircuit struct {
	a, b           fr.Element
	numConstraints int
	numVariables   int
}

func (c *multiplyCircuit) Synthesize(cs *ahp.ConstraintSystem) error {
	av := cs.Alloc(c.a)
	bv := cs.Alloc(c.b)
	var cval fr.Element
	cval.Mul(&c.a, &c.b)
	cv := cs.AllocInput(cval)
	for i := 0; i < c.numConstraints; i++ {
		cs.Enforce(
			ahp.LinearCombination{{Coeff: fr.One(), Variable: av}},
			ahp.LinearCombination{{Coeff: fr.One(), Variable: bv}},
			ahp.LinearCombination{{Coeff: fr.One(), Variable: cv}},
		)
	}
	for i := 0; i < c.numVariables-2; i++ {
		cs.Alloc(fr.NewElement(uint64(i + 1)))
	}
	return nil
}

func setupTestCircuit(t *testing.T, numConstraints, numVariables int) (*CircuitProvingKey, *CircuitVerifyingKey) {
	t.Helper()
	a := fr.NewElement(3)
	b := fr.NewElement(7)
	circuit := &multiplyCircuit{a: a, b: b, numConstraints: numConstraints, numVariables: numVariables}

	srs, err := UniversalSetup(1 << 12)
	require.NoError(t, err)
	pk, vk, err := CircuitSetup(srs, MarlinMode{}, circuit)
	require.NoError(t, err)
	return pk, vk
}

func synthesizeInstance(t *testing.T, a, b fr.Element, numConstraints, numVariables int) *ahp.ConstraintSystem {
	t.Helper()
	circuit := &multiplyCircuit{a: a, b: b, numConstraints: numConstraints, numVariables: numVariables}
	cs := ahp.NewConstraintSystem()
	require.NoError(t, circuit.Synthesize(cs))
	return cs
}

func TestCompleteness(t *testing.T) {
	for iter := 0; iter < iterations; iter++ {
		pk, vk := setupTestCircuit(t, 25, 25)
		inst := synthesizeInstance(t, fr.NewElement(3), fr.NewElement(7), 25, 25)

		proof, err := ProveBatchWithTerminator(MarlinMode{}, []*CircuitProvingKey{pk}, [][]*ahp.ConstraintSystem{{inst}}, NewTerminator())
		require.NoError(t, err)

		ok, err := VerifyBatchPrepared(MarlinMode{}, []*CircuitVerifyingKey{vk}, [][][]fr.Element{{inst.PublicInputs()}}, proof)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestZKModeConsistency(t *testing.T) {
	pk, vk := setupTestCircuit(t, 16, 16)
	inst := synthesizeInstance(t, fr.NewElement(3), fr.NewElement(7), 16, 16)

	proof, err := ProveBatchWithTerminator(MarlinMode{ZK: true}, []*CircuitProvingKey{pk}, [][]*ahp.ConstraintSystem{{inst}}, NewTerminator())
	require.NoError(t, err)

	ok, err := VerifyBatchPrepared(MarlinMode{ZK: true}, []*CircuitVerifyingKey{vk}, [][][]fr.Element{{inst.PublicInputs()}}, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestZKModeConsistencyMismatch checks that a proof built in ZK mode is
// rejected when verified against a non-ZK mode claim (and vice versa), even
// though every cryptographic opening in it is otherwise valid: the oracles'
// own hiding flag must agree with the mode the verifier is told to expect.
func TestZKModeConsistencyMismatch(t *testing.T) {
	pk, vk := setupTestCircuit(t, 16, 16)
	inst := synthesizeInstance(t, fr.NewElement(3), fr.NewElement(7), 16, 16)

	proof, err := ProveBatchWithTerminator(MarlinMode{ZK: true}, []*CircuitProvingKey{pk}, [][]*ahp.ConstraintSystem{{inst}}, NewTerminator())
	require.NoError(t, err)

	ok, err := VerifyBatchPrepared(MarlinMode{}, []*CircuitVerifyingKey{vk}, [][][]fr.Element{{inst.PublicInputs()}}, proof)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestPublicInputBindingRejectsWrongInput checks that a proof is bound to
// the specific public input it was built for: verifying it against any
// other public input assignment must fail, not merely succeed because the
// instance count matches.
func TestPublicInputBindingRejectsWrongInput(t *testing.T) {
	pk, vk := setupTestCircuit(t, 16, 16)
	inst := synthesizeInstance(t, fr.NewElement(3), fr.NewElement(7), 16, 16)

	proof, err := ProveBatchWithTerminator(MarlinMode{}, []*CircuitProvingKey{pk}, [][]*ahp.ConstraintSystem{{inst}}, NewTerminator())
	require.NoError(t, err)

	wrongPublicInput := []fr.Element{fr.NewElement(999)}
	ok, err := VerifyBatchPrepared(MarlinMode{}, []*CircuitVerifyingKey{vk}, [][][]fr.Element{{wrongPublicInput}}, proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCertificateRoundTrip(t *testing.T) {
	pk, vk := setupTestCircuit(t, 16, 16)
	circuit := &multiplyCircuit{a: fr.NewElement(3), b: fr.NewElement(7), numConstraints: 16, numVariables: 16}
	cert, err := ProveVK(pk)
	require.NoError(t, err)
	ok, err := VerifyVK(circuit, vk, cert)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestCertificateRejectsWrongCircuit checks that a certificate does not
// merely prove internal self-consistency: checking it against a
// differently-shaped circuit (so its honestly re-indexed oracles disagree
// with what vk actually commits to) must fail.
func TestCertificateRejectsWrongCircuit(t *testing.T) {
	pk, vk := setupTestCircuit(t, 16, 16)
	cert, err := ProveVK(pk)
	require.NoError(t, err)

	wrongCircuit := &multiplyCircuit{a: fr.NewElement(3), b: fr.NewElement(7), numConstraints: 8, numVariables: 8}
	ok, err := VerifyVK(wrongCircuit, vk, cert)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOversizeCircuit(t *testing.T) {
	circuit := &multiplyCircuit{a: fr.NewElement(3), b: fr.NewElement(7), numConstraints: 4096, numVariables: 4096}
	srs, err := UniversalSetup(128)
	require.NoError(t, err)
	_, _, err = CircuitSetup(srs, MarlinMode{}, circuit)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrIndexTooLarge))
}

func TestTermination(t *testing.T) {
	pk, _ := setupTestCircuit(t, 16, 16)
	inst := synthesizeInstance(t, fr.NewElement(3), fr.NewElement(7), 16, 16)

	term := NewTerminator()
	term.Set()
	_, err := ProveBatchWithTerminator(MarlinMode{}, []*CircuitProvingKey{pk}, [][]*ahp.ConstraintSystem{{inst}}, term)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTerminated))
}

func TestBatchedHeterogeneousCircuitsRequireMatchingDegree(t *testing.T) {
	small := &multiplyCircuit{a: fr.NewElement(2), b: fr.NewElement(3), numConstraints: 4, numVariables: 4}
	large := &multiplyCircuit{a: fr.NewElement(2), b: fr.NewElement(3), numConstraints: 512, numVariables: 512}

	srs, err := UniversalSetup(1 << 12)
	require.NoError(t, err)

	_, _, err = BatchCircuitSetup(srs, MarlinMode{}, []ahp.ConstraintSynthesizer{small, large})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBatchSizeMismatch))
}

// TestBatchedHeterogeneousInstanceCountsSucceed exercises a batch of two
// distinct circuits whose trimmed committer keys happen to share one
// supported degree, proved with different numbers of instances each: two
// instances of the first circuit and one of the second. This is the
// successful batched prove/verify path a batch operation exists for, not
// merely the setup-time degree-mismatch rejection TestBatchedHeterogeneousCircuitsRequireMatchingDegree
// exercises.
func TestBatchedHeterogeneousInstanceCountsSucceed(t *testing.T) {
	circuitA := &multiplyCircuit{a: fr.NewElement(3), b: fr.NewElement(7), numConstraints: 8, numVariables: 8}
	circuitB := &multiplyCircuit{a: fr.NewElement(5), b: fr.NewElement(11), numConstraints: 4, numVariables: 14}

	srs, err := UniversalSetup(1 << 12)
	require.NoError(t, err)

	pks, vks, err := BatchCircuitSetup(srs, MarlinMode{}, []ahp.ConstraintSynthesizer{circuitA, circuitB})
	require.NoError(t, err)
	require.NotEqual(t, pks[0].Index.Hash, pks[1].Index.Hash)

	instA1 := synthesizeInstance(t, fr.NewElement(3), fr.NewElement(7), 8, 8)
	instA2 := synthesizeInstance(t, fr.NewElement(3), fr.NewElement(7), 8, 8)
	instB1 := synthesizeInstance(t, fr.NewElement(5), fr.NewElement(11), 4, 14)

	instances := [][]*ahp.ConstraintSystem{{instA1, instA2}, {instB1}}
	proof, err := ProveBatchWithTerminator(MarlinMode{}, pks, instances, NewTerminator())
	require.NoError(t, err)

	publicInputs := [][][]fr.Element{
		{instA1.PublicInputs(), instA2.PublicInputs()},
		{instB1.PublicInputs()},
	}
	ok, err := VerifyBatchPrepared(MarlinMode{}, vks, publicInputs, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCircuitLookupNotFound(t *testing.T) {
	pk, vk := setupTestCircuit(t, 16, 16)
	other := &multiplyCircuit{a: fr.NewElement(2), b: fr.NewElement(3), numConstraints: 8, numVariables: 8}
	cs := ahp.NewConstraintSystem()
	require.NoError(t, other.Synthesize(cs))
	otherIndex, err := ahp.Index(cs)
	require.NoError(t, err)

	_, err = FindProvingKey([]*CircuitProvingKey{pk}, otherIndex.Hash)
	require.True(t, errors.Is(err, ErrCircuitNotFound))

	_, err = FindVerifyingKey([]*CircuitVerifyingKey{vk}, otherIndex.Hash)
	require.True(t, errors.Is(err, ErrCircuitNotFound))
}

func TestProofMarshalRoundTrip(t *testing.T) {
	pk, vk := setupTestCircuit(t, 8, 8)
	inst := synthesizeInstance(t, fr.NewElement(3), fr.NewElement(7), 8, 8)

	proof, err := ProveBatchWithTerminator(MarlinMode{}, []*CircuitProvingKey{pk}, [][]*ahp.ConstraintSystem{{inst}}, NewTerminator())
	require.NoError(t, err)

	data, err := proof.MarshalBinary()
	require.NoError(t, err)

	var decoded Proof
	require.NoError(t, decoded.UnmarshalBinary(data))

	if diff := cmp.Diff(len(proof.Commitments.First), len(decoded.Commitments.First)); diff != "" {
		t.Fatalf("commitment count mismatch: %s", diff)
	}

	ok, err := VerifyBatchPrepared(MarlinMode{}, []*CircuitVerifyingKey{vk}, [][][]fr.Element{{inst.PublicInputs()}}, &decoded)
	require.NoError(t, err)
	require.True(t, ok)
}
