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

// Package ahp is the Marlin core's AHP-for-R1CS collaborator: it indexes an
// R1CS circuit into oracle polynomials, and drives the prover/verifier
// message flow of the four-round Algebraic Holographic Proof, exactly the
// shape spec.md §1 calls out as a black-box external collaborator.
//
// No Go implementation of this AHP exists anywhere in the retrieved corpus
// (gnark's own backends are PLONK, not Marlin), so this package is a
// concretely implemented, Go-native reference: it reproduces the oracle
// layout, round structure, and linear-combination construction of the
// source algorithm faithfully enough to exercise every collaborator
// boundary spec.md names (indexer, prover rounds, verifier rounds, query
// sets, linear combinations), without reproducing the full sumcheck-based
// soundness argument's field arithmetic identities line-for-line the way
// the committed-polynomial *shapes* are reproduced.
package ahp

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// Variable names one cell of a constraint-system assignment: either the
// constant 1, a public input, or a witness value, addressed by index.
type Variable struct {
	kind  varKind
	index int
}

type varKind uint8

const (
	varConstantOne varKind = iota
	varPublicInput
	varWitness
)

// One is the constant-1 variable present in every constraint system.
var One = Variable{kind: varConstantOne}

// Term is a coefficient*variable summand of a LinearCombination.
type Term struct {
	Coeff    fr.Element
	Variable Variable
}

// LinearCombination is the left/right/output expression of one R1CS
// constraint: a weighted sum of variables.
type LinearCombination []Term

// ConstraintSystem accumulates R1CS variables and constraints. It mirrors
// the `cs.alloc`/`cs.alloc_input`/`cs.enforce` shape of the Rust source's
// ConstraintSystem trait.
type ConstraintSystem struct {
	NumPublicInputs int
	NumWitness      int
	A, B, C         []LinearCombination
	publicValues    []fr.Element
	witnessValues   []fr.Element
}

// NewConstraintSystem returns an empty constraint system. The constant-1
// input is implicit and not counted in NumPublicInputs.
func NewConstraintSystem() *ConstraintSystem {
	return &ConstraintSystem{}
}

// AllocInput allocates a public input variable with the given value.
func (cs *ConstraintSystem) AllocInput(value fr.Element) Variable {
	cs.publicValues = append(cs.publicValues, value)
	v := Variable{kind: varPublicInput, index: cs.NumPublicInputs}
	cs.NumPublicInputs++
	return v
}

// Alloc allocates a witness variable with the given value.
func (cs *ConstraintSystem) Alloc(value fr.Element) Variable {
	cs.witnessValues = append(cs.witnessValues, value)
	v := Variable{kind: varWitness, index: cs.NumWitness}
	cs.NumWitness++
	return v
}

// Enforce records the constraint a*b = c.
func (cs *ConstraintSystem) Enforce(a, b, c LinearCombination) {
	cs.A = append(cs.A, a)
	cs.B = append(cs.B, b)
	cs.C = append(cs.C, c)
}

// NumConstraints reports how many constraints have been enforced.
func (cs *ConstraintSystem) NumConstraints() int { return len(cs.A) }

// ConstraintSynthesizer is implemented by callers' circuits: generate_constraints
// in the Rust source, synthesize-into-cs here.
type ConstraintSynthesizer interface {
	// Synthesize allocates this circuit's variables and constraints into cs.
	Synthesize(cs *ConstraintSystem) error
}

// eval evaluates lc against a witness assignment (public values prefixed
// with the constant 1).
func (lc LinearCombination) eval(one fr.Element, pub, wit []fr.Element) fr.Element {
	var acc fr.Element
	for _, t := range lc {
		var val fr.Element
		switch t.Variable.kind {
		case varConstantOne:
			val = one
		case varPublicInput:
			val = pub[t.Variable.index]
		case varWitness:
			val = wit[t.Variable.index]
		}
		var term fr.Element
		term.Mul(&t.Coeff, &val)
		acc.Add(&acc, &term)
	}
	return acc
}

// FullAssignment evaluates every A/B/C row against the recorded witness,
// returning the z_a, z_b vectors (z_c is their pointwise product and is not
// separately committed, matching spec.md's oracle list).
func (cs *ConstraintSystem) FullAssignment() (zA, zB []fr.Element, err error) {
	if len(cs.A) != len(cs.B) || len(cs.A) != len(cs.C) {
		return nil, nil, fmt.Errorf("ahp: malformed constraint system: mismatched row counts")
	}
	one := fr.One()
	zA = make([]fr.Element, len(cs.A))
	zB = make([]fr.Element, len(cs.A))
	for i := range cs.A {
		zA[i] = cs.A[i].eval(one, cs.publicValues, cs.witnessValues)
		zB[i] = cs.B[i].eval(one, cs.publicValues, cs.witnessValues)
	}
	return zA, zB, nil
}

// PublicInputs returns the recorded public-input assignment, in allocation
// order (constant 1 not included).
func (cs *ConstraintSystem) PublicInputs() []fr.Element { return cs.publicValues }

// WitnessValues returns the recorded witness assignment.
func (cs *ConstraintSystem) WitnessValues() []fr.Element { return cs.witnessValues }

// PolynomialInfo mirrors sonicpc.PolynomialInfo without importing the pcs
// package: the AHP collaborator has no dependency on how its oracles are
// eventually committed.
type PolynomialInfo struct {
	Label       string
	DegreeBound uint64
	Hiding      bool
}

// LabeledPolynomial is a dense oracle polynomial produced by the indexer or
// the prover, paired with its commitment metadata.
type LabeledPolynomial struct {
	Info PolynomialInfo
	Poly []fr.Element
}
