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
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fft"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// CircuitInfo records a circuit's arithmetization sizes: everything the
// setup and verifier need to size domains and degree bounds without holding
// the full index.
type CircuitInfo struct {
	NumPublicInputs int
	NumWitness      int
	NumConstraints  int
	NumNonZeroA     int
	NumNonZeroB     int
	NumNonZeroC     int
}

// ConstraintDomainSize returns the size of the FFT domain H used to
// interpolate the constraint-indexed polynomials (z_a, z_b, row/col/val),
// the next power of two at or above NumConstraints (and at or above
// NumPublicInputs+NumWitness+1, matching the Rust source's
// `max(num_constraints, num_variables)` domain sizing).
func (ci CircuitInfo) ConstraintDomainSize() uint64 {
	numVars := ci.NumPublicInputs + ci.NumWitness + 1
	n := ci.NumConstraints
	if numVars > n {
		n = numVars
	}
	return nextPowerOfTwo(uint64(n))
}

// DomainGenerator returns the multiplicative generator of the FFT domain H
// used to interpolate the constraint-indexed polynomials: the value g such
// that H = {g^0, g^1, ..., g^(n-1)} for n = ConstraintDomainSize(). Callers
// use this to derive the fixed Lagrange-basis points the witness oracle's
// evaluations are pinned to, independent of any Fiat-Shamir challenge.
func (ci CircuitInfo) DomainGenerator() fr.Element {
	return fft.NewDomain(ci.ConstraintDomainSize()).Generator
}

// NonZeroDomainSize returns the domain size for matrix M's row/col/val
// arithmetization.
func nonZeroDomainSize(numNonZero int) uint64 {
	return nextPowerOfTwo(uint64(numNonZero))
}

func nextPowerOfTwo(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

// sparseMatrix is a row-major sparse R1CS matrix extracted from a
// LinearCombination slice.
type sparseMatrix struct {
	rows [][]sparseEntry
}

type sparseEntry struct {
	col   int
	value fr.Element
}

func toSparse(lcs []LinearCombination) sparseMatrix {
	m := sparseMatrix{rows: make([][]sparseEntry, len(lcs))}
	for i, lc := range lcs {
		row := make([]sparseEntry, 0, len(lc))
		for _, t := range lc {
			col := matrixColumn(t.Variable)
			row = append(row, sparseEntry{col: col, value: t.Coeff})
		}
		m.rows[i] = row
	}
	return m
}

// matrixColumn assigns a matrix column index to a variable: column 0 is the
// constant 1, columns [1, numPublicInputs] are public inputs, and the rest
// are witness variables, matching the Rust source's `z = (1, x, w)` layout.
func matrixColumn(v Variable) int {
	switch v.kind {
	case varConstantOne:
		return 0
	case varPublicInput:
		return 1 + v.index
	default:
		return v.index // offset added by caller once numPublicInputs is known
	}
}

func (m sparseMatrix) numNonZero() int {
	n := 0
	for _, row := range m.rows {
		n += len(row)
	}
	return n
}

// CircuitHash is a circuit's content identity: a 32-byte digest of its
// sizing parameters and index oracle polynomials, stable across processes
// and serialization round-trips. Two circuits that index to the same Hash
// are, for this core's purposes, the same circuit — the canonical key a
// batch operation uses instead of positional array indexing.
type CircuitHash [32]byte

// IndexedCircuit is the output of Index: the circuit's public sizing info
// plus the row/col/val oracle polynomials for each of the three R1CS
// matrices, interpolated over each matrix's own nonzero-entry domain. These
// are the polynomials the Setup Coordinator commits to once, at indexing
// time — spec.md's "index polynomials".
type IndexedCircuit struct {
	Info CircuitInfo
	Hash CircuitHash

	rowA, colA, valA []fr.Element
	rowB, colB, valB []fr.Element
	rowC, colC, valC []fr.Element

	// numPublicInputs is carried alongside the witness offset used when
	// translating witness variable indices into matrix columns.
	numPublicInputs int
}

// computeCircuitHash hashes a circuit's sizing integers and the coefficients
// of its nine index oracle polynomials, in the fixed order IndexOracles
// returns them, so that the hash depends only on the circuit's
// arithmetization and not on incidental details like map iteration order.
func computeCircuitHash(info CircuitInfo, oracles []LabeledPolynomial) CircuitHash {
	h := sha256.New()
	var buf [8]byte
	writeInt := func(n int) {
		binary.BigEndian.PutUint64(buf[:], uint64(n))
		h.Write(buf[:])
	}
	writeInt(info.NumPublicInputs)
	writeInt(info.NumWitness)
	writeInt(info.NumConstraints)
	writeInt(info.NumNonZeroA)
	writeInt(info.NumNonZeroB)
	writeInt(info.NumNonZeroC)
	for _, o := range oracles {
		h.Write([]byte(o.Info.Label))
		for _, c := range o.Poly {
			b := c.Bytes()
			h.Write(b[:])
		}
	}
	var out CircuitHash
	copy(out[:], h.Sum(nil))
	return out
}

// Index runs the AHP indexer over a synthesized constraint system: the
// preprocessing step that is run once per circuit and whose output
// (row/col/val polynomials) is committed to in CircuitSetup.
func Index(cs *ConstraintSystem) (*IndexedCircuit, error) {
	if cs.NumConstraints() == 0 {
		return nil, fmt.Errorf("ahp: index: circuit has no constraints")
	}
	offset := 1 + cs.NumPublicInputs
	adjust := func(lcs []LinearCombination) sparseMatrix {
		m := toSparse(lcs)
		for i, row := range m.rows {
			for j, e := range row {
				if lcs[i][j].Variable.kind == varWitness {
					row[j].col = e.col + offset
				}
			}
		}
		return m
	}
	mA := adjust(cs.A)
	mB := adjust(cs.B)
	mC := adjust(cs.C)

	rowA, colA, valA := arithmetize(mA)
	rowB, colB, valB := arithmetize(mB)
	rowC, colC, valC := arithmetize(mC)

	info := CircuitInfo{
		NumPublicInputs: cs.NumPublicInputs,
		NumWitness:      cs.NumWitness,
		NumConstraints:  cs.NumConstraints(),
		NumNonZeroA:     mA.numNonZero(),
		NumNonZeroB:     mB.numNonZero(),
		NumNonZeroC:     mC.numNonZero(),
	}
	indexed := &IndexedCircuit{
		Info:            info,
		rowA:            rowA, colA: colA, valA: valA,
		rowB: rowB, colB: colB, valB: valB,
		rowC: rowC, colC: colC, valC: valC,
		numPublicInputs: cs.NumPublicInputs,
	}
	indexed.Hash = computeCircuitHash(info, indexed.IndexOracles())
	return indexed, nil
}

// arithmetize interpolates a sparse matrix's (row, col, value) triples, one
// per nonzero entry, over an FFT domain sized to the nonzero count —
// producing the row/col/val oracle polynomials the Rust source's indexer
// computes via `arithmetize_matrix`.
func arithmetize(m sparseMatrix) (row, col, val []fr.Element) {
	nnz := m.numNonZero()
	size := nonZeroDomainSize(nnz)
	domain := fft.NewDomain(size)

	rowEvals := make([]fr.Element, size)
	colEvals := make([]fr.Element, size)
	valEvals := make([]fr.Element, size)

	idx := 0
	for r, entries := range m.rows {
		for _, e := range entries {
			rowEvals[idx].SetInt64(int64(r))
			colEvals[idx].SetInt64(int64(e.col))
			valEvals[idx] = e.value
			idx++
		}
	}
	for ; idx < int(size); idx++ {
		// pad with the zero row/col index and a zero value: contributes
		// nothing to the matrix but keeps the domain a full power of two.
		rowEvals[idx].SetZero()
		colEvals[idx].SetZero()
		valEvals[idx].SetZero()
	}

	domain.FFTInverse(rowEvals, fft.DIF)
	fft.BitReverse(rowEvals)
	domain.FFTInverse(colEvals, fft.DIF)
	fft.BitReverse(colEvals)
	domain.FFTInverse(valEvals, fft.DIF)
	fft.BitReverse(valEvals)

	return rowEvals, colEvals, valEvals
}

// EvaluateIndexPolynomials independently evaluates ic's nine index oracles at
// point, in IndexOracles' fixed order. This is what the Certificate
// Subprotocol's verifier calls against a freshly re-indexed circuit to get
// honest evaluations to check a claimed commitment against, rather than
// trusting whatever the prover reports.
func EvaluateIndexPolynomials(ic *IndexedCircuit, point fr.Element) []fr.Element {
	oracles := ic.IndexOracles()
	out := make([]fr.Element, len(oracles))
	for i, o := range oracles {
		out[i] = evalAt(o.Poly, point)
	}
	return out
}

// GetDegreeBounds returns the coefficient-support degree bounds the PCS must
// trim for, for every index polynomial that Marlin commits to with an
// explicit bound: here, the row/col/val polynomials of all three matrices.
func (ic *IndexedCircuit) GetDegreeBounds() []uint64 {
	bounds := make([]uint64, 0, 9)
	for _, p := range [][]fr.Element{
		ic.rowA, ic.colA, ic.valA,
		ic.rowB, ic.colB, ic.valB,
		ic.rowC, ic.colC, ic.valC,
	} {
		bounds = append(bounds, uint64(len(p)))
	}
	return bounds
}

// IndexOracles returns the nine labeled index polynomials, in the fixed
// order the Setup Coordinator commits to them (matrix-major, then
// row/col/val), with labels matching spec.md's `"row_a"`, `"col_a"`, ...
// naming convention.
func (ic *IndexedCircuit) IndexOracles() []LabeledPolynomial {
	mk := func(label string, poly []fr.Element) LabeledPolynomial {
		return LabeledPolynomial{
			Info: PolynomialInfo{Label: label, DegreeBound: uint64(len(poly)), Hiding: false},
			Poly: poly,
		}
	}
	return []LabeledPolynomial{
		mk("row_a", ic.rowA), mk("col_a", ic.colA), mk("val_a", ic.valA),
		mk("row_b", ic.rowB), mk("col_b", ic.colB), mk("val_b", ic.valB),
		mk("row_c", ic.rowC), mk("col_c", ic.colC), mk("val_c", ic.valC),
	}
}
