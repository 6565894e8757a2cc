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

// Package sonicpc is the Marlin core's PCS collaborator: a KZG-style,
// Sonic-flavored polynomial commitment scheme supporting batched opening of
// labeled linear combinations, built directly on gnark-crypto's BLS12-377
// KZG primitives (Commit/Open/Verify, see gnark-crypto's
// ecc/bls12-377/fr/kzg).
//
// This mirrors the collaborator named `SonicKZG10` in the Rust source this
// spec is distilled from (polycommit::sonic_pc::SonicKZG10); the name
// `sonicpc` is chosen so it reads as a Go package rather than a transliterated
// Rust type.
package sonicpc

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/kzg"
)

// Commitment is a single KZG commitment: a G1 point.
type Commitment = kzg.Digest

// Randomness is the additive blinding scalar used when committing under a
// hiding bound. The zero value is EmptyRandomness, the sentinel required by
// spec.md's "empty-randomness law" in non-zero-knowledge mode.
type Randomness struct {
	Blind fr.Element
}

// EmptyRandomness is the sentinel randomness used for every commitment made
// in non-zero-knowledge mode.
func EmptyRandomness() Randomness { return Randomness{} }

// IsEmpty reports whether r equals the empty-randomness sentinel.
func (r Randomness) IsEmpty() bool {
	var zero fr.Element
	return r.Blind.Equal(&zero)
}

// PolynomialInfo describes a labeled polynomial's commitment parameters: the
// degree bound (0 meaning "no explicit bound, use the polynomial's own
// degree") and whether the commitment to it must be hiding.
type PolynomialInfo struct {
	Label       string
	DegreeBound uint64
	Hiding      bool
}

// LabeledPolynomial pairs a dense, coefficient-form polynomial with its
// PolynomialInfo.
type LabeledPolynomial struct {
	Info PolynomialInfo
	Poly []fr.Element
}

// Label returns the polynomial's label.
func (p LabeledPolynomial) Label() string { return p.Info.Label }

// Evaluate evaluates the polynomial at x using Horner's method.
func (p LabeledPolynomial) Evaluate(x fr.Element) fr.Element {
	return evalPoly(p.Poly, x)
}

func evalPoly(coeffs []fr.Element, x fr.Element) fr.Element {
	var result fr.Element
	for i := len(coeffs) - 1; i >= 0; i-- {
		result.Mul(&result, &x)
		result.Add(&result, &coeffs[i])
	}
	return result
}

// LabeledCommitment pairs a Commitment with the PolynomialInfo of the
// polynomial it commits to.
type LabeledCommitment struct {
	Info       PolynomialInfo
	Commitment Commitment
}

func (c LabeledCommitment) Label() string { return c.Info.Label }

// LinearCombinationTerm is one coeff*poly_label summand of a LinearCombination.
type LinearCombinationTerm struct {
	Coeff     fr.Element
	PolyLabel string
}

// LinearCombination is a named weighted sum of labeled polynomials that the
// PCS can open and check as a single virtual polynomial, per spec.md's
// "Linear combination (LC)" glossary entry.
type LinearCombination struct {
	Label string
	Terms []LinearCombinationTerm
}

// EmptyLinearCombination starts a new, term-less linear combination under
// the given label (mirrors the Rust source's LinearCombination::empty).
func EmptyLinearCombination(label string) *LinearCombination {
	return &LinearCombination{Label: label}
}

// Add appends a coeff*label term.
func (lc *LinearCombination) Add(coeff fr.Element, label string) *LinearCombination {
	lc.Terms = append(lc.Terms, LinearCombinationTerm{Coeff: coeff, PolyLabel: label})
	return lc
}

// QueryPoint names the point an LC is opened at (e.g. "challenge", "beta",
// "gamma*beta") alongside its field value.
type QueryPoint struct {
	PointLabel string
	Point      fr.Element
}

// QuerySet maps an LC label to the point it must be opened at.
type QuerySet map[string]QueryPoint

// Evaluations maps an LC label to its claimed value. Because a single LC
// label always maps to exactly one point within one proof, it is keyed by
// label alone; the point itself is the QuerySet entry of the same label
// (the Rust source keys by the (label, point) pair instead).
type Evaluations map[string]fr.Element

// ToFieldElements returns the evaluations ordered by label, for absorption
// into the transcript. Order matters: it must match prover and verifier.
func (e Evaluations) ToFieldElements() []fr.Element {
	labels := make([]string, 0, len(e))
	for l := range e {
		labels = append(labels, l)
	}
	sortStrings(labels)
	out := make([]fr.Element, 0, len(e))
	for _, l := range labels {
		out = append(out, e[l])
	}
	return out
}

func sortStrings(s []string) {
	// simple insertion sort: label sets here are small (bounded by the
	// number of query-set entries in one batch) and this avoids importing
	// sort for a handful of comparisons in the hot evaluation path.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
