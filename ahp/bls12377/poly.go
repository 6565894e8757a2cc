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

import "github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

// polyAdd returns a+b, coefficient-wise, zero-extended to the longer length.
func polyAdd(a, b []fr.Element) []fr.Element {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]fr.Element, n)
	copy(out, a)
	for i, c := range b {
		out[i].Add(&out[i], &c)
	}
	return out
}

// polyScale returns c*a.
func polyScale(a []fr.Element, c fr.Element) []fr.Element {
	out := make([]fr.Element, len(a))
	for i := range a {
		out[i].Mul(&a[i], &c)
	}
	return out
}

// polyMul returns the full convolution a*b. Used only on small,
// index-bounded polynomials here, so the O(len(a)*len(b)) cost is
// acceptable.
func polyMul(a, b []fr.Element) []fr.Element {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]fr.Element, len(a)+len(b)-1)
	for i, ca := range a {
		for j, cb := range b {
			var t fr.Element
			t.Mul(&ca, &cb)
			out[i+j].Add(&out[i+j], &t)
		}
	}
	return out
}

// divModByVanishing divides f by the vanishing polynomial of a size-n
// multiplicative domain, Z(X) = X^n - 1, returning quotient q and remainder
// r such that f = q*(X^n-1) + r, deg(r) < n. This is the reduction every
// AHP sumcheck round uses to split a sum-over-the-domain identity into a
// quotient (committed with an explicit degree bound) and a low-degree
// remainder.
func divModByVanishing(f []fr.Element, n int) (q, r []fr.Element) {
	coeffs := make([]fr.Element, len(f))
	copy(coeffs, f)
	if len(coeffs) <= n {
		return nil, coeffs
	}
	q = make([]fr.Element, len(coeffs)-n)
	for i := len(coeffs) - 1; i >= n; i-- {
		c := coeffs[i]
		q[i-n] = c
		coeffs[i-n].Add(&coeffs[i-n], &c)
		coeffs[i].SetZero()
	}
	return q, coeffs[:n]
}

// vanishingPoly returns the coefficients of Z(X) = X^n - 1, the vanishing
// polynomial of a size-n multiplicative domain: the unique lowest-degree
// polynomial that is zero at every element of that domain.
func vanishingPoly(n int) []fr.Element {
	v := make([]fr.Element, n+1)
	v[0].SetOne()
	v[0].Neg(&v[0])
	v[n].SetOne()
	return v
}

// evalAt evaluates a coefficient-form polynomial at x via Horner's method.
func evalAt(p []fr.Element, x fr.Element) fr.Element {
	var out fr.Element
	for i := len(p) - 1; i >= 0; i-- {
		out.Mul(&out, &x)
		out.Add(&out, &p[i])
	}
	return out
}

// shiftUpByOne returns a polynomial g such that X*g(X) = p(X) - p(0), i.e.
// the "divide out the constant term and X" step used to turn a sumcheck
// remainder into the oracle the verifier actually queries.
func shiftUpByOne(p []fr.Element) (g []fr.Element, constTerm fr.Element) {
	if len(p) == 0 {
		return nil, fr.Element{}
	}
	constTerm = p[0]
	if len(p) == 1 {
		return nil, constTerm
	}
	return append([]fr.Element{}, p[1:]...), constTerm
}
