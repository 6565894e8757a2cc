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

// Package sponge implements the Transcript Sponge Wrapper used to derive the
// Marlin Fiat-Shamir challenges: a thin, deterministic absorb/squeeze
// discipline built directly on crypto/sha256, in the style of gnark-crypto's
// fiat-shamir primitive (which it does not import).
//
// gnark-crypto's fiatshamir.Transcript (see gnark-crypto/fiat-shamir) binds
// named challenges one at a time and computes them on demand, which is the
// right shape for PLONK's fixed challenge names ("gamma", "beta", "alpha",
// "zeta") but not for Marlin, where the number of absorbed elements and
// squeezed challenges both depend on the batch shape. Transcript generalizes
// the same idea — a running hash.Hash state, ratcheted between squeezes — to
// an arbitrary sequence of absorbs and squeezes.
package sponge

import (
	"crypto/sha256"
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// ProtocolName is the personalization string absorbed at the start of every
// Marlin transcript.
const ProtocolName = "MARLIN-2019"

// Transcript is the Marlin Transcript Sponge Wrapper. It is not safe for
// concurrent use: a single proof or verification owns one Transcript.
type Transcript struct {
	h hash.Hash
}

// New creates an empty transcript. The marlin package's initSponge and
// initSpongeForCertificate build the two initialization sequences on top of
// it.
func New() *Transcript {
	return &Transcript{h: sha256.New()}
}

// AbsorbBytes feeds raw bytes into the sponge state.
func (t *Transcript) AbsorbBytes(data []byte) {
	// hash.Hash.Write never returns an error per its documented contract.
	_, _ = t.h.Write(data)
}

// AbsorbNativeFieldElements absorbs elements of the sponge's native field
// (here, the same BLS12-377 scalar field the AHP and PCS operate over) in
// Montgomery-canonical byte order, positionally.
func (t *Transcript) AbsorbNativeFieldElements(elems []fr.Element) {
	for i := range elems {
		b := elems[i].Bytes()
		t.AbsorbBytes(b[:])
	}
}

// AbsorbNonNativeFieldElements absorbs elements that live outside the
// sponge's native field (the scalar field Fr, when the sponge runs over the
// base field Fq, or vice versa). This single-curve instantiation has no
// independent Fq sponge, so non-native elements are absorbed through the
// same canonical byte encoding as native ones, tagged by a one-byte domain
// separator so that a native and a non-native absorption of the same value
// never collide in the transcript.
func (t *Transcript) AbsorbNonNativeFieldElements(elems []fr.Element) {
	for i := range elems {
		t.AbsorbBytes([]byte{0x01})
		b := elems[i].Bytes()
		t.AbsorbBytes(b[:])
	}
}

// AbsorbU64LE absorbs n as 8 little-endian bytes, per spec.md §6's
// instance-batch-size encoding.
func (t *Transcript) AbsorbU64LE(n uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(n >> (8 * i))
	}
	t.AbsorbBytes(buf[:])
}

// SqueezeNonNativeFieldElements derives n field-element challenges. Each
// squeeze ratchets the sponge: the digest produced for challenge i is
// re-absorbed before deriving challenge i+1, so distinct squeeze calls (and
// distinct positions within one call) never repeat a digest.
func (t *Transcript) SqueezeNonNativeFieldElements(n int) []fr.Element {
	out := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		digest := t.h.Sum(nil)
		t.AbsorbBytes(digest)
		out[i].SetBytes(digest)
	}
	return out
}

// SqueezeNonNativeFieldElement is the n=1 convenience form.
func (t *Transcript) SqueezeNonNativeFieldElement() fr.Element {
	return t.SqueezeNonNativeFieldElements(1)[0]
}
