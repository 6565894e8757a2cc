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
	"github.com/BaoNinh2808/marlin/ahp/bls12377"
	"github.com/BaoNinh2808/marlin/sponge"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// initSponge implements spec.md §4.A's `init_sponge`: a fresh transcript,
// personalized with the protocol name and the batch's instance counts per
// circuit, so that two batches proved against the same circuits but
// different numbers of instances never share a transcript prefix.
func initSponge(batchSizes []uint64) *sponge.Transcript {
	t := sponge.New()
	t.AbsorbBytes([]byte(ProtocolName))
	for _, n := range batchSizes {
		t.AbsorbU64LE(n)
	}
	return t
}

// initSpongeForCertificate implements `init_sponge_for_certificate`: the
// certificate subprotocol's transcript is personalized the same way but
// never absorbs a batch-size vector, since a certificate always covers
// exactly one circuit's committer key.
func initSpongeForCertificate() *sponge.Transcript {
	t := sponge.New()
	t.AbsorbBytes([]byte(ProtocolName))
	t.AbsorbBytes([]byte("certificate"))
	return t
}

// absorbPublicInputs implements spec.md §4.A item 1: after the index
// commitments have been absorbed, absorb every instance's public input
// vector (the length, so two differently-sized vectors never produce an
// ambiguous byte stream, followed by the values themselves) as non-native
// field elements. The vectors are absorbed as given: no leading 1 is added
// and they are not padded to the input domain size. publicInputs is grouped
// by circuit, in the same order the index commitments were absorbed in.
func absorbPublicInputs(t *sponge.Transcript, publicInputs [][][]fr.Element) {
	for _, group := range publicInputs {
		for _, inst := range group {
			t.AbsorbU64LE(uint64(len(inst)))
			t.AbsorbNonNativeFieldElements(inst)
		}
	}
}

// absorbProverThirdMessages absorbs each circuit's round-3 message (the
// matrices' claimed rational-sumcheck sums) as native field elements,
// binding the transcript to those claims before round 4 begins.
func absorbProverThirdMessages(t *sponge.Transcript, msgs []ahp.ProverThirdMessage) {
	for _, m := range msgs {
		t.AbsorbNativeFieldElements([]fr.Element{m.SumA, m.SumB, m.SumC})
	}
}

// absorbLabeledCommitments absorbs a slice of labeled commitments: the
// label (for domain separation) followed by the compressed commitment
// bytes, for every commitment in order. Mirrors the Rust source's
// `absorb_labeled`.
func absorbLabeledCommitments(t *sponge.Transcript, cs []labeledCommitmentLike) {
	for _, c := range cs {
		t.AbsorbBytes([]byte(c.Label()))
		b := c.Bytes()
		t.AbsorbBytes(b)
	}
}

// labeledCommitmentLike is satisfied by sonicpc.LabeledCommitment via the
// adapter in adapt.go, kept local so this file has no direct pcs
// import beyond what absorbing needs.
type labeledCommitmentLike interface {
	Label() string
	Bytes() []byte
}
