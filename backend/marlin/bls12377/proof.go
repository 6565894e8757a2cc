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
	"github.com/consensys/gnark-crypto/ecc/bls12-377/kzg"
	"github.com/fxamacker/cbor/v2"
)

// Commitments holds the four rounds of oracle commitments that make up a
// Marlin proof's Commitments record, per spec.md's data model. Round 3 and
// round 4 are kept separate — not folded into one "third round" — because
// the verifier derives no challenge between round 2's message and round 3's
// oracles, but does derive the opening point only after round 4's oracle has
// also been absorbed; collapsing the two removes a required absorb/squeeze
// cycle from the transcript.
type Commitments struct {
	First  []sonicpc.LabeledCommitment // per-instance w, z_a, z_b
	Second []sonicpc.LabeledCommitment // g_1, h_1
	Third  []sonicpc.LabeledCommitment // g_a, g_b, g_c
	Fourth []sonicpc.LabeledCommitment // h_2
}

// Proof is a complete, non-interactive Marlin proof for one batch: the
// commitments from all four prover rounds, the evaluations the prover
// claims for the verifier's query set, the PCS's combined opening proof,
// the per-circuit instance counts the proof was built for (so a verifier
// can size its own per-circuit public-input groups before replaying the
// transcript), and each circuit's round-3 message (the matrices' claimed
// rational-sumcheck sums).
type Proof struct {
	Commitments    Commitments
	Evaluations    sonicpc.Evaluations
	Opening        *sonicpc.BatchProof
	BatchSizes     []uint64
	ProverThirdMsg []ahp.ProverThirdMessage
}

type wireCommitment struct {
	Label       string
	DegreeBound uint64
	Bytes       []byte
}

type wireProof struct {
	First, Second, Third, Fourth []wireCommitment
	EvalLabels                   []string
	EvalBytes            [][]byte
	OpeningLabels        []string
	OpeningBytes         [][]byte
	BatchSizes           []uint64
	SumABytes            [][]byte
	SumBBytes            [][]byte
	SumCBytes            [][]byte
}

func toWireCommitments(cs []sonicpc.LabeledCommitment) []wireCommitment {
	out := make([]wireCommitment, len(cs))
	for i, c := range cs {
		b := c.Commitment.Bytes()
		out[i] = wireCommitment{Label: c.Info.Label, DegreeBound: c.Info.DegreeBound, Bytes: b[:]}
	}
	return out
}

func fromWireCommitments(ws []wireCommitment) ([]sonicpc.LabeledCommitment, error) {
	out := make([]sonicpc.LabeledCommitment, len(ws))
	for i, w := range ws {
		var c sonicpc.Commitment
		if _, err := c.SetBytes(w.Bytes); err != nil {
			return nil, fmt.Errorf("marlin: decoding commitment %q: %w", w.Label, err)
		}
		out[i] = sonicpc.LabeledCommitment{Info: sonicpc.PolynomialInfo{Label: w.Label, DegreeBound: w.DegreeBound}, Commitment: c}
	}
	return out, nil
}

// MarshalBinary encodes the proof as CBOR.
func (p *Proof) MarshalBinary() ([]byte, error) {
	w := wireProof{
		First:      toWireCommitments(p.Commitments.First),
		Second:     toWireCommitments(p.Commitments.Second),
		Third:      toWireCommitments(p.Commitments.Third),
		Fourth:     toWireCommitments(p.Commitments.Fourth),
		BatchSizes: p.BatchSizes,
	}
	for _, m := range p.ProverThirdMsg {
		a, b, c := m.SumA.Bytes(), m.SumB.Bytes(), m.SumC.Bytes()
		w.SumABytes = append(w.SumABytes, a[:])
		w.SumBBytes = append(w.SumBBytes, b[:])
		w.SumCBytes = append(w.SumCBytes, c[:])
	}
	for label, v := range p.Evaluations {
		b := v.Bytes()
		w.EvalLabels = append(w.EvalLabels, label)
		w.EvalBytes = append(w.EvalBytes, b[:])
	}
	if p.Opening != nil {
		for label, op := range p.Opening.Proofs {
			enc, err := cbor.Marshal(op)
			if err != nil {
				return nil, fmt.Errorf("marlin: encoding opening for %q: %w", label, err)
			}
			w.OpeningLabels = append(w.OpeningLabels, label)
			w.OpeningBytes = append(w.OpeningBytes, enc)
		}
	}
	return cbor.Marshal(w)
}

// UnmarshalBinary decodes a Proof produced by MarshalBinary.
func (p *Proof) UnmarshalBinary(data []byte) error {
	var w wireProof
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("marlin: decoding proof: %w", err)
	}
	var err error
	if p.Commitments.First, err = fromWireCommitments(w.First); err != nil {
		return err
	}
	if p.Commitments.Second, err = fromWireCommitments(w.Second); err != nil {
		return err
	}
	if p.Commitments.Third, err = fromWireCommitments(w.Third); err != nil {
		return err
	}
	if p.Commitments.Fourth, err = fromWireCommitments(w.Fourth); err != nil {
		return err
	}
	p.BatchSizes = w.BatchSizes
	p.ProverThirdMsg = make([]ahp.ProverThirdMessage, len(w.SumABytes))
	for i := range w.SumABytes {
		p.ProverThirdMsg[i].SumA.SetBytes(w.SumABytes[i])
		p.ProverThirdMsg[i].SumB.SetBytes(w.SumBBytes[i])
		p.ProverThirdMsg[i].SumC.SetBytes(w.SumCBytes[i])
	}
	p.Evaluations = make(sonicpc.Evaluations, len(w.EvalLabels))
	for i, label := range w.EvalLabels {
		var v fr.Element
		v.SetBytes(w.EvalBytes[i])
		p.Evaluations[label] = v
	}
	p.Opening = &sonicpc.BatchProof{Proofs: make(map[string]kzg.OpeningProof, len(w.OpeningLabels))}
	for i, label := range w.OpeningLabels {
		var op kzg.OpeningProof
		if err := cbor.Unmarshal(w.OpeningBytes[i], &op); err != nil {
			return fmt.Errorf("marlin: decoding opening for %q: %w", label, err)
		}
		p.Opening.Proofs[label] = op
	}
	return nil
}
