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
	"github.com/fxamacker/cbor/v2"
)

// CircuitVerifyingKey is everything a verifier needs about one indexed
// circuit: its sizing info and the commitments to its index (row/col/val)
// oracles. The PCS's own VerifierKey (the trimmed SRS powers) is shared
// setup material distributed once per universal SRS, not re-serialized per
// circuit — CircuitVerifyingKey.PCSKey is still carried in-memory so a
// single process can verify without re-trimming, but MarshalBinary omits
// it, matching how a production deployment would distribute SRS powers
// out-of-band from per-circuit verifying keys.
type CircuitVerifyingKey struct {
	Info       ahp.CircuitInfo
	Hash       ahp.CircuitHash
	ModeTag    MarlinMode
	IndexComms []sonicpc.LabeledCommitment
	PCSKey     *sonicpc.VerifierKey
}

// wireCircuitVerifyingKey is the CBOR-serializable projection of
// CircuitVerifyingKey.
type wireCircuitVerifyingKey struct {
	NumPublicInputs int
	NumWitness      int
	NumConstraints  int
	NumNonZeroA     int
	NumNonZeroB     int
	NumNonZeroC     int
	Hash            []byte
	ModeZK          bool
	CommLabels      []string
	CommBoundedDeg  []uint64
	CommBytes       [][]byte
}

// MarshalBinary encodes the circuit's sizing info and index commitments as
// CBOR, the teacher's wire-framing choice (see go.mod's fxamacker/cbor/v2).
func (vk *CircuitVerifyingKey) MarshalBinary() ([]byte, error) {
	w := wireCircuitVerifyingKey{
		NumPublicInputs: vk.Info.NumPublicInputs,
		NumWitness:      vk.Info.NumWitness,
		NumConstraints:  vk.Info.NumConstraints,
		NumNonZeroA:     vk.Info.NumNonZeroA,
		NumNonZeroB:     vk.Info.NumNonZeroB,
		NumNonZeroC:     vk.Info.NumNonZeroC,
		Hash:            vk.Hash[:],
		ModeZK:          vk.ModeTag.ZK,
	}
	for _, c := range vk.IndexComms {
		w.CommLabels = append(w.CommLabels, c.Info.Label)
		w.CommBoundedDeg = append(w.CommBoundedDeg, c.Info.DegreeBound)
		b := c.Commitment.Bytes()
		w.CommBytes = append(w.CommBytes, b[:])
	}
	return cbor.Marshal(w)
}

// UnmarshalBinary decodes a CircuitVerifyingKey produced by MarshalBinary.
// The caller must still attach PCSKey (via Trim against the shared SRS)
// before the key can be used to verify.
func (vk *CircuitVerifyingKey) UnmarshalBinary(data []byte) error {
	var w wireCircuitVerifyingKey
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("marlin: decoding verifying key: %w", err)
	}
	vk.Info = ahp.CircuitInfo{
		NumPublicInputs: w.NumPublicInputs,
		NumWitness:      w.NumWitness,
		NumConstraints:  w.NumConstraints,
		NumNonZeroA:     w.NumNonZeroA,
		NumNonZeroB:     w.NumNonZeroB,
		NumNonZeroC:     w.NumNonZeroC,
	}
	copy(vk.Hash[:], w.Hash)
	vk.ModeTag = MarlinMode{ZK: w.ModeZK}
	vk.IndexComms = make([]sonicpc.LabeledCommitment, len(w.CommLabels))
	for i := range w.CommLabels {
		var c sonicpc.Commitment
		if _, err := c.SetBytes(w.CommBytes[i]); err != nil {
			return fmt.Errorf("marlin: decoding commitment %q: %w", w.CommLabels[i], err)
		}
		vk.IndexComms[i] = sonicpc.LabeledCommitment{
			Info:       sonicpc.PolynomialInfo{Label: w.CommLabels[i], DegreeBound: w.CommBoundedDeg[i]},
			Commitment: c,
		}
	}
	return nil
}

// CircuitProvingKey is everything a prover needs for one indexed circuit:
// its verifying key, the trimmed committer key, the full index (so the
// prover can recompute row/col/val evaluations when constructing linear
// combinations), and the randomness used when committing the index oracles
// (EmptyRandomness in non-ZK mode, per spec.md §6).
type CircuitProvingKey struct {
	VK         *CircuitVerifyingKey
	CK         *sonicpc.CommitterKey
	Index      *ahp.IndexedCircuit
	IndexRands []sonicpc.Randomness
}
