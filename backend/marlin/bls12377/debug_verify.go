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

//go:build marlin_debug_verify

package marlin

import (
	"github.com/BaoNinh2808/marlin/ahp/bls12377"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// debugVerifyEnabled gates the self-verification pass below prove_batch
// runs under, only when built with -tags marlin_debug_verify. The Rust
// source attempts an analogous self-check under cfg(debug_assertions) but
// never populates its `keys_to_inputs` map (see spec.md §9), so it silently
// no-ops there; this build-tag-gated version actually constructs the
// {vk -> inputs} mapping and calls the real verifier.
const debugVerifyEnabled = true

func debugSelfVerify(mode MarlinMode, pks []*CircuitProvingKey, instances [][]*ahp.ConstraintSystem, proof *Proof) {
	vks := make([]*CircuitVerifyingKey, len(pks))
	inputs := make([][][]fr.Element, len(pks))
	for i, pk := range pks {
		vks[i] = pk.VK
		group := make([][]fr.Element, len(instances[i]))
		for j, cs := range instances[i] {
			group[j] = cs.PublicInputs()
		}
		inputs[i] = group
	}
	ok, err := VerifyBatchPrepared(mode, vks, inputs, proof)
	if err != nil {
		Logger().Warn().Err(err).Msg("debug self-verify: error")
		return
	}
	if !ok {
		Logger().Warn().Msg("debug self-verify: proof failed self-verification")
	}
}
