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

import "github.com/BaoNinh2808/marlin/ahp/bls12377"

// FindProvingKey returns the proving key in pks whose indexed circuit's Hash
// equals target, or ErrCircuitNotFound if none does. This is the
// content-addressed lookup a batch operation should use instead of bare
// positional-array indexing, so a caller can locate a circuit's key by what
// it actually indexes rather than by the position it happened to occupy in
// some earlier setup call.
func FindProvingKey(pks []*CircuitProvingKey, target ahp.CircuitHash) (*CircuitProvingKey, error) {
	for _, pk := range pks {
		if pk.Index.Hash == target {
			return pk, nil
		}
	}
	return nil, ErrCircuitNotFound
}

// FindVerifyingKey is FindProvingKey's verifier-side counterpart.
func FindVerifyingKey(vks []*CircuitVerifyingKey, target ahp.CircuitHash) (*CircuitVerifyingKey, error) {
	for _, vk := range vks {
		if vk.Hash == target {
			return vk, nil
		}
	}
	return nil, ErrCircuitNotFound
}
