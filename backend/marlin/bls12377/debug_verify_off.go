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

//go:build !marlin_debug_verify

package marlin

import "github.com/BaoNinh2808/marlin/ahp/bls12377"

const debugVerifyEnabled = false

func debugSelfVerify(mode MarlinMode, pks []*CircuitProvingKey, instances [][]*ahp.ConstraintSystem, proof *Proof) {}
