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

// Package marlin is the curve-agnostic facade over the Marlin preprocessing
// zk-SNARK core: it dispatches to the concrete per-curve implementation the
// way gnark's own backend dispatcher
// (backend/plonk/plonk.go) switches over ecc.ID. Today there is exactly one
// case, BLS12-377, matching the instances this spec's test scenarios and
// the original Rust source both exercise; the switch shape is kept rather
// than collapsed into the bls12377 package so a second curve is a single
// new case, not a restructuring.
package marlin

import (
	"fmt"

	"github.com/BaoNinh2808/marlin/ahp/bls12377"
	marlin_bls12377 "github.com/BaoNinh2808/marlin/backend/marlin/bls12377"
	"github.com/BaoNinh2808/marlin/pcs/bls12377"
	"github.com/consensys/gnark-crypto/ecc"
)

// UniversalSetup runs the trusted setup for curveID, producing public
// parameters supporting circuits up to maxDegree.
func UniversalSetup(curveID ecc.ID, maxDegree uint64) (interface{}, error) {
	switch curveID {
	case ecc.BLS12_377:
		return marlin_bls12377.UniversalSetup(maxDegree)
	default:
		return nil, fmt.Errorf("marlin: unsupported curve %s", curveID.String())
	}
}

// CircuitSetup indexes circuit against srs (as returned by UniversalSetup
// for the same curve) and returns the curve-specific proving/verifying key
// pair, stamped with mode for later prove/verify mode-consistency checks.
func CircuitSetup(curveID ecc.ID, srs interface{}, mode marlin_bls12377.MarlinMode, circuit ahp.ConstraintSynthesizer) (interface{}, interface{}, error) {
	switch curveID {
	case ecc.BLS12_377:
		typedSRS, ok := srs.(*sonicpc.UniversalSRS)
		if !ok {
			return nil, nil, fmt.Errorf("marlin: circuit setup: srs is not a BLS12-377 universal SRS")
		}
		return marlin_bls12377.CircuitSetup(typedSRS, mode, circuit)
	default:
		return nil, nil, fmt.Errorf("marlin: unsupported curve %s", curveID.String())
	}
}
