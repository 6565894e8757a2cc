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

import "github.com/blang/semver/v4"

// PROTOCOL_NAME-equivalent personalization string absorbed into every
// transcript this core initializes, per spec.md §6.
const ProtocolName = "MARLIN-2019"

// ProtocolVersion is a semver tag for the on-wire artifact format. It is not
// written into the encoded proofs or verifying keys, and no
// version-compatibility logic is implemented.
var ProtocolVersion = semver.MustParse("0.1.0")

// MarlinMode selects zero-knowledge vs. non-hiding proving, per spec.md §6's
// mode flag.
type MarlinMode struct {
	ZK bool
}
