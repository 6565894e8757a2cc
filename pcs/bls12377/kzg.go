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

package sonicpc

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/kzg"
	"golang.org/x/sync/errgroup"
)

// ErrSRSCannotGrow is returned by UniversalSRS.DownloadPowersFor: this toy
// loader samples a fresh, ephemeral trusted-setup secret in LoadSRS and does
// not retain it, so it cannot extend an existing SRS to a larger degree the
// way a production loader backed by a persisted MPC ceremony transcript
// could. Growing here would require re-running the (entirely new) ceremony,
// which silently invalidates every commitment already made against the old
// SRS — so DownloadPowersFor fails for any range beyond the current max
// degree instead of doing that silently.
var ErrSRSCannotGrow = errors.New("sonicpc: universal SRS cannot be grown (no ceremony transcript retained)")

// UniversalSRS is the trusted-setup public parameters, per spec.md's data
// model: a single secret τ raised to powers up to a supported max degree, in
// both groups.
type UniversalSRS struct {
	srs *kzg.SRS
}

// LoadSRS performs `universal_setup`: a fresh (test-only, unless the caller
// discards the secret through an HSM/MPC ceremony elsewhere) trusted setup
// supporting polynomials up to maxDegree.
func LoadSRS(maxDegree uint64) (*UniversalSRS, error) {
	alpha, err := rand.Int(rand.Reader, fr.Modulus())
	if err != nil {
		return nil, fmt.Errorf("sonicpc: sampling SRS secret: %w", err)
	}
	srs, err := kzg.NewSRS(maxDegree+3, alpha)
	if err != nil {
		return nil, fmt.Errorf("sonicpc: building SRS: %w", err)
	}
	return &UniversalSRS{srs: srs}, nil
}

// MaxDegree returns the highest polynomial degree the SRS currently supports.
func (u *UniversalSRS) MaxDegree() uint64 {
	if u == nil || u.srs == nil {
		return 0
	}
	n := uint64(len(u.srs.Pk.G1))
	if n < 3 {
		return 0
	}
	return n - 3
}

// DownloadPowersFor attempts to grow the SRS to cover [lo, hi). See
// ErrSRSCannotGrow.
func (u *UniversalSRS) DownloadPowersFor(lo, hi uint64) error {
	if hi <= u.MaxDegree() {
		return nil
	}
	return ErrSRSCannotGrow
}

// CommitterKey is the prover-side PCS key produced by Trim: the SRS powers
// needed to commit to polynomials up to the circuit's max degree, plus the
// enforced-degree-bound shifts needed for bounded polynomials.
type CommitterKey struct {
	pk                kzg.ProvingKey
	supportedDegree   uint64
	supportedHiding   int
	degreeBoundShifts map[uint64]kzg.ProvingKey // shifted powers for each enforced degree bound
}

// SupportedDegree returns the maximum polynomial degree ck can commit to.
func (ck *CommitterKey) SupportedDegree() uint64 { return ck.supportedDegree }

// VerifierKey is the verifier-side PCS key produced by Trim.
type VerifierKey struct {
	vk              kzg.VerifyingKey
	supportedDegree uint64
	shiftPowers     map[uint64]kzg.Digest // [τ^(supportedDegree-bound)]₁, keyed by bound
}

// Trim specializes a UniversalSRS to one circuit's needs: a maximum
// polynomial degree, the set of enforced degree bounds (for polynomials
// Marlin commits to with an explicit degree cap), a supported hiding bound
// (the maximum number of blinding terms Marlin will ever add, which is 1 for
// this protocol per spec.md §6), and the coefficient-support bounds the AHP
// indexer reports (`get_degree_bounds`).
func Trim(srs *UniversalSRS, supportedDegree uint64, coefficientSupportBounds []uint64, supportedHidingBound int) (*CommitterKey, *VerifierKey, error) {
	if srs.MaxDegree() < supportedDegree {
		return nil, nil, fmt.Errorf("sonicpc: SRS max degree %d smaller than requested %d", srs.MaxDegree(), supportedDegree)
	}
	ck := &CommitterKey{
		pk:                kzg.ProvingKey{G1: srs.srs.Pk.G1[:supportedDegree+uint64(supportedHidingBound)+2]},
		supportedDegree:   supportedDegree,
		supportedHiding:   supportedHidingBound,
		degreeBoundShifts: make(map[uint64]kzg.ProvingKey, len(coefficientSupportBounds)),
	}
	vk := &VerifierKey{
		vk:              srs.srs.Vk,
		supportedDegree: supportedDegree,
		shiftPowers:     make(map[uint64]kzg.Digest, len(coefficientSupportBounds)),
	}
	for _, bound := range coefficientSupportBounds {
		if bound > supportedDegree {
			continue
		}
		shift := supportedDegree - bound
		ck.degreeBoundShifts[bound] = kzg.ProvingKey{G1: srs.srs.Pk.G1[shift:]}
		vk.shiftPowers[bound] = srs.srs.Pk.G1[shift]
	}
	return ck, vk, nil
}

// Commit commits to every labeled polynomial, returning commitments and
// randomness in input order. When rng is non-nil and a polynomial's info
// declares Hiding, a degree-(supportedHiding) blinding polynomial is added
// before committing and its contribution recorded as Randomness; in
// non-hiding mode Randomness is always EmptyRandomness.
func Commit(ck *CommitterKey, polys []LabeledPolynomial, rng randReader) ([]LabeledCommitment, []Randomness, error) {
	return commitRange(ck, polys, nil, rng)
}

// CommitWithTerminator behaves like Commit but checks terminator between
// every polynomial, cooperatively abandoning the remaining commitments and
// returning a "sonicpc: commit: terminated" error when it is observed set.
func CommitWithTerminator(ck *CommitterKey, polys []LabeledPolynomial, terminator Terminator, rng randReader) ([]LabeledCommitment, []Randomness, error) {
	return commitRange(ck, polys, terminator, rng)
}

// Terminator is the minimal cooperative-cancellation surface the PCS needs;
// satisfied by *marlin.AtomicTerminator without pcs importing the marlin
// package (it would be a cycle).
type Terminator interface {
	IsSet() bool
}

type randReader interface {
	Read(p []byte) (n int, err error)
}

// commitRange commits to every polynomial concurrently, one goroutine per
// oracle, mirroring the teacher's own goroutine fan-out over a circuit's
// fixed-width L/R/O or quotient shards (commitToLRO, commitToQuotient) but
// expressed with errgroup so it generalizes to Marlin's variable-width
// witness batches instead of a hardcoded shard count. The terminator is
// polled before each commit is scheduled; once set, in-flight commits still
// finish but no new ones start and commitRange returns a
// "sonicpc: commit: terminated" error.
func commitRange(ck *CommitterKey, polys []LabeledPolynomial, terminator Terminator, rng randReader) ([]LabeledCommitment, []Randomness, error) {
	commitments := make([]LabeledCommitment, len(polys))
	randomness := make([]Randomness, len(polys))

	var g errgroup.Group
	for i, p := range polys {
		i, p := i, p
		if terminator != nil && terminator.IsSet() {
			return nil, nil, fmt.Errorf("sonicpc: commit: %w", errTerminated)
		}
		g.Go(func() error {
			poly := p.Poly
			var blind Randomness
			if p.Info.Hiding && rng != nil {
				b, err := sampleBlind(rng)
				if err != nil {
					return err
				}
				blind = b
				poly = blindPolynomial(poly, blind.Blind, ck.supportedHiding)
			}
			pk := ck.pk
			if p.Info.DegreeBound > 0 {
				if shifted, ok := ck.degreeBoundShifts[p.Info.DegreeBound]; ok {
					pk = shifted
				}
			}
			c, err := kzg.Commit(poly, pk)
			if err != nil {
				return fmt.Errorf("sonicpc: commit %q: %w", p.Info.Label, err)
			}
			commitments[i] = LabeledCommitment{Info: p.Info, Commitment: c}
			randomness[i] = blind
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return commitments, randomness, nil
}

var errTerminated = errors.New("terminated")

func sampleBlind(rng randReader) (Randomness, error) {
	var b fr.Element
	if _, err := b.SetRandom(); err != nil {
		return Randomness{}, fmt.Errorf("sonicpc: sampling blind: %w", err)
	}
	// rng is accepted for API symmetry with the Rust source's `Option<&mut R>`
	// (a caller-supplied CSPRNG gates whether hiding runs at all); the actual
	// scalar sampling uses fr.Element.SetRandom's own CSPRNG source, mirroring
	// how gnark-crypto's own Commit helpers sample blinding factors.
	_ = rng
	return Randomness{Blind: b}, nil
}

// blindPolynomial adds a mask to poly whose only effect on commitments is a
// uniformly random shift, without changing poly's evaluations below its
// stated degree bound: it appends `hidingBound` extra high-degree
// coefficients derived from blind. This keeps the commitment hiding while
// leaving poly's meaningful low-degree coefficients untouched, the same
// shape as Marlin's single masking term (supported_hiding_bound = 1).
func blindPolynomial(poly []fr.Element, blind fr.Element, hidingBound int) []fr.Element {
	if hidingBound <= 0 {
		return poly
	}
	out := make([]fr.Element, len(poly)+hidingBound)
	copy(out, poly)
	mask := blind
	for i := 0; i < hidingBound; i++ {
		out[len(poly)+i] = mask
		mask.Mul(&mask, &blind)
	}
	return out
}
