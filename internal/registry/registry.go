// Package registry holds the two name-registry policies of §4.5. They are
// pure functions over values already resolved from a ledger snapshot, not
// a standalone service: both the validator (pre-check) and the connector
// (apply) call into this package so the age bound and the tie-break are
// enforced identically in both places.
package registry

import (
	"github.com/duskchain/duskchain/config"
	"github.com/duskchain/duskchain/internal/cerrors"
	"github.com/duskchain/duskchain/pkg/types"
)

// CheckRevealAge enforces the commit-reveal age bound: a Reveal spending a
// Commitment mined at commitmentHeight is only valid while
// effectiveHeight - commitmentHeight <= CommitmentMaxAge.
func CheckRevealAge(commitment types.Commitment, commitmentHeight, effectiveHeight uint32) error {
	age := effectiveHeight - commitmentHeight
	if age > config.CommitmentMaxAge {
		return &cerrors.RevealTooLate{
			Commitment: commitment,
			LateBy:     age - config.CommitmentMaxAge,
		}
	}
	return nil
}

// IsExpired reports whether a commitment mined at commitmentHeight has
// aged past CommitmentMaxAge as of effectiveHeight; used by the expiry
// sweep (§4.3 step 6), which has no specific reveal to blame and so
// doesn't need the structured error CheckRevealAge returns.
func IsExpired(commitmentHeight, effectiveHeight uint32) bool {
	return effectiveHeight-commitmentHeight > config.CommitmentMaxAge
}

// CheckOlderCommitmentWins enforces the tie-break of §4.2 step 6 and §4.5:
// when a Key is already bound to a commitment mined at boundHeight, a new
// Reveal for the same Key is only accepted if its own commitment is at
// least as old (a lower or equal height). A Reveal attempting to rebind
// with a strictly later commitment is rejected; an equal height is
// accepted.
func CheckOlderCommitmentWins(key types.Key, boundCommitmentHeight, newCommitmentHeight uint32) error {
	if newCommitmentHeight > boundCommitmentHeight {
		return &cerrors.KeyAlreadyRegistered{
			Key:                  key,
			PrevCommitmentHeight: boundCommitmentHeight,
			CommitmentHeight:     newCommitmentHeight,
		}
	}
	return nil
}
