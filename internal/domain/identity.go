package domain

import (
	"github.com/stellar/go/strkey"
)

// AccountIdentity is an opaque ledger account identifier. On the target
// network it is a 56-character strkey beginning with 'G'. The identity
// carries no ownership information - it is a pure external reference.
type AccountIdentity = string

// identityLength is the fixed strkey length for ed25519 public keys.
const identityLength = 56

// identityPrefix is the designated version byte prefix for account keys.
const identityPrefix = 'G'

// ValidateIdentity checks the account identity format. It must be called
// before any network call is attempted with the identity.
func ValidateIdentity(identity AccountIdentity) error {
	if len(identity) != identityLength {
		return NewValidationError("account identity must be %d characters, got %d", identityLength, len(identity))
	}
	if identity[0] != identityPrefix {
		return NewValidationError("account identity must begin with %q", string(identityPrefix))
	}
	if !strkey.IsValidEd25519PublicKey(identity) {
		return NewValidationError("account identity failed checksum validation")
	}
	return nil
}

// IsValidIdentity reports whether identity passes the format check.
// Convenience wrapper for informational callers that do not need the error.
func IsValidIdentity(identity AccountIdentity) bool {
	return ValidateIdentity(identity) == nil
}
