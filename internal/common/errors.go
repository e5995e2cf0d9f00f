// Package common defines shared constants and sentinel errors used across
// client and server layers of SplitVault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Cryptographic failures. These are never downgraded to warnings:
	// a derivation or AEAD failure means the operation did not happen.

	// ErrKeyDerivation reports a failure in the password hashing / KDF
	// chain. The caller gets no key material, not a weaker fallback.
	ErrKeyDerivation = errors.New("key derivation failed")

	// ErrAuthentication reports an AEAD tag mismatch: wrong key or
	// tampered ciphertext. No plaintext is ever returned alongside it.
	ErrAuthentication = errors.New("authentication failed")

	// Ledger-data anomalies. Recovered locally: the offending record is
	// flagged and a safe default substituted, so one corrupt transaction
	// cannot hide the whole group's balances.
	ErrDomainValidation = errors.New("value outside expected domain")

	// ErrConvergence reports that settlement exceeded its iteration
	// bound, which means the balance vector did not sum to (near) zero.
	ErrConvergence = errors.New("settlement did not converge")

	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Token lifecycle errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
