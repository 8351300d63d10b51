package invite

import "errors"

var (
	// ErrCodeNotFound rejects a code that was never provisioned.
	ErrCodeNotFound = errors.New("invite code not found")
	// ErrCodeUsed rejects a code that has already been claimed, including by
	// a concurrent redeemer that won the claim race.
	ErrCodeUsed = errors.New("invite code already used")
	// ErrCodeExpired rejects a code whose validity window has passed.
	ErrCodeExpired = errors.New("invite code expired")
	// ErrAccountNotFound rejects a redemption for a missing account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidBatch rejects a provisioning request with a bad plan or count.
	ErrInvalidBatch = errors.New("invalid invite code batch request")
)
