package membership

import (
	"time"

	models "github.com/chenglongtech/membership/internal/models"
	types "github.com/chenglongtech/membership/pkg/types"
)

// Snapshot is an account's membership state at a point in time. It is the
// only input the extension algorithm sees, which keeps the algorithm a pure
// function shared by the payment and redemption paths.
type Snapshot struct {
	Type      types.MembershipType
	Status    types.MembershipStatus
	ExpiresAt *time.Time
}

func SnapshotOf(a *models.Account) Snapshot {
	return Snapshot{
		Type:      a.MembershipType,
		Status:    a.MembershipStatus,
		ExpiresAt: a.MembershipExpiresAt,
	}
}

// ActiveAt reports whether the membership is in force at now: status active,
// expiry set and still in the future. A stale "active" with a past expiry is
// not in force, regardless of whether the row has been lazily corrected yet.
func (s Snapshot) ActiveAt(now time.Time) bool {
	return s.Status == types.MembershipStatusActive &&
		s.ExpiresAt != nil &&
		now.Before(*s.ExpiresAt)
}

// Extend computes the membership state after one grant (a paid order or a
// redeemed invite code):
//
//   - active membership extends from its current expiry;
//   - anything else (unset, expired, or stale active) restarts from now;
//   - the grant period is one calendar month or year (AddDate), not 30/365 days;
//   - the plan type is overwritten by the granted type, periods never blend;
//   - the resulting status is always active.
func Extend(cur Snapshot, grant types.MembershipType, now time.Time) Snapshot {
	base := now
	if cur.ActiveAt(now) {
		base = *cur.ExpiresAt
	}

	var expiresAt time.Time
	if grant == types.MembershipTypeYearly {
		expiresAt = base.AddDate(1, 0, 0)
	} else {
		expiresAt = base.AddDate(0, 1, 0)
	}

	return Snapshot{
		Type:      grant,
		Status:    types.MembershipStatusActive,
		ExpiresAt: &expiresAt,
	}
}

// Apply writes the result of one grant onto the account row. The caller is
// responsible for holding the account exclusively (row lock) and persisting.
func Apply(a *models.Account, grant types.MembershipType, now time.Time) {
	next := Extend(SnapshotOf(a), grant, now)
	a.MembershipType = next.Type
	a.MembershipStatus = next.Status
	a.MembershipExpiresAt = next.ExpiresAt
}

// LazyExpire corrects a stale active status whose expiry has passed and
// reports whether a correction was made. This is the only expiry sweep in the
// system; there is no background process.
func LazyExpire(a *models.Account, now time.Time) bool {
	if a.MembershipStatus != types.MembershipStatusActive {
		return false
	}
	if SnapshotOf(a).ActiveAt(now) {
		return false
	}
	a.MembershipStatus = types.MembershipStatusExpired
	return true
}

// Info is the membership payload returned to clients.
type Info struct {
	Type      types.MembershipType   `json:"type"`
	Status    types.MembershipStatus `json:"status"`
	ExpiresAt *time.Time             `json:"expires_at,omitempty"`
	IsActive  bool                   `json:"is_active"`
}

func InfoOf(a *models.Account, now time.Time) Info {
	return Info{
		Type:      a.MembershipType,
		Status:    a.MembershipStatus,
		ExpiresAt: a.MembershipExpiresAt,
		IsActive:  SnapshotOf(a).ActiveAt(now),
	}
}
