package types

// MembershipType is the subscription plan a user holds or is buying.
type MembershipType string

const (
	MembershipTypeNone    MembershipType = "none"
	MembershipTypeMonthly MembershipType = "monthly"
	MembershipTypeYearly  MembershipType = "yearly"
)

// Valid reports whether t names a purchasable plan.
func (t MembershipType) Valid() bool {
	return t == MembershipTypeMonthly || t == MembershipTypeYearly
}

type MembershipStatus string

const (
	MembershipStatusNone    MembershipStatus = "none"
	MembershipStatusActive  MembershipStatus = "active"
	MembershipStatusExpired MembershipStatus = "expired"
)
