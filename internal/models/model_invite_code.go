package models

import (
	"time"

	"github.com/chenglongtech/membership/pkg/types"
)

// InviteCode is a single-use membership grant. Codes are provisioned in
// batches out-of-band and consumed at most once; the unused->used transition
// is claimed atomically so concurrent redemptions have exactly one winner.
type InviteCode struct {
	ID             string               `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Code           string               `gorm:"column:code;type:varchar(32);not null;uniqueIndex" json:"code"`
	MembershipType types.MembershipType `gorm:"column:membership_type;type:varchar(16);not null" json:"membership_type"`

	Used   bool       `gorm:"column:used;not null;default:false;index" json:"used"`
	UsedBy *string    `gorm:"column:used_by;type:uuid;default:null" json:"used_by"`
	UsedAt *time.Time `gorm:"column:used_at;default:null" json:"used_at"`

	// ExpiresAt nil means the code never expires.
	ExpiresAt *time.Time `gorm:"column:expires_at;default:null;index" json:"expires_at"`
	// BatchID groups codes provisioned together.
	BatchID string `gorm:"column:batch_id;type:uuid;index" json:"batch_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InviteCode) TableName() string {
	return "invite_code"
}

// Expired reports whether the code's own validity window has passed.
func (c *InviteCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}
