package models

import (
	"time"

	"github.com/chenglongtech/membership/pkg/types"
)

// Account holds a registered user together with its membership fields. The
// membership fields are mutated only through the engines; no handler writes
// them directly.
type Account struct {
	ID           string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Email        string `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(128);not null" json:"-"`
	Name         string `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Avatar       string `gorm:"column:avatar;type:varchar(512)" json:"avatar"`

	LoginCount  int64      `gorm:"column:login_count;not null;default:0" json:"login_count"`
	LastLoginAt *time.Time `gorm:"column:last_login_at;default:null" json:"last_login_at"`

	MembershipType   types.MembershipType   `gorm:"column:membership_type;type:varchar(16);not null;default:'none'" json:"membership_type"`
	MembershipStatus types.MembershipStatus `gorm:"column:membership_status;type:varchar(16);not null;default:'none'" json:"membership_status"`
	// MembershipExpiresAt is set iff the status has ever been active.
	MembershipExpiresAt *time.Time `gorm:"column:membership_expires_at;default:null" json:"membership_expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "account"
}
