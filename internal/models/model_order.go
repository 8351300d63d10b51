package models

import (
	"time"

	"github.com/chenglongtech/membership/pkg/types"
)

// Order is a payment order for one membership grant. Amount is in fen; it is
// never stored or compared as a float. Status only moves pending->paid or
// pending->cancelled/failed; paid and cancelled are terminal.
type Order struct {
	ID      string               `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID  string               `gorm:"column:user_id;type:uuid;not null;index:idx_order_user_created,priority:1" json:"user_id"`
	OrderNo string               `gorm:"column:order_no;type:varchar(64);not null;uniqueIndex" json:"order_no"`
	Type    types.MembershipType `gorm:"column:type;type:varchar(16);not null" json:"type"`
	Amount  int64                `gorm:"column:amount;type:bigint;not null" json:"amount"`
	Status  types.OrderStatus    `gorm:"column:status;type:varchar(16);not null;default:'pending'" json:"status"`

	PaymentMethod types.PaymentMethod `gorm:"column:payment_method;type:varchar(32);not null;default:'alipay'" json:"payment_method"`
	// PaymentNo is the gateway trade reference, set when the order settles.
	PaymentNo *string    `gorm:"column:payment_no;type:varchar(128);default:null" json:"payment_no"`
	PaidAt    *time.Time `gorm:"column:paid_at;default:null" json:"paid_at"`

	// ExpiresAt is the prospective membership expiry computed at creation
	// time. It is a display estimate only; the authoritative expiry is
	// recomputed from live account state when the order settles.
	ExpiresAt *time.Time `gorm:"column:expires_at;default:null" json:"expires_at"`

	CreatedAt time.Time `gorm:"index:idx_order_user_created,priority:2,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "membership_order"
}
