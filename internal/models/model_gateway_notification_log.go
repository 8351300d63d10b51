package models

import (
	"time"

	"gorm.io/datatypes"
)

type GatewayNotificationVerdict string

const (
	GatewayNotificationVerdictAccepted         GatewayNotificationVerdict = "accepted"
	GatewayNotificationVerdictDuplicate        GatewayNotificationVerdict = "duplicate"
	GatewayNotificationVerdictIgnored          GatewayNotificationVerdict = "ignored"
	GatewayNotificationVerdictSignatureInvalid GatewayNotificationVerdict = "signature_invalid"
	GatewayNotificationVerdictAmountMismatch   GatewayNotificationVerdict = "amount_mismatch"
	GatewayNotificationVerdictOrderNotFound    GatewayNotificationVerdict = "order_not_found"
	GatewayNotificationVerdictHandleFailed     GatewayNotificationVerdict = "handle_failed"
)

// GatewayNotificationLog records every inbound gateway callback with its raw
// params and verdict, so rejected notifications (fraud, mismatched amounts)
// stay reviewable by an operator.
type GatewayNotificationLog struct {
	ID          string                     `gorm:"column:id;type:uuid;primary_key" json:"id"`
	OrderNo     string                     `gorm:"column:order_no;type:varchar(64);index" json:"order_no"`
	TradeNo     string                     `gorm:"column:trade_no;type:varchar(128)" json:"trade_no"`
	TradeStatus string                     `gorm:"column:trade_status;type:varchar(32)" json:"trade_status"`
	Verdict     GatewayNotificationVerdict `gorm:"column:verdict;type:varchar(32);not null" json:"verdict"`
	Params      datatypes.JSONMap          `gorm:"column:params;type:jsonb" json:"params"`
	TraceID     string                     `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	CreatedAt   time.Time                  `json:"created_at"`
}

func (GatewayNotificationLog) TableName() string {
	return "gateway_notification_log"
}
