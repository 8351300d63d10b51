package types

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Terminal reports whether an order accepts no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled || s == OrderStatusFailed
}

type PaymentMethod string

const (
	PaymentMethodAlipay PaymentMethod = "alipay"
)

// TradeStatus mirrors the gateway's trade state enumeration on callbacks.
type TradeStatus string

const (
	TradeStatusSuccess  TradeStatus = "TRADE_SUCCESS"
	TradeStatusFinished TradeStatus = "TRADE_FINISHED"
	TradeStatusClosed   TradeStatus = "TRADE_CLOSED"
	TradeStatusWaitPay  TradeStatus = "WAIT_BUYER_PAY"
)

// Settled reports whether the status represents completed payment.
func (s TradeStatus) Settled() bool {
	return s == TradeStatusSuccess || s == TradeStatusFinished
}
