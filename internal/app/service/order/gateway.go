package order

import (
	"net/url"

	types "github.com/chenglongtech/membership/pkg/types"
)

// PagePayRequest describes one outbound payment page.
type PagePayRequest struct {
	OrderNo   string
	AmountFen int64
	Subject   string
	Body      string
	ReturnURL string
	NotifyURL string
}

// Notification is a signature-verified inbound gateway callback. TotalAmount
// stays the gateway's major-unit decimal string; amount integrity is checked
// by exact string comparison against the order's recorded amount.
type Notification struct {
	OutTradeNo  string
	TradeNo     string
	TotalAmount string
	TradeStatus types.TradeStatus
}

// Gateway is the payment gateway adapter the engine depends on. The concrete
// implementation lives in internal/platform/alipay; tests stub it.
type Gateway interface {
	// Configured reports whether gateway credentials are present.
	Configured() bool
	// PagePayURL builds the redirect URL for an outbound payment page.
	PagePayURL(req *PagePayRequest) (string, error)
	// DecodeNotification verifies the inbound signature and parses the
	// callback params. A signature failure returns an error and no
	// notification.
	DecodeNotification(values url.Values) (*Notification, error)
}
