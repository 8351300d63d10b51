package order

import "errors"

var (
	// ErrInvalidPlan rejects a subscription type outside {monthly, yearly}.
	ErrInvalidPlan = errors.New("invalid subscription type")
	// ErrOrderNotFound covers both absent orders and orders owned by someone else.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderTerminal rejects settling or cancelling an order already in a
	// terminal state other than paid.
	ErrOrderTerminal = errors.New("order is in a terminal state")
	// ErrOrderNoConflict surfaces an order-number collision that persisted
	// across retries; callers may retry the whole creation.
	ErrOrderNoConflict = errors.New("order number conflict, retry")
	// ErrPaymentRefRequired rejects a direct finalize without a gateway
	// reference outside dev mode.
	ErrPaymentRefRequired = errors.New("payment reference required")
	// ErrAmountMismatch rejects a callback whose settled amount differs from
	// the order's recorded amount. Never coerced, always an integrity error.
	ErrAmountMismatch = errors.New("settled amount does not match order amount")
	// ErrGatewayUnavailable signals a misconfigured or unreachable payment
	// gateway, distinct from any business failure.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrAccountNotFound signals a valid token referencing a missing account.
	ErrAccountNotFound = errors.New("account not found")
)
