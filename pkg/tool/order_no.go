package tool

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateOrderNo builds an externally visible order number: a fixed prefix,
// millisecond timestamp and a 4-digit random suffix. Collisions are possible
// in theory; the order store surfaces them as a retryable conflict.
func GenerateOrderNo() string {
	return fmt.Sprintf("ORD%d%04d", time.Now().UnixMilli(), rand.IntN(10000))
}

// GenerateDevPaymentNo mints a placeholder gateway reference for dev-mode
// settlement, where no real gateway trade exists.
func GenerateDevPaymentNo() string {
	return fmt.Sprintf("DEV%d%04d", time.Now().UnixMilli(), rand.IntN(10000))
}
