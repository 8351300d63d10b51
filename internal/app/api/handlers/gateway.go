package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// GatewayCallbackHandler settles orders from verified gateway notifications.
type GatewayCallbackHandler interface {
	HandleGatewayCallback(ctx context.Context, values url.Values) string
}

// @Summary      Alipay asynchronous notification
// @Description  Receives the gateway's form-encoded callback. The body is the literal "success" or "fail"; the gateway redelivers on anything but "success".
// @Tags         Payment
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Success      200  {string}  string  "success"
// @Router       /api/v1/membership/alipay/notify [post]
func ApiAlipayNotify(h GatewayCallbackHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.String(http.StatusOK, "fail")
			return
		}
		ack := h.HandleGatewayCallback(c.Request.Context(), c.Request.Form)
		c.String(http.StatusOK, ack)
	}
}

func RegisterGatewayRoutes(r gin.IRouter, h GatewayCallbackHandler) {
	r.POST("/membership/alipay/notify", ApiAlipayNotify(h))
}
