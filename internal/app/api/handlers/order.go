package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	mw "github.com/chenglongtech/membership/internal/app/api/middleware"
	"github.com/chenglongtech/membership/internal/app/service/membership"
	"github.com/chenglongtech/membership/internal/app/service/order"
	models "github.com/chenglongtech/membership/internal/models"
	"github.com/chenglongtech/membership/pkg/response"
	types "github.com/chenglongtech/membership/pkg/types"
)

// OrderService is the slice of the order engine the user-facing endpoints
// need.
type OrderService interface {
	CreateOrder(ctx context.Context, userID string, plan types.MembershipType) (*models.Order, error)
	GetOrder(ctx context.Context, userID, orderNo string) (*models.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*models.Order, error)
	CancelOrder(ctx context.Context, userID, orderNo string) (*models.Order, error)
	FinalizePayment(ctx context.Context, userID, orderNo, paymentNo string) (*order.SettleResult, error)
	BuildPaymentForm(ctx context.Context, userID, orderNo string) (string, error)
}

// OrderItem is the order shape returned to clients.
type OrderItem struct {
	OrderNo       string               `json:"order_no"`
	Type          types.MembershipType `json:"type"`
	Amount        int64                `json:"amount"`
	Status        types.OrderStatus    `json:"status"`
	PaymentMethod types.PaymentMethod  `json:"payment_method"`
	PaymentNo     *string              `json:"payment_no,omitempty"`
	PaidAt        *time.Time           `json:"paid_at,omitempty"`
	ExpiresAt     *time.Time           `json:"expires_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

func toOrderItem(o *models.Order) *OrderItem {
	return &OrderItem{
		OrderNo:       o.OrderNo,
		Type:          o.Type,
		Amount:        o.Amount,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		PaymentNo:     o.PaymentNo,
		PaidAt:        o.PaidAt,
		ExpiresAt:     o.ExpiresAt,
		CreatedAt:     o.CreatedAt,
	}
}

type createOrderRequest struct {
	Type types.MembershipType `json:"type" binding:"required"`
}

// @Summary      Create order
// @Description  Creates a pending payment order for a membership plan.
// @Tags         Order
// @Accept       json
// @Produce      json
// @Param        request body createOrderRequest true "Order request"
// @Success      200  {object}  response.APIResponse[OrderItem]
// @Router       /api/v1/membership/order [post]
func ApiCreateOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		o, err := svc.CreateOrder(c.Request.Context(), mw.UserID(c), req.Type)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](orderErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(toOrderItem(o)))
	}
}

// @Summary      Get order
// @Description  Returns one of the caller's orders by order number.
// @Tags         Order
// @Produce      json
// @Param        orderNo query string true "Order number"
// @Success      200  {object}  response.APIResponse[OrderItem]
// @Router       /api/v1/membership/order [get]
func ApiGetOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderNo := c.Query("orderNo")
		if orderNo == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing orderNo"))
			return
		}

		o, err := svc.GetOrder(c.Request.Context(), mw.UserID(c), orderNo)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](orderErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(toOrderItem(o)))
	}
}

// @Summary      List orders
// @Description  Returns the caller's orders, newest first.
// @Tags         Order
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]OrderItem]
// @Router       /api/v1/membership/orders [get]
func ApiListOrders(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListOrders(c.Request.Context(), mw.UserID(c))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := make([]*OrderItem, 0, len(orders))
		for _, o := range orders {
			items = append(items, toOrderItem(o))
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

type orderNoRequest struct {
	OrderNo string `json:"order_no" binding:"required"`
}

// @Summary      Cancel order
// @Description  Moves a pending order to cancelled.
// @Tags         Order
// @Accept       json
// @Produce      json
// @Param        request body orderNoRequest true "Cancel request"
// @Success      200  {object}  response.APIResponse[OrderItem]
// @Router       /api/v1/membership/order/cancel [post]
func ApiCancelOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req orderNoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		o, err := svc.CancelOrder(c.Request.Context(), mw.UserID(c), req.OrderNo)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](orderErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(toOrderItem(o)))
	}
}

type finalizePaymentRequest struct {
	OrderNo   string `json:"order_no" binding:"required"`
	PaymentNo string `json:"payment_no"`
}

type finalizePaymentResp struct {
	Order       *OrderItem      `json:"order"`
	Membership  membership.Info `json:"membership"`
	AlreadyPaid bool            `json:"already_paid"`
}

// @Summary      Finalize payment
// @Description  Settles an order and extends membership. Finalizing a paid order is an idempotent no-op.
// @Tags         Order
// @Accept       json
// @Produce      json
// @Param        request body finalizePaymentRequest true "Finalize request"
// @Success      200  {object}  response.APIResponse[finalizePaymentResp]
// @Router       /api/v1/membership/pay [post]
func ApiFinalizePayment(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req finalizePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		res, err := svc.FinalizePayment(c.Request.Context(), mw.UserID(c), req.OrderNo, req.PaymentNo)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](orderErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(finalizePaymentResp{
			Order:       toOrderItem(res.Order),
			Membership:  res.Membership,
			AlreadyPaid: res.AlreadyPaid,
		}))
	}
}

type paymentFormResp struct {
	PayURL string `json:"pay_url"`
}

// @Summary      Payment form
// @Description  Builds the gateway page-pay redirect URL for a pending order.
// @Tags         Order
// @Accept       json
// @Produce      json
// @Param        request body orderNoRequest true "Payment form request"
// @Success      200  {object}  response.APIResponse[paymentFormResp]
// @Router       /api/v1/membership/pay/form [post]
func ApiPaymentForm(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req orderNoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		u, err := svc.BuildPaymentForm(c.Request.Context(), mw.UserID(c), req.OrderNo)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](orderErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(paymentFormResp{PayURL: u}))
	}
}

func orderErrCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, order.ErrInvalidPlan), errors.Is(err, order.ErrPaymentRefRequired):
		return response.APIResponseCodeBadRequest
	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, order.ErrAccountNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, order.ErrOrderTerminal), errors.Is(err, order.ErrOrderNoConflict):
		return response.APIResponseCodeConflict
	case errors.Is(err, order.ErrGatewayUnavailable):
		return response.APIResponseCodeGatewayBroken
	default:
		return response.APIResponseCodeError
	}
}

func RegisterOrderRoutes(authed gin.IRouter, svc OrderService) {
	authed.POST("/membership/order", ApiCreateOrder(svc))
	authed.GET("/membership/order", ApiGetOrder(svc))
	authed.GET("/membership/orders", ApiListOrders(svc))
	authed.POST("/membership/order/cancel", ApiCancelOrder(svc))
	authed.POST("/membership/pay", ApiFinalizePayment(svc))
	authed.POST("/membership/pay/form", ApiPaymentForm(svc))
}
