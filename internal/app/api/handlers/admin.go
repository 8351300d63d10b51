package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/chenglongtech/membership/internal/app/service/invite"
	models "github.com/chenglongtech/membership/internal/models"
	"github.com/chenglongtech/membership/internal/store"
	"github.com/chenglongtech/membership/pkg/response"
	types "github.com/chenglongtech/membership/pkg/types"
)

// AdminInviteService provisions invite code batches.
type AdminInviteService interface {
	BatchCreate(ctx context.Context, plan types.MembershipType, count int, expiresAt *time.Time) ([]*models.InviteCode, error)
}

// AdminOrderService is the filtered order listing for back-office pages.
type AdminOrderService interface {
	ScanOrders(ctx context.Context, req *store.ScanOrdersRequest) ([]*models.Order, int64, error)
}

type createInviteCodesRequest struct {
	Type      types.MembershipType `json:"type" binding:"required"`
	Count     int                  `json:"count" binding:"required"`
	ExpiresAt *time.Time           `json:"expires_at"`
}

type inviteCodeItem struct {
	Code           string               `json:"code"`
	MembershipType types.MembershipType `json:"membership_type"`
	BatchID        string               `json:"batch_id"`
	ExpiresAt      *time.Time           `json:"expires_at,omitempty"`
}

// @Summary      Provision invite codes
// @Description  Generates a batch of single-use invite codes for a plan.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body createInviteCodesRequest true "Batch request"
// @Success      200  {object}  response.APIResponse[[]inviteCodeItem]
// @Router       /api/v1/admin/invite-codes [post]
func ApiAdminCreateInviteCodes(svc AdminInviteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createInviteCodesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		codes, err := svc.BatchCreate(c.Request.Context(), req.Type, req.Count, req.ExpiresAt)
		if err != nil {
			if errors.Is(err, invite.ErrInvalidBatch) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}

		items := lo.Map(codes, func(ic *models.InviteCode, _ int) *inviteCodeItem {
			return &inviteCodeItem{
				Code:           ic.Code,
				MembershipType: ic.MembershipType,
				BatchID:        ic.BatchID,
				ExpiresAt:      ic.ExpiresAt,
			}
		})
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

type adminOrderList struct {
	Items []*OrderItem `json:"items"`
	Total int64        `json:"total"`
}

// @Summary      List orders
// @Description  Filtered, paginated order listing for back-office use.
// @Tags         Admin
// @Produce      json
// @Param        user_id query string false "Filter by user id"
// @Param        status  query string false "Filter by order status"
// @Param        from    query int    false "Pagination offset"
// @Param        size    query int    false "Page size"
// @Success      200  {object}  response.APIResponse[adminOrderList]
// @Router       /api/v1/admin/orders [get]
func ApiAdminListOrders(svc AdminOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filters []*types.CommonFilter
		if v := c.Query("user_id"); v != "" {
			filters = append(filters, &types.CommonFilter{
				Field: "user_id", Operator: types.CommonFilterOperatorEq, Values: []any{v},
			})
		}
		if v := c.Query("status"); v != "" {
			filters = append(filters, &types.CommonFilter{
				Field: "status", Operator: types.CommonFilterOperatorEq, Values: []any{v},
			})
		}

		from := 0
		if v := c.Query("from"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				from = n
			}
		}
		size := 100
		if v := c.Query("size"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				size = n
			} else {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid size"))
				return
			}
		}
		sortBy := c.Query("sort_by")
		if sortBy == "" {
			sortBy = "created_at"
		}
		sortOrder := c.Query("sort_order")
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}

		orders, total, err := svc.ScanOrders(c.Request.Context(), &store.ScanOrdersRequest{
			Filters:   filters,
			From:      from,
			Size:      size,
			SortBy:    sortBy,
			SortOrder: sortOrder,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}

		c.JSON(http.StatusOK, response.OKT(adminOrderList{
			Items: lo.Map(orders, func(o *models.Order, _ int) *OrderItem { return toOrderItem(o) }),
			Total: total,
		}))
	}
}

func RegisterAdminRoutes(r gin.IRouter, codes AdminInviteService, orders AdminOrderService) {
	r.POST("/invite-codes", ApiAdminCreateInviteCodes(codes))
	r.GET("/orders", ApiAdminListOrders(orders))
}
