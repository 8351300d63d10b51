package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/chenglongtech/membership/internal/app/api/middleware"
	"github.com/chenglongtech/membership/internal/app/service/invite"
	"github.com/chenglongtech/membership/internal/app/service/membership"
	"github.com/chenglongtech/membership/pkg/response"
)

// StatusService reports membership state with lazy expiry applied.
type StatusService interface {
	GetStatus(ctx context.Context, userID string) (*membership.Info, error)
}

// InviteService is the slice of the redemption engine the public invite
// endpoints need.
type InviteService interface {
	ValidateCode(ctx context.Context, code string) (*invite.CodeInfo, error)
	RedeemCode(ctx context.Context, userID, code string) (*invite.RedeemResult, error)
}

// @Summary      Membership status
// @Description  Returns the caller's membership state; a stale active membership is downgraded on read.
// @Tags         Membership
// @Produce      json
// @Success      200  {object}  response.APIResponse[membership.Info]
// @Router       /api/v1/membership/status [get]
func ApiMembershipStatus(svc StatusService) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := svc.GetStatus(c.Request.Context(), mw.UserID(c))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(info))
	}
}

// @Summary      Validate invite code
// @Description  Checks a code without claiming it.
// @Tags         Membership
// @Produce      json
// @Param        code query string true "Invite code"
// @Success      200  {object}  response.APIResponse[invite.CodeInfo]
// @Router       /api/v1/membership/invite-code [get]
func ApiValidateInviteCode(svc InviteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		if code == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing code"))
			return
		}

		info, err := svc.ValidateCode(c.Request.Context(), code)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](inviteErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(info))
	}
}

type redeemInviteCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// @Summary      Redeem invite code
// @Description  Claims a single-use code and extends the caller's membership.
// @Tags         Membership
// @Accept       json
// @Produce      json
// @Param        request body redeemInviteCodeRequest true "Redemption request"
// @Success      200  {object}  response.APIResponse[invite.RedeemResult]
// @Router       /api/v1/membership/invite-code [post]
func ApiRedeemInviteCode(svc InviteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req redeemInviteCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		res, err := svc.RedeemCode(c.Request.Context(), mw.UserID(c), req.Code)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](inviteErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func inviteErrCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, invite.ErrCodeNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, invite.ErrCodeUsed):
		return response.APIResponseCodeConflict
	case errors.Is(err, invite.ErrCodeExpired):
		return response.APIResponseCodeBadRequest
	default:
		return response.APIResponseCodeError
	}
}

// RegisterMembershipRoutes mounts status and invite endpoints. Code
// validation is public so the redeem form can check before login.
func RegisterMembershipRoutes(pub, authed gin.IRouter, status StatusService, codes InviteService) {
	pub.GET("/membership/invite-code", ApiValidateInviteCode(codes))
	authed.GET("/membership/status", ApiMembershipStatus(status))
	authed.POST("/membership/invite-code", ApiRedeemInviteCode(codes))
}
