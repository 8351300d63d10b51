package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	mw "github.com/chenglongtech/membership/internal/app/api/middleware"
	"github.com/chenglongtech/membership/internal/app/service/account"
	models "github.com/chenglongtech/membership/internal/models"
	"github.com/chenglongtech/membership/pkg/response"
	types "github.com/chenglongtech/membership/pkg/types"
)

// AccountService is the slice of the account engine the auth handlers need.
type AccountService interface {
	Register(ctx context.Context, req *account.RegisterRequest) (*account.AuthResult, error)
	Login(ctx context.Context, req *account.LoginRequest) (*account.AuthResult, error)
	Profile(ctx context.Context, userID string) (*models.Account, error)
}

// Profile is the account shape returned to clients. The password hash never
// leaves the service, but the DTO keeps the surface explicit anyway.
type Profile struct {
	ID                  string                 `json:"id"`
	Email               string                 `json:"email"`
	Name                string                 `json:"name"`
	Avatar              string                 `json:"avatar,omitempty"`
	MembershipType      types.MembershipType   `json:"membership_type"`
	MembershipStatus    types.MembershipStatus `json:"membership_status"`
	MembershipExpiresAt *time.Time             `json:"membership_expires_at,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
}

type authResp struct {
	User  *Profile `json:"user"`
	Token string   `json:"token"`
}

func toProfile(a *models.Account) *Profile {
	return &Profile{
		ID:                  a.ID,
		Email:               a.Email,
		Name:                a.Name,
		Avatar:              a.Avatar,
		MembershipType:      a.MembershipType,
		MembershipStatus:    a.MembershipStatus,
		MembershipExpiresAt: a.MembershipExpiresAt,
		CreatedAt:           a.CreatedAt,
	}
}

// @Summary      Register
// @Description  Creates an account and returns the profile with a bearer token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body account.RegisterRequest true "Registration request"
// @Success      200  {object}  response.APIResponse[authResp]
// @Router       /api/v1/auth/register [post]
func ApiRegister(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req account.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		res, err := svc.Register(c.Request.Context(), &req)
		if err != nil {
			switch {
			case errors.Is(err, account.ErrEmailTaken):
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeConflict, err.Error()))
			case errors.Is(err, account.ErrWeakPassword):
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			default:
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			}
			return
		}
		c.JSON(http.StatusOK, response.OKT(authResp{User: toProfile(res.Account), Token: res.Token}))
	}
}

// @Summary      Login
// @Description  Verifies credentials and returns the profile with a fresh token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body account.LoginRequest true "Login request"
// @Success      200  {object}  response.APIResponse[authResp]
// @Router       /api/v1/auth/login [post]
func ApiLogin(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req account.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		res, err := svc.Login(c.Request.Context(), &req)
		if err != nil {
			if errors.Is(err, account.ErrInvalidCredentials) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeUnauthorized, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(authResp{User: toProfile(res.Account), Token: res.Token}))
	}
}

// @Summary      Me
// @Description  Returns the authenticated profile.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  response.APIResponse[Profile]
// @Router       /api/v1/auth/me [get]
func ApiMe(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := svc.Profile(c.Request.Context(), mw.UserID(c))
		if err != nil {
			if errors.Is(err, account.ErrAccountNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(toProfile(a)))
	}
}

// RegisterAuthRoutes mounts the public auth endpoints on pub and the
// token-protected ones on authed.
func RegisterAuthRoutes(pub, authed gin.IRouter, svc AccountService) {
	pub.POST("/auth/register", ApiRegister(svc))
	pub.POST("/auth/login", ApiLogin(svc))
	authed.GET("/auth/me", ApiMe(svc))
}
