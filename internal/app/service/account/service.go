package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chenglongtech/membership/internal/app/service/membership"
	models "github.com/chenglongtech/membership/internal/models"
	"github.com/chenglongtech/membership/internal/store"
	"github.com/chenglongtech/membership/pkg/password"
	"github.com/chenglongtech/membership/pkg/token"
	"github.com/chenglongtech/membership/pkg/tool"
	types "github.com/chenglongtech/membership/pkg/types"

	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

type Service struct {
	st     store.Store
	tokens token.Maker
	log    *zap.SugaredLogger
}

func NewService(st store.Store, tokens token.Maker, log *zap.SugaredLogger) *Service {
	return &Service{st: st, tokens: tokens, log: log}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is a profile plus a freshly issued bearer token.
type AuthResult struct {
	Account *models.Account
	Token   string
}

// Register creates an account with no membership and issues a token.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	if len(req.Password) < 6 {
		return nil, ErrWeakPassword
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	a := &models.Account{
		ID:               tool.GenerateUUIDV7(),
		Email:            email,
		PasswordHash:     hash,
		Name:             strings.TrimSpace(req.Name),
		MembershipType:   types.MembershipTypeNone,
		MembershipStatus: types.MembershipStatusNone,
	}
	if err := s.st.CreateAccount(ctx, a); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	t, err := s.tokens.Issue(a.ID, a.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.Infow("account registered", "user_id", a.ID)
	return &AuthResult{Account: a, Token: t}, nil
}

// Login verifies credentials, bumps the login counter, lazily corrects a
// stale active membership, and issues a token. The credential failure message
// never reveals whether the email exists.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	candidate, err := s.st.AccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if err := password.Compare(candidate.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	var a *models.Account
	err = s.st.Transact(ctx, func(tx store.Store) error {
		now := time.Now()
		locked, err := tx.AccountByIDForUpdate(ctx, candidate.ID)
		if err != nil {
			return err
		}
		locked.LoginCount++
		locked.LastLoginAt = &now
		membership.LazyExpire(locked, now)
		if err := tx.SaveAccount(ctx, locked); err != nil {
			return fmt.Errorf("failed to save account: %w", err)
		}
		a = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	t, err := s.tokens.Issue(a.ID, a.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Account: a, Token: t}, nil
}

// Profile returns the account without touching membership state.
func (s *Service) Profile(ctx context.Context, userID string) (*models.Account, error) {
	a, err := s.st.AccountByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

// GetStatus reports the membership state, lazily downgrading a stale active
// status. The downgrade runs under the account row lock so a concurrent
// extension serializes after it and ends up winning with its fresher
// snapshot.
func (s *Service) GetStatus(ctx context.Context, userID string) (*membership.Info, error) {
	var info membership.Info
	err := s.st.Transact(ctx, func(tx store.Store) error {
		now := time.Now()
		a, err := tx.AccountByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
		if membership.LazyExpire(a, now) {
			if err := tx.SaveAccount(ctx, a); err != nil {
				return fmt.Errorf("failed to persist lazy expiry: %w", err)
			}
			s.log.Infow("membership lazily expired", "user_id", userID)
		}
		info = membership.InfoOf(a, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}
