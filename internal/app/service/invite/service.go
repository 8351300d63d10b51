package invite

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/chenglongtech/membership/internal/app/service/membership"
	models "github.com/chenglongtech/membership/internal/models"
	"github.com/chenglongtech/membership/internal/store"
	"github.com/chenglongtech/membership/pkg/logctx"
	"github.com/chenglongtech/membership/pkg/metrics"
	"github.com/chenglongtech/membership/pkg/tool"
	types "github.com/chenglongtech/membership/pkg/types"

	"go.uber.org/zap"
)

// Code alphabet excludes 0/O/1/I to keep codes transcribable.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 12

const maxBatchSize = 1000

type Service struct {
	st  store.Store
	mts *metrics.Metrics
	log *zap.SugaredLogger
}

func NewService(st store.Store, mts *metrics.Metrics, log *zap.SugaredLogger) *Service {
	return &Service{st: st, mts: mts, log: log}
}

// CodeInfo is the public shape of a code check: which plan it grants and
// whether it is still claimable.
type CodeInfo struct {
	Code           string               `json:"code"`
	MembershipType types.MembershipType `json:"membership_type"`
	ExpiresAt      *time.Time           `json:"expires_at,omitempty"`
}

// RedeemResult is the outcome of a successful redemption. IsRenewal reports
// whether the redeemer held an in-force membership before the grant.
type RedeemResult struct {
	Code       string               `json:"code"`
	Plan       types.MembershipType `json:"plan"`
	Membership membership.Info      `json:"membership"`
	IsRenewal  bool                 `json:"is_renewal"`
}

// ValidateCode checks a code without claiming it. Used, expired and unknown
// codes each surface their own error so the caller can say why.
func (s *Service) ValidateCode(ctx context.Context, code string) (*CodeInfo, error) {
	c, err := s.st.InviteCodeByCode(ctx, normalize(code))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}
	if c.Used {
		return nil, ErrCodeUsed
	}
	if c.Expired(time.Now()) {
		return nil, ErrCodeExpired
	}
	return &CodeInfo{
		Code:           c.Code,
		MembershipType: c.MembershipType,
		ExpiresAt:      c.ExpiresAt,
	}, nil
}

// RedeemCode claims a code for userID and extends their membership with the
// code's plan. The claim and the membership write commit atomically: a failed
// account write leaves the code unburned. Of N concurrent redeemers of one
// code, exactly one succeeds; the rest observe ErrCodeUsed.
func (s *Service) RedeemCode(ctx context.Context, userID, code string) (*RedeemResult, error) {
	code = normalize(code)
	now := time.Now()

	var res *RedeemResult
	err := s.st.Transact(ctx, func(tx store.Store) error {
		c, err := tx.InviteCodeByCode(ctx, code)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrCodeNotFound
			}
			return err
		}
		if c.Used {
			return ErrCodeUsed
		}
		if c.Expired(now) {
			return ErrCodeExpired
		}

		claimed, err := tx.ClaimInviteCode(ctx, code, userID, now)
		if err != nil {
			return fmt.Errorf("failed to claim invite code: %w", err)
		}
		if !claimed {
			// Lost the race between the read and the compare-and-set.
			return ErrCodeUsed
		}

		a, err := tx.AccountByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		isRenewal := membership.SnapshotOf(a).ActiveAt(now)
		membership.Apply(a, c.MembershipType, now)
		if err := tx.SaveAccount(ctx, a); err != nil {
			return fmt.Errorf("failed to extend membership: %w", err)
		}

		res = &RedeemResult{
			Code:       c.Code,
			Plan:       c.MembershipType,
			Membership: membership.InfoOf(a, now),
			IsRenewal:  isRenewal,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mts.CodesRedeemed.WithLabelValues(string(res.Plan)).Inc()
	logctx.FromCtx(ctx, s.log).Infow("invite code redeemed",
		"code", res.Code, "user_id", userID, "plan", res.Plan, "is_renewal", res.IsRenewal)
	return res, nil
}

// BatchCreate provisions count single-use codes for a plan, all sharing one
// batch id. expiresAt nil means the codes never expire.
func (s *Service) BatchCreate(ctx context.Context, plan types.MembershipType, count int, expiresAt *time.Time) ([]*models.InviteCode, error) {
	if !plan.Valid() || count < 1 || count > maxBatchSize {
		return nil, ErrInvalidBatch
	}

	batchID := tool.GenerateUUIDV7()
	codes := make([]*models.InviteCode, 0, count)
	for i := 0; i < count; i++ {
		code, err := generateCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate invite code: %w", err)
		}
		codes = append(codes, &models.InviteCode{
			ID:             tool.GenerateUUIDV7(),
			Code:           code,
			MembershipType: plan,
			ExpiresAt:      expiresAt,
			BatchID:        batchID,
		})
	}

	if err := s.st.CreateInviteCodes(ctx, codes); err != nil {
		return nil, fmt.Errorf("failed to provision invite codes: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("invite code batch provisioned",
		"batch_id", batchID, "plan", plan, "count", count)
	return codes, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func generateCode() (string, error) {
	b := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}
