package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rutapay/internal/models"
	"rutapay/internal/notify"
	"rutapay/internal/repository"
)

// ConfirmResult reports the outcome of a confirm call. AlreadyConfirmed is
// the idempotency contract: a repeat confirm succeeds without mutating
// anything, and callers can tell the two outcomes apart.
type ConfirmResult struct {
	Recharge         *models.Recharge
	AlreadyConfirmed bool
}

// RechargeService owns the recharge life cycle: request, then exactly one of
// confirm (credits the wallet exactly once) or reject (never touches money).
type RechargeService interface {
	Request(ctx context.Context, userID uint, amount decimal.Decimal, reference string) (*models.Recharge, error)
	Confirm(ctx context.Context, rechargeID, actingAdminID uint) (*ConfirmResult, error)
	Reject(ctx context.Context, rechargeID uint, reason string, actingAdminID uint) (*models.Recharge, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Recharge, error)
	ListByStatus(ctx context.Context, status string) ([]models.Recharge, error)
}

type rechargeService struct {
	ledger   repository.LedgerRepository
	notifier Notifier
}

func NewRechargeService(ledger repository.LedgerRepository, notifier Notifier) RechargeService {
	return &rechargeService{ledger: ledger, notifier: notifier}
}

func (s *rechargeService) Request(ctx context.Context, userID uint, amount decimal.Decimal, reference string) (*models.Recharge, error) {
	if !amount.IsPositive() {
		return nil, repository.ErrInvalidAmount
	}
	if _, err := s.ledger.FindUser(ctx, userID); err != nil {
		return nil, err
	}
	rec := &models.Recharge{
		UserID:    userID,
		Amount:    amount,
		Reference: strings.TrimSpace(reference),
		Status:    models.RechargePending,
	}
	if err := s.ledger.CreateRecharge(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Confirm moves a pending recharge to "confirmada", crediting the owner's
// balance exactly once no matter how many times it is invoked. The row
// lock taken first serializes concurrent confirmers: the second caller blocks
// until the first commits, then observes applied=true and no-ops.
func (s *rechargeService) Confirm(ctx context.Context, rechargeID, actingAdminID uint) (*ConfirmResult, error) {
	var (
		rec     *models.Recharge
		already bool
	)
	err := s.ledger.WithinTx(ctx, func(tx *gorm.DB) error {
		r, err := s.ledger.LockRecharge(tx, rechargeID)
		if err != nil {
			return err
		}
		if r.Terminal() {
			if r.Status == models.RechargeRejected {
				return ErrRechargeFinalized
			}
			if r.Applied {
				already = true
				rec = r
				return nil
			}
			// Confirmed but unapplied: a prior attempt failed between the
			// status write and the credit. Apply the credit now, once.
		}

		if !r.Applied {
			if _, err := s.ledger.LockUser(tx, r.UserID); err != nil {
				return err
			}
			if err := s.ledger.CreditBalance(tx, r.UserID, r.Amount); err != nil {
				return err
			}
		}

		r.Status = models.RechargeConfirmed
		r.Applied = true
		if err := s.ledger.SaveRecharge(tx, r); err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if already {
		logrus.WithFields(logrus.Fields{
			"recharge_id": rechargeID,
			"admin_id":    actingAdminID,
		}).Info("recharge already confirmed, no-op")
		return &ConfirmResult{Recharge: rec, AlreadyConfirmed: true}, nil
	}

	logrus.WithFields(logrus.Fields{
		"recharge_id": rec.ID,
		"user_id":     rec.UserID,
		"amount":      rec.Amount.StringFixed(2),
		"admin_id":    actingAdminID,
	}).Info("recharge confirmed, balance credited")

	// Post-commit, best effort. The sink dedups on recharge_id, so a crash
	// between commit and dispatch followed by a retry still yields one notice.
	s.notifier.Dispatch(ctx, notify.RechargeConfirmed(rec))

	return &ConfirmResult{Recharge: rec}, nil
}

// Reject moves a pending recharge to "rechazada". It never touches any
// balance. Re-rejecting a rejected recharge is a no-op; rejecting a
// confirmed one is refused.
func (s *rechargeService) Reject(ctx context.Context, rechargeID uint, reason string, actingAdminID uint) (*models.Recharge, error) {
	var (
		rec     *models.Recharge
		already bool
	)
	err := s.ledger.WithinTx(ctx, func(tx *gorm.DB) error {
		r, err := s.ledger.LockRecharge(tx, rechargeID)
		if err != nil {
			return err
		}
		if r.Terminal() {
			if r.Status == models.RechargeConfirmed {
				return ErrRechargeFinalized
			}
			already = true
			rec = r
			return nil
		}
		r.Status = models.RechargeRejected
		if err := s.ledger.SaveRecharge(tx, r); err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !already {
		logrus.WithFields(logrus.Fields{
			"recharge_id": rec.ID,
			"admin_id":    actingAdminID,
			"reason":      reason,
		}).Info("recharge rejected")
		s.notifier.Dispatch(ctx, notify.RechargeRejected(rec, reason))
	}
	return rec, nil
}

func (s *rechargeService) ListForUser(ctx context.Context, userID uint) ([]models.Recharge, error) {
	return s.ledger.ListRechargesByUser(ctx, userID)
}

func (s *rechargeService) ListByStatus(ctx context.Context, status string) ([]models.Recharge, error) {
	return s.ledger.ListRechargesByStatus(ctx, status)
}
