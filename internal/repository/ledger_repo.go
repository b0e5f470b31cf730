package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rutapay/internal/models"
)

// Codes start at 101: allocation is MAX(existing) + 1 with this floor.
const driverCodeFloor = 100

// Advisory lock key serializing driver-code allocation across instances.
const driverCodeLockKey = 4207

// LedgerRepository owns every durable mutation of money and fleet state.
// All multi-statement sequences run inside WithinTx; the Lock* methods take
// exclusive row locks (SELECT ... FOR UPDATE) so concurrent confirmations of
// the same recharge, or credits to the same user, serialize at the database.
type LedgerRepository interface {
	// WithinTx runs fn inside one transaction; any error rolls back every
	// mutation made through tx.
	WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	LockRecharge(tx *gorm.DB, id uint) (*models.Recharge, error)
	LockUser(tx *gorm.DB, id uint) (*models.User, error)
	CreditBalance(tx *gorm.DB, userID uint, amount decimal.Decimal) error
	SaveRecharge(tx *gorm.DB, r *models.Recharge) error
	CreatePayment(tx *gorm.DB, p *models.Payment) error

	CreateRecharge(ctx context.Context, r *models.Recharge) error
	ListRechargesByUser(ctx context.Context, userID uint) ([]models.Recharge, error)
	ListRechargesByStatus(ctx context.Context, status string) ([]models.Recharge, error)

	ListPaymentsByPassenger(ctx context.Context, passengerID uint) ([]models.Payment, error)
	ListPaymentsByDriver(ctx context.Context, driverID uint) ([]models.Payment, error)

	FindDriverByCode(ctx context.Context, code string) (*models.Driver, error)
	FindDriverByUser(ctx context.Context, userID uint) (*models.Driver, error)
	FindRoute(ctx context.Context, id uint) (*models.Route, error)
	FindUser(ctx context.Context, id uint) (*models.User, error)

	// Driver creation: allocation and insert share one transaction, guarded
	// by an advisory lock so two concurrent creations cannot compute the
	// same next code.
	AcquireDriverCodeLock(tx *gorm.DB) error
	NextDriverCode(tx *gorm.DB) (string, error)
	CreateUser(tx *gorm.DB, u *models.User) error
	CreateDriver(tx *gorm.DB, d *models.Driver) error

	// Driver removal: both rows are soft-deleted in one transaction, so the
	// code stops resolving for payments but stays in the allocation MAX.
	DeleteDriverByUser(tx *gorm.DB, userID uint) error
	DeleteUser(tx *gorm.DB, id uint) error
}

type ledgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *ledgerRepo) LockRecharge(tx *gorm.DB, id uint) (*models.Recharge, error) {
	var rec models.Recharge
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRechargeNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *ledgerRepo) LockUser(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *ledgerRepo) CreditBalance(tx *gorm.DB, userID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *ledgerRepo) SaveRecharge(tx *gorm.DB, rec *models.Recharge) error {
	return tx.Save(rec).Error
}

func (r *ledgerRepo) CreatePayment(tx *gorm.DB, p *models.Payment) error {
	return tx.Create(p).Error
}

func (r *ledgerRepo) CreateRecharge(ctx context.Context, rec *models.Recharge) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *ledgerRepo) ListRechargesByUser(ctx context.Context, userID uint) ([]models.Recharge, error) {
	var recs []models.Recharge
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recs).Error
	return recs, err
}

func (r *ledgerRepo) ListRechargesByStatus(ctx context.Context, status string) ([]models.Recharge, error) {
	var recs []models.Recharge
	q := r.db.WithContext(ctx).Preload("User").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&recs).Error
	return recs, err
}

func (r *ledgerRepo) ListPaymentsByPassenger(ctx context.Context, passengerID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Route").
		Where("passenger_id = ?", passengerID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *ledgerRepo) ListPaymentsByDriver(ctx context.Context, driverID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Passenger").
		Preload("Route").
		Where("driver_id = ?", driverID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *ledgerRepo) FindDriverByCode(ctx context.Context, code string) (*models.Driver, error) {
	var driver models.Driver
	err := r.db.WithContext(ctx).Where("driver_code = ?", code).First(&driver).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return &driver, nil
}

func (r *ledgerRepo) FindDriverByUser(ctx context.Context, userID uint) (*models.Driver, error) {
	var driver models.Driver
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&driver).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return &driver, nil
}

func (r *ledgerRepo) FindRoute(ctx context.Context, id uint) (*models.Route, error) {
	var route models.Route
	err := r.db.WithContext(ctx).First(&route, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return &route, nil
}

func (r *ledgerRepo) FindUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *ledgerRepo) AcquireDriverCodeLock(tx *gorm.DB) error {
	// Transaction-scoped; released automatically at commit/rollback.
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", driverCodeLockKey).Error
}

func (r *ledgerRepo) NextDriverCode(tx *gorm.DB) (string, error) {
	// Soft-deleted rows stay in the MAX so codes are never reused.
	var max int64
	err := tx.Raw(
		"SELECT COALESCE(MAX(driver_code::integer), ?) FROM drivers",
		driverCodeFloor,
	).Scan(&max).Error
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(max+1, 10), nil
}

func (r *ledgerRepo) CreateUser(tx *gorm.DB, u *models.User) error {
	return tx.Create(u).Error
}

func (r *ledgerRepo) CreateDriver(tx *gorm.DB, d *models.Driver) error {
	return tx.Create(d).Error
}

func (r *ledgerRepo) DeleteDriverByUser(tx *gorm.DB, userID uint) error {
	return tx.Where("user_id = ?", userID).Delete(&models.Driver{}).Error
}

func (r *ledgerRepo) DeleteUser(tx *gorm.DB, id uint) error {
	return tx.Delete(&models.User{}, id).Error
}
