package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rutapay/internal/models"
	"rutapay/internal/repository"
)

// CreateDriverInput carries everything needed to open a driver account.
type CreateDriverInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	VehiclePlate string
	VehicleModel string
}

// DriverService creates driver accounts: a User row with role "driver" plus
// the Driver profile carrying the allocated boarding code.
type DriverService interface {
	Create(ctx context.Context, in CreateDriverInput) (*models.User, error)
	Delete(ctx context.Context, userID uint) error
}

type driverService struct {
	ledger repository.LedgerRepository
}

func NewDriverService(ledger repository.LedgerRepository) DriverService {
	return &driverService{ledger: ledger}
}

// Create allocates the next driver code (max existing + 1, starting at 101)
// and inserts user + driver in one transaction. The advisory lock keeps two
// concurrent creations from computing the same next code; the unique index
// on driver_code is the backstop.
func (s *driverService) Create(ctx context.Context, in CreateDriverInput) (*models.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.ledger.WithinTx(ctx, func(tx *gorm.DB) error {
		if err := s.ledger.AcquireDriverCodeLock(tx); err != nil {
			return err
		}
		code, err := s.ledger.NextDriverCode(tx)
		if err != nil {
			return err
		}

		u := &models.User{
			Name:     in.Name,
			Email:    in.Email,
			Password: string(hash),
			Phone:    in.Phone,
			Role:     models.RoleDriver,
		}
		if err := s.ledger.CreateUser(tx, u); err != nil {
			return err
		}

		d := &models.Driver{
			UserID:       u.ID,
			DriverCode:   code,
			VehiclePlate: in.VehiclePlate,
			VehicleModel: in.VehicleModel,
			IsAvailable:  true,
		}
		if err := s.ledger.CreateDriver(tx, d); err != nil {
			return err
		}
		u.Driver = d
		user = u
		return nil
	})
	if err != nil {
		// The gorm postgres driver is pgx-based, so unique violations
		// surface as *pgconn.PgError.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     user.ID,
		"driver_code": user.Driver.DriverCode,
	}).Info("driver account created")
	return user, nil
}

// Delete retires a driver account: the user row and the driver profile go
// in one transaction, so the boarding code stops resolving for payments.
// The code itself is never reallocated.
func (s *driverService) Delete(ctx context.Context, userID uint) error {
	u, err := s.ledger.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if u.Role != models.RoleDriver {
		return repository.ErrDriverNotFound
	}

	err = s.ledger.WithinTx(ctx, func(tx *gorm.DB) error {
		if err := s.ledger.DeleteDriverByUser(tx, userID); err != nil {
			return err
		}
		return s.ledger.DeleteUser(tx, userID)
	})
	if err != nil {
		return err
	}

	logrus.WithField("user_id", userID).Info("driver account deleted")
	return nil
}
