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

// Notifier fans out a notice after the owning transaction has committed.
// Implementations must never fail the caller.
type Notifier interface {
	Dispatch(ctx context.Context, n notify.Notice)
}

// PaymentService executes passenger→driver fare payments. The caller is
// trusted to be an authenticated passenger; role checks happen upstream.
type PaymentService interface {
	// Pay resolves the driver by code and the route fare, inserts the
	// immutable payment row, and notifies the driver best-effort.
	Pay(ctx context.Context, passengerID uint, driverCode string, routeID uint) (*models.Payment, error)

	ListForPassenger(ctx context.Context, passengerID uint) ([]models.Payment, error)

	// EarningsForDriverUser lists payments received by the driver owned by
	// userID, newest first, with their total.
	EarningsForDriverUser(ctx context.Context, userID uint) ([]models.Payment, decimal.Decimal, error)
}

type paymentService struct {
	ledger   repository.LedgerRepository
	notifier Notifier
}

func NewPaymentService(ledger repository.LedgerRepository, notifier Notifier) PaymentService {
	return &paymentService{ledger: ledger, notifier: notifier}
}

func (s *paymentService) Pay(ctx context.Context, passengerID uint, driverCode string, routeID uint) (*models.Payment, error) {
	code := strings.TrimSpace(driverCode)
	if code == "" || routeID == 0 {
		return nil, ErrInvalidInput
	}

	// Driver.ID keys the payment row; Driver.UserID receives the notice.
	driver, err := s.ledger.FindDriverByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	route, err := s.ledger.FindRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	// Display name only; a failed lookup must not abort the payment.
	passenger, err := s.ledger.FindUser(ctx, passengerID)
	if err != nil {
		logrus.WithError(err).WithField("passenger_id", passengerID).
			Warn("passenger lookup failed, paying anonymously")
		passenger = nil
	}

	payment := &models.Payment{
		PassengerID: passengerID,
		DriverID:    driver.ID,
		RouteID:     route.ID,
		Amount:      route.Fare,
	}
	err = s.ledger.WithinTx(ctx, func(tx *gorm.DB) error {
		return s.ledger.CreatePayment(tx, payment)
	})
	if err != nil {
		return nil, err
	}

	// Committed and irreversible from here on; the notice must not undo it.
	s.notifier.Dispatch(ctx, notify.PaymentReceived(driver.UserID, passenger, route, payment))

	return payment, nil
}

func (s *paymentService) ListForPassenger(ctx context.Context, passengerID uint) ([]models.Payment, error) {
	return s.ledger.ListPaymentsByPassenger(ctx, passengerID)
}

func (s *paymentService) EarningsForDriverUser(ctx context.Context, userID uint) ([]models.Payment, decimal.Decimal, error) {
	driver, err := s.ledger.FindDriverByUser(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	payments, err := s.ledger.ListPaymentsByDriver(ctx, driver.ID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return payments, total, nil
}
