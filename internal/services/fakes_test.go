package services

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rutapay/internal/models"
	"rutapay/internal/notify"
	"rutapay/internal/repository"
)

// ── In-memory LedgerRepository ───────────────────────────────────────────────
//
// WithinTx holds the repo mutex for the whole callback, which mirrors what the
// row locks give the real store: concurrent transactions touching the same
// rows serialize. The tx-scoped methods therefore never lock themselves — they
// are only ever called under WithinTx. A snapshot taken at transaction start
// restores all state when the callback errors, emulating rollback.

type fakeLedger struct {
	mu        sync.Mutex
	users     map[uint]*models.User
	drivers   map[uint]*models.Driver
	routes    map[uint]*models.Route
	recharges map[uint]*models.Recharge
	payments  []*models.Payment
	nextID    uint

	// Highest code among removed drivers. The real allocation query still
	// sees soft-deleted rows, so retired codes keep counting toward the max.
	retiredMax int64

	failCreatePayment bool
	failCredit        bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		users:     make(map[uint]*models.User),
		drivers:   make(map[uint]*models.Driver),
		routes:    make(map[uint]*models.Route),
		recharges: make(map[uint]*models.Recharge),
		nextID:    1,
	}
}

func (f *fakeLedger) id() uint {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeLedger) addUser(u *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		u.ID = f.id()
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeLedger) addDriver(d *models.Driver) *models.Driver {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == 0 {
		d.ID = f.id()
	}
	f.drivers[d.ID] = d
	return d
}

func (f *fakeLedger) addRoute(r *models.Route) *models.Route {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == 0 {
		r.ID = f.id()
	}
	f.routes[r.ID] = r
	return r
}

func (f *fakeLedger) addRecharge(r *models.Recharge) *models.Recharge {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == 0 {
		r.ID = f.id()
	}
	f.recharges[r.ID] = r
	return r
}

func (f *fakeLedger) balance(userID uint) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID].Balance
}

type ledgerSnapshot struct {
	users      map[uint]models.User
	drivers    map[uint]models.Driver
	recharges  map[uint]models.Recharge
	payments   int
	nextID     uint
	retiredMax int64
}

func (f *fakeLedger) snapshot() ledgerSnapshot {
	s := ledgerSnapshot{
		users:      make(map[uint]models.User, len(f.users)),
		drivers:    make(map[uint]models.Driver, len(f.drivers)),
		recharges:  make(map[uint]models.Recharge, len(f.recharges)),
		payments:   len(f.payments),
		nextID:     f.nextID,
		retiredMax: f.retiredMax,
	}
	for id, u := range f.users {
		s.users[id] = *u
	}
	for id, d := range f.drivers {
		s.drivers[id] = *d
	}
	for id, r := range f.recharges {
		s.recharges[id] = *r
	}
	return s
}

func (f *fakeLedger) restore(s ledgerSnapshot) {
	f.users = make(map[uint]*models.User, len(s.users))
	for id, u := range s.users {
		u := u
		f.users[id] = &u
	}
	f.drivers = make(map[uint]*models.Driver, len(s.drivers))
	for id, d := range s.drivers {
		d := d
		f.drivers[id] = &d
	}
	f.recharges = make(map[uint]*models.Recharge, len(s.recharges))
	for id, r := range s.recharges {
		r := r
		f.recharges[id] = &r
	}
	f.payments = f.payments[:s.payments]
	f.nextID = s.nextID
	f.retiredMax = s.retiredMax
}

func (f *fakeLedger) WithinTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := f.snapshot()
	if err := fn(nil); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

func (f *fakeLedger) LockRecharge(_ *gorm.DB, id uint) (*models.Recharge, error) {
	r, ok := f.recharges[id]
	if !ok {
		return nil, repository.ErrRechargeNotFound
	}
	return r, nil
}

func (f *fakeLedger) LockUser(_ *gorm.DB, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeLedger) CreditBalance(_ *gorm.DB, userID uint, amount decimal.Decimal) error {
	if f.failCredit {
		return errors.New("credit failed")
	}
	if !amount.IsPositive() {
		return repository.ErrInvalidAmount
	}
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Balance = u.Balance.Add(amount)
	return nil
}

func (f *fakeLedger) SaveRecharge(_ *gorm.DB, r *models.Recharge) error {
	f.recharges[r.ID] = r
	return nil
}

func (f *fakeLedger) CreatePayment(_ *gorm.DB, p *models.Payment) error {
	if f.failCreatePayment {
		return errors.New("insert failed")
	}
	p.ID = f.id()
	f.payments = append(f.payments, p)
	return nil
}

func (f *fakeLedger) CreateRecharge(_ context.Context, r *models.Recharge) error {
	f.addRecharge(r)
	return nil
}

func (f *fakeLedger) ListRechargesByUser(_ context.Context, userID uint) ([]models.Recharge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Recharge
	for _, r := range f.recharges {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListRechargesByStatus(_ context.Context, status string) ([]models.Recharge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Recharge
	for _, r := range f.recharges {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListPaymentsByPassenger(_ context.Context, passengerID uint) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.PassengerID == passengerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListPaymentsByDriver(_ context.Context, driverID uint) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.DriverID == driverID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeLedger) FindDriverByCode(_ context.Context, code string) (*models.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.drivers {
		if d.DriverCode == code {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrDriverNotFound
}

func (f *fakeLedger) FindDriverByUser(_ context.Context, userID uint) (*models.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.drivers {
		if d.UserID == userID {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrDriverNotFound
}

func (f *fakeLedger) FindRoute(_ context.Context, id uint) (*models.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.routes[id]
	if !ok {
		return nil, repository.ErrRouteNotFound
	}
	copy := *r
	return &copy, nil
}

func (f *fakeLedger) FindUser(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copy := *u
	return &copy, nil
}

func (f *fakeLedger) AcquireDriverCodeLock(_ *gorm.DB) error {
	return nil
}

func (f *fakeLedger) NextDriverCode(_ *gorm.DB) (string, error) {
	max := f.retiredMax
	if max < 100 {
		max = 100
	}
	for _, d := range f.drivers {
		if n, err := strconv.ParseInt(d.DriverCode, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return strconv.FormatInt(max+1, 10), nil
}

func (f *fakeLedger) CreateUser(_ *gorm.DB, u *models.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			// Same shape the pgx-based driver produces for a unique index hit.
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
		}
	}
	u.ID = f.id()
	f.users[u.ID] = u
	return nil
}

func (f *fakeLedger) CreateDriver(_ *gorm.DB, d *models.Driver) error {
	d.ID = f.id()
	f.drivers[d.ID] = d
	return nil
}

func (f *fakeLedger) DeleteDriverByUser(_ *gorm.DB, userID uint) error {
	for id, d := range f.drivers {
		if d.UserID == userID {
			if n, err := strconv.ParseInt(d.DriverCode, 10, 64); err == nil && n > f.retiredMax {
				f.retiredMax = n
			}
			delete(f.drivers, id)
		}
	}
	return nil
}

func (f *fakeLedger) DeleteUser(_ *gorm.DB, id uint) error {
	delete(f.users, id)
	return nil
}

// ── Recording Notifier ───────────────────────────────────────────────────────

type fakeNotifier struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (n *fakeNotifier) Dispatch(_ context.Context, notice notify.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *fakeNotifier) all() []notify.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Notice, len(n.notices))
	copy(out, n.notices)
	return out
}
