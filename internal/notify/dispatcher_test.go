package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rutapay/internal/models"
)

// memorySink stores notifications in memory and answers ExistsForEvent by
// decoding the stored payloads, the same way the JSON query does in Postgres.
type memorySink struct {
	mu    sync.Mutex
	notes []models.Notification
	fail  bool
}

func (s *memorySink) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink down")
	}
	n.ID = uint(len(s.notes) + 1)
	s.notes = append(s.notes, *n)
	return nil
}

func (s *memorySink) ExistsForEvent(_ context.Context, eventType, entityField string, entityID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return false, errors.New("sink down")
	}
	for _, n := range s.notes {
		var data map[string]interface{}
		if err := json.Unmarshal(n.Data, &data); err != nil {
			continue
		}
		if data["type"] != eventType {
			continue
		}
		if id, ok := data[entityField].(float64); ok && uint(id) == entityID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memorySink) ListForUser(_ context.Context, userID uint, _, _ int, _ bool) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *memorySink) FindByID(_ context.Context, id uint) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			return &s.notes[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (s *memorySink) MarkRead(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == n.ID {
			s.notes[i].Read = true
		}
	}
	n.Read = true
	return nil
}

func (s *memorySink) CountUnread(_ context.Context, userID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.notes {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *memorySink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

func testRecharge() *models.Recharge {
	r := &models.Recharge{
		UserID: 7,
		Amount: decimal.NewFromFloat(50),
		Status: models.RechargeConfirmed,
	}
	r.ID = 31
	return r
}

func TestDispatchInlineWithoutRedis(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(nil, sink)

	d.Dispatch(context.Background(), RechargeConfirmed(testRecharge()))

	require.Equal(t, 1, sink.count())
	notes, _ := sink.ListForUser(context.Background(), 7, 20, 0, false)
	require.Len(t, notes, 1)
	assert.Equal(t, "Recarga confirmada", notes[0].Title)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(notes[0].Data, &data))
	assert.Equal(t, EventRechargeConfirmed, data["type"])
	assert.Equal(t, float64(31), data["recharge_id"])
	assert.Equal(t, "50.00", data["amount"])
}

func TestDeliverSuppressesDuplicateConfirmations(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(nil, sink)

	notice := RechargeConfirmed(testRecharge())
	d.Dispatch(context.Background(), notice)
	d.Dispatch(context.Background(), notice)

	assert.Equal(t, 1, sink.count(), "a confirmation retry must not produce a second notice")
}

func TestPaymentNoticesAreNotDeduplicated(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(nil, sink)

	driverUserID := uint(5)
	passenger := &models.User{Name: "Pedro"}
	passenger.ID = 2
	route := &models.Route{Name: "Centro", Fare: decimal.NewFromFloat(15.50)}
	route.ID = 3

	first := &models.Payment{Amount: decimal.NewFromFloat(15.50)}
	first.ID = 11
	second := &models.Payment{Amount: decimal.NewFromFloat(15.50)}
	second.ID = 12

	// Two distinct trips are two distinct notices.
	d.Dispatch(context.Background(), PaymentReceived(driverUserID, passenger, route, first))
	d.Dispatch(context.Background(), PaymentReceived(driverUserID, passenger, route, second))

	assert.Equal(t, 2, sink.count())
}

func TestDispatchSwallowsSinkFailure(t *testing.T) {
	sink := &memorySink{fail: true}
	d := NewDispatcher(nil, sink)

	// Must neither panic nor surface the failure.
	d.Dispatch(context.Background(), RechargeConfirmed(testRecharge()))

	assert.Equal(t, 0, sink.count())
}

func TestPaymentNoticeFallsBackToAnonymousPassenger(t *testing.T) {
	route := &models.Route{Name: "Centro", Fare: decimal.NewFromFloat(10)}
	route.ID = 3
	p := &models.Payment{Amount: decimal.NewFromFloat(10)}
	p.ID = 11

	n := PaymentReceived(5, nil, route, p)
	assert.Equal(t, "Un pasajero", n.Data["passenger_name"])
	assert.Equal(t, uint(0), n.Data["passenger_id"])
	assert.Contains(t, n.Body, "Un pasajero")
}

func TestRechargeRejectedNoticeCarriesReason(t *testing.T) {
	r := testRecharge()
	r.Status = models.RechargeRejected

	n := RechargeRejected(r, "comprobante inválido")
	assert.Equal(t, EventRechargeRejected, n.Type)
	assert.Contains(t, n.Body, "comprobante inválido")
	assert.Equal(t, "comprobante inválido", n.Data["reason"])
	assert.Equal(t, "recharge_id", n.DedupField)
	assert.Equal(t, r.ID, n.DedupID)
}

func TestJobEnvelopeRoundTrips(t *testing.T) {
	j := job{ID: "abc", Notice: RechargeConfirmed(testRecharge())}
	raw, err := json.Marshal(j)
	require.NoError(t, err)

	var decoded job
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, j.ID, decoded.ID)
	assert.Equal(t, j.Notice.Type, decoded.Notice.Type)
	assert.Equal(t, j.Notice.UserID, decoded.Notice.UserID)
	assert.Equal(t, j.Notice.DedupID, decoded.Notice.DedupID)
}
