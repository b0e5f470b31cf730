package notify

import (
	"fmt"

	"rutapay/internal/models"
)

// Event discriminators stored in Notification.Data["type"].
const (
	EventPayment           = "payment"
	EventRechargeConfirmed = "recharge_confirmed"
	EventRechargeRejected  = "recharge_rejected"
)

// Notice is one pending notification fan-out. It is serialized as the job
// payload on the queue, so every field must round-trip through JSON.
// DedupField/DedupID, when set, suppress a second insert for the same event
// (the sink is queried by data.type + data.<DedupField> before writing).
type Notice struct {
	Type       string                 `json:"type"`
	UserID     uint                   `json:"user_id"`
	Title      string                 `json:"title"`
	Body       string                 `json:"body"`
	Data       map[string]interface{} `json:"data"`
	DedupField string                 `json:"dedup_field,omitempty"`
	DedupID    uint                   `json:"dedup_id,omitempty"`
}

// PaymentReceived notifies the driver's owning user that a fare was paid.
// passenger may be nil when the display-name lookup failed; the payment is
// still announced, just anonymously.
func PaymentReceived(driverUserID uint, passenger *models.User, route *models.Route, p *models.Payment) Notice {
	passengerName := "Un pasajero"
	var passengerID uint
	if passenger != nil {
		passengerID = passenger.ID
		if passenger.Name != "" {
			passengerName = passenger.Name
		}
	}
	return Notice{
		Type:   EventPayment,
		UserID: driverUserID,
		Title:  "Pago recibido",
		Body:   fmt.Sprintf("%s pagó %s por la ruta %s", passengerName, p.Amount.StringFixed(2), route.Name),
		Data: map[string]interface{}{
			"type":           EventPayment,
			"payment_id":     p.ID,
			"passenger_id":   passengerID,
			"passenger_name": passengerName,
			"route_id":       route.ID,
			"route_name":     route.Name,
			"amount":         p.Amount.StringFixed(2),
		},
	}
}

// RechargeConfirmed notifies the wallet owner that the credit was applied.
// Deduplicated on recharge_id: re-confirming an already-confirmed recharge
// never produces a second notice.
func RechargeConfirmed(r *models.Recharge) Notice {
	return Notice{
		Type:   EventRechargeConfirmed,
		UserID: r.UserID,
		Title:  "Recarga confirmada",
		Body:   fmt.Sprintf("Tu recarga de %s fue confirmada y acreditada a tu saldo", r.Amount.StringFixed(2)),
		Data: map[string]interface{}{
			"type":        EventRechargeConfirmed,
			"recharge_id": r.ID,
			"amount":      r.Amount.StringFixed(2),
		},
		DedupField: "recharge_id",
		DedupID:    r.ID,
	}
}

// RechargeRejected notifies the wallet owner, including the admin-supplied
// reason when present.
func RechargeRejected(r *models.Recharge, reason string) Notice {
	body := fmt.Sprintf("Tu recarga de %s fue rechazada", r.Amount.StringFixed(2))
	if reason != "" {
		body += ": " + reason
	}
	return Notice{
		Type:   EventRechargeRejected,
		UserID: r.UserID,
		Title:  "Recarga rechazada",
		Body:   body,
		Data: map[string]interface{}{
			"type":        EventRechargeRejected,
			"recharge_id": r.ID,
			"amount":      r.Amount.StringFixed(2),
			"reason":      reason,
		},
		DedupField: "recharge_id",
		DedupID:    r.ID,
	}
}
