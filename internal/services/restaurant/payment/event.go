package payment

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
	"github.com/Tiago21221/brasa-e-lenha/internal/platform/id"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
)

// Event types the processor sends.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventPaymentIntentSucceeded   = "payment_intent.succeeded"
	EventPaymentIntentFailed      = "payment_intent.payment_failed"
)

// Event is the envelope of one webhook delivery.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData wraps the event object.
type EventData struct {
	Object json.RawMessage `json:"object"`
}

// EventObject is the subset of session and payment intent fields in use.
type EventObject struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ParseEvent decodes a webhook body.
func ParseEvent(body []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, apperrors.Wrap(apperrors.CodePaymentPayloadInvalid, "invalid payment payload", err)
	}
	if strings.TrimSpace(event.Type) == "" {
		return Event{}, apperrors.New(apperrors.CodePaymentPayloadInvalid, "payment event type is required")
	}
	return event, nil
}

// Object decodes the event object.
func (e Event) Object() (EventObject, error) {
	var object EventObject
	if len(e.Data.Object) == 0 {
		return object, apperrors.New(apperrors.CodePaymentPayloadInvalid, "payment event object is required")
	}
	if err := json.Unmarshal(e.Data.Object, &object); err != nil {
		return object, apperrors.Wrap(apperrors.CodePaymentPayloadInvalid, "invalid payment event object", err)
	}
	return object, nil
}

// NewSessionID issues an opaque checkout session id.
func NewSessionID() (string, error) {
	value, err := id.NewID()
	if err != nil {
		return "", err
	}
	return "cs_" + value, nil
}

// PaymentConfirmer marks the order opened with a session as paid.
type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, sessionID string) (domain.Order, error)
}

// Processor verifies and applies webhook deliveries.
type Processor struct {
	verifier  *Verifier
	confirmer PaymentConfirmer
}

// NewProcessor builds a processor. A nil verifier accepts unsigned digests.
func NewProcessor(verifier *Verifier, confirmer PaymentConfirmer) *Processor {
	if verifier == nil {
		verifier = &Verifier{}
	}
	return &Processor{verifier: verifier, confirmer: confirmer}
}

// Handle verifies signature, decodes body and applies the event. Events that
// do not change state, and sessions with no matching order, are acknowledged.
func (p *Processor) Handle(ctx context.Context, signature string, body []byte) (Event, error) {
	if err := p.verifier.Verify(signature, body); err != nil {
		return Event{}, err
	}
	event, err := ParseEvent(body)
	if err != nil {
		return Event{}, err
	}

	switch event.Type {
	case EventCheckoutSessionCompleted:
		object, err := event.Object()
		if err != nil {
			return Event{}, err
		}
		if p.confirmer == nil {
			return Event{}, domain.ErrStoreNotConfigured
		}
		order, err := p.confirmer.ConfirmPayment(ctx, object.ID)
		if err != nil {
			if apperrors.CodeOf(err) == apperrors.CodeOrderPaymentSessionNotFound {
				log.Printf("payment session has no order session=%s event=%s", object.ID, event.ID)
				return event, nil
			}
			return Event{}, err
		}
		log.Printf("payment confirmed order_id=%d session=%s", order.ID, object.ID)
	case EventPaymentIntentSucceeded, EventPaymentIntentFailed:
		object, _ := event.Object()
		log.Printf("payment event type=%s intent=%s", event.Type, object.ID)
	default:
		log.Printf("unhandled payment event type=%s", event.Type)
	}
	return event, nil
}
