package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

// SMSSender - канал доставки SMS
type SMSSender interface {
	Send(ctx context.Context, to, body string) (messageID string, err error)
}

// ResponderFinder ищет сотрудников на дежурстве рядом с точкой
type ResponderFinder interface {
	FindNearbyOnDuty(ctx context.Context, point models.Point, radiusMeters float64) ([]*models.Authority, error)
}

// EventPublisher публикует событие для клиентов служб
type EventPublisher interface {
	Publish(ctx context.Context, event models.BroadcastEvent) error
}

// sendTimeout ограничивает отправку, продолжающуюся в фоне после таймаута рассылки
const sendTimeout = 30 * time.Second

// Dispatcher рассылает SMS экстренным контактам и события службам.
// Доставка best-effort: ошибки не возвращаются, а отражаются в DeliveryResult.
type Dispatcher struct {
	sms             SMSSender
	responders      ResponderFinder
	publisher       EventPublisher
	responderRadius float64
	logger          *logrus.Logger
	now             func() time.Time
}

// NewDispatcher создает диспетчер; sms, responders и publisher могут быть nil
func NewDispatcher(sms SMSSender, responders ResponderFinder, publisher EventPublisher, responderRadius float64, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		sms:             sms,
		responders:      responders,
		publisher:       publisher,
		responderRadius: responderRadius,
		logger:          logger,
		now:             time.Now,
	}
}

type indexedResult struct {
	i      int
	result models.DeliveryResult
}

// NotifyContacts отправляет SMS всем контактам параллельно и ждет до отмены ctx.
// Незавершенные к этому моменту отправки помечаются pending и продолжаются в фоне.
func (d *Dispatcher) NotifyContacts(ctx context.Context, alert *models.Alert, contacts []models.EmergencyContact) []models.DeliveryResult {
	log := d.logger.WithFields(logrus.Fields{
		"component": "dispatcher",
		"method":    "NotifyContacts",
		"alert_id":  alert.ID,
	})

	results := make([]models.DeliveryResult, len(contacts))
	done := make([]bool, len(contacts))
	body := smsBody(alert)
	ch := make(chan indexedResult, len(contacts))
	inFlight := 0

	for i, c := range contacts {
		results[i] = models.DeliveryResult{
			ContactID:  c.ID,
			Name:       c.Name,
			Phone:      c.Phone,
			Method:     models.MethodSMS,
			NotifiedAt: d.now(),
		}
		switch {
		case strings.TrimSpace(c.Phone) == "":
			results[i].DeliveryStatus = models.DeliveryFailed
			results[i].Error = "contact has no phone number"
			done[i] = true
		case d.sms == nil:
			results[i].DeliveryStatus = models.DeliverySkipped
			results[i].Error = "sms channel is not configured"
			done[i] = true
		default:
			inFlight++
			go d.send(ctx, i, results[i], body, ch, log)
		}
	}

	for inFlight > 0 {
		select {
		case r := <-ch:
			results[r.i] = r.result
			done[r.i] = true
			inFlight--
		case <-ctx.Done():
			for i := range results {
				if !done[i] {
					results[i].DeliveryStatus = models.DeliveryPending
				}
			}
			log.WithField("pending", inFlight).Warn("Dispatch timeout reached, sends continue in background")
			return results
		}
	}
	return results
}

func (d *Dispatcher) send(ctx context.Context, i int, result models.DeliveryResult, body string, out chan<- indexedResult, log *logrus.Entry) {
	// отправка не прерывается таймаутом рассылки
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	id, err := d.sms.Send(sendCtx, result.Phone, body)
	if err != nil {
		result.DeliveryStatus = models.DeliveryFailed
		result.Error = err.Error()
		log.WithError(err).WithField("contact_id", result.ContactID).Warn("SMS delivery failed")
	} else {
		result.DeliveryStatus = models.DeliverySent
		result.MessageID = id
	}
	// канал буферизован, запись не блокируется даже после выхода NotifyContacts
	out <- indexedResult{i: i, result: result}
}

// BroadcastToAuthorities прикладывает к событию ближайших дежурных сотрудников и публикует его
func (d *Dispatcher) BroadcastToAuthorities(ctx context.Context, event models.BroadcastEvent) models.DeliveryResult {
	log := d.logger.WithFields(logrus.Fields{
		"component":  "dispatcher",
		"method":     "BroadcastToAuthorities",
		"event_type": event.Type,
	})
	result := models.DeliveryResult{
		Method:     models.MethodBroadcast,
		NotifiedAt: d.now(),
	}

	if d.responders != nil && event.Location != nil {
		nearby, err := d.responders.FindNearbyOnDuty(ctx, event.Location.Point(), d.responderRadius)
		if err != nil {
			// без списка ответственных событие все равно уходит всем
			log.WithError(err).Warn("Failed to find nearby responders")
		}
		event.Responders = make([]uuid.UUID, 0, len(nearby))
		for _, a := range nearby {
			event.Responders = append(event.Responders, a.ID)
		}
	}

	if d.publisher == nil {
		result.DeliveryStatus = models.DeliverySkipped
		result.Error = "broadcast channel is not configured"
		return result
	}
	if err := d.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to broadcast event")
		result.DeliveryStatus = models.DeliveryFailed
		result.Error = err.Error()
		return result
	}

	result.DeliveryStatus = models.DeliverySent
	log.WithField("responders", len(event.Responders)).Info("Event broadcast to authorities")
	return result
}

func smsBody(alert *models.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SAFETY ALERT (%s, %s): %s.", alert.Type, alert.Severity, alert.Details.Message)
	fmt.Fprintf(&b, " Tourist %s last seen at %.5f,%.5f", alert.DigitalID, alert.Location.Latitude, alert.Location.Longitude)
	if alert.Location.ZoneName != "" {
		fmt.Fprintf(&b, " near %s", alert.Location.ZoneName)
	}
	b.WriteString(".")
	return b.String()
}
