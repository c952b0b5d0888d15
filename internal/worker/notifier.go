package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carelink/hospital-api/internal/email"
	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
	"github.com/carelink/hospital-api/pkg/messaging"
)

const eventChannel = "hospital.events"

// Notifier consumes appointment events from the broker and mails the patient.
// Delivery is best-effort: a failed send is logged, never retried against the
// patient's inbox.
type Notifier struct {
	broker      messaging.Broker
	patientRepo repository.PatientRepository
	email       email.Service
}

func NewNotifier(broker messaging.Broker, patientRepo repository.PatientRepository, emailSvc email.Service) *Notifier {
	return &Notifier{
		broker:      broker,
		patientRepo: patientRepo,
		email:       emailSvc,
	}
}

func (n *Notifier) Start(ctx context.Context) error {
	messages, err := n.broker.Subscribe(ctx, eventChannel)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("notifier stopping")
			return nil
		case raw, ok := <-messages:
			if !ok {
				return nil
			}
			n.handle(ctx, raw)
		}
	}
}

type appointmentEvent struct {
	Type    string `json:"type"`
	Payload struct {
		TenantID  uuid.UUID `json:"tenant_id"`
		PatientID uuid.UUID `json:"patient_id"`
		Date      time.Time `json:"date"`
		Time      string    `json:"time"`
	} `json:"payload"`
}

func (n *Notifier) handle(ctx context.Context, raw []byte) {
	var event appointmentEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		log.Error().Err(err).Msg("failed to decode event")
		return
	}

	if event.Type != model.EventAppointmentCreated && event.Type != model.EventAppointmentCancelled {
		return
	}

	patient, err := n.patientRepo.Get(ctx, event.Payload.TenantID, event.Payload.PatientID)
	if err != nil {
		log.Error().Err(err).Str("patient_id", event.Payload.PatientID.String()).Msg("failed to load patient for notification")
		return
	}
	if patient.Email == "" {
		return
	}

	date := event.Payload.Date.Format("2006-01-02")
	switch event.Type {
	case model.EventAppointmentCreated:
		err = n.email.SendAppointmentConfirmation(ctx, patient.Email, patient.Name, date, event.Payload.Time)
	case model.EventAppointmentCancelled:
		err = n.email.SendAppointmentCancellation(ctx, patient.Email, patient.Name, date, event.Payload.Time)
	}
	if err != nil {
		log.Error().Err(err).Str("patient_id", patient.ID.String()).Msg("failed to send notification email")
	}
}
