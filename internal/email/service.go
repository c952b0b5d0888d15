package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/carelink/hospital-api/internal/config"
)

// Service sends transactional mail for domain events.
type Service interface {
	SendAppointmentConfirmation(ctx context.Context, to, patientName, date, slot string) error
	SendAppointmentCancellation(ctx context.Context, to, patientName, date, slot string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendAppointmentConfirmation(ctx context.Context, to, patientName, date, slot string) error {
	subject := "Appointment confirmed"
	body := fmt.Sprintf("Dear %s,\n\nYour appointment on %s at %s is confirmed.\n", patientName, date, slot)
	return s.send(to, subject, body)
}

func (s *smtpService) SendAppointmentCancellation(ctx context.Context, to, patientName, date, slot string) error {
	subject := "Appointment cancelled"
	body := fmt.Sprintf("Dear %s,\n\nYour appointment on %s at %s has been cancelled.\n", patientName, date, slot)
	return s.send(to, subject, body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
