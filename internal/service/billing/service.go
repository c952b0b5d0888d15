package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
	"github.com/carelink/hospital-api/internal/service/event"
	apperrors "github.com/carelink/hospital-api/pkg/errors"
	"github.com/carelink/hospital-api/pkg/metrics"
)

type Service struct {
	repo        repository.BillRepository
	patientRepo repository.PatientRepository
	events      *event.Service
	metrics     *metrics.Metrics
}

func NewService(repo repository.BillRepository, patientRepo repository.PatientRepository, events *event.Service, m *metrics.Metrics) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		events:      events,
		metrics:     m,
	}
}

// CreateBill opens a ledger over the given line items. The total is fixed at
// creation; items are never edited afterwards.
func (s *Service) CreateBill(ctx context.Context, tenantID uuid.UUID, req *model.CreateBillRequest) (*model.Bill, error) {
	if _, err := s.patientRepo.Get(ctx, tenantID, req.PatientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Validation("invalid patient")
		}
		return nil, fmt.Errorf("failed to verify patient: %w", err)
	}

	var total int64
	items := make([]model.BillItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Amount <= 0 {
			return nil, apperrors.Validation("bill item amount must be greater than zero")
		}
		total += item.Amount
		items = append(items, model.BillItem{
			ID:     uuid.New(),
			Title:  item.Title,
			Amount: item.Amount,
		})
	}

	now := time.Now()
	bill := &model.Bill{
		TenantID:    tenantID,
		PatientID:   req.PatientID,
		TotalAmount: total,
		PaidAmount:  0,
		DueAmount:   total,
		Status:      model.BillStatusUnpaid,
		Items:       items,
	}
	bill.ID = uuid.New()
	bill.CreatedAt = now
	bill.UpdatedAt = now

	if err := s.repo.Create(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	s.record(ctx, tenantID, model.EventBillCreated, bill)

	return bill, nil
}

// AddPayment appends a payment to the ledger. The amount check against the
// current due happens inside the repository's transaction, so concurrent
// payments cannot both pass against the same stale due amount.
func (s *Service) AddPayment(ctx context.Context, tenantID, billID uuid.UUID, amount int64) (*model.Bill, error) {
	if amount <= 0 {
		if s.metrics != nil {
			s.metrics.PaymentsRejected.WithLabelValues("non_positive").Inc()
		}
		return nil, apperrors.Validation("payment amount must be greater than zero")
	}

	bill, err := s.repo.AddPayment(ctx, tenantID, billID, amount)
	if err != nil {
		var exceeds *repository.ExceedsDueError
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("bill")
		case errors.As(err, &exceeds):
			if s.metrics != nil {
				s.metrics.PaymentsRejected.WithLabelValues("exceeds_due").Inc()
			}
			return nil, apperrors.Conflict(fmt.Sprintf("payment exceeds the due amount, remaining due is %d", exceeds.Due))
		}
		return nil, fmt.Errorf("failed to add payment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.PaymentsRecorded.Inc()
	}
	s.record(ctx, tenantID, model.EventPaymentRecorded, map[string]interface{}{
		"bill_id":     bill.ID,
		"amount":      amount,
		"paid_amount": bill.PaidAmount,
		"due_amount":  bill.DueAmount,
		"status":      bill.Status,
	})

	return bill, nil
}

func (s *Service) GetBill(ctx context.Context, tenantID, id uuid.UUID) (*model.Bill, error) {
	bill, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("bill")
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

func (s *Service) ListBills(ctx context.Context, tenantID uuid.UUID) ([]*model.Bill, error) {
	bills, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

func (s *Service) ListPatientBills(ctx context.Context, tenantID, patientID uuid.UUID) ([]*model.Bill, error) {
	bills, err := s.repo.ListByPatient(ctx, tenantID, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient bills: %w", err)
	}
	return bills, nil
}

func (s *Service) record(ctx context.Context, tenantID uuid.UUID, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Record(ctx, tenantID, eventType, payload); err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("failed to record event")
	}
}
