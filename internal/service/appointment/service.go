package appointment

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
	"github.com/carelink/hospital-api/pkg/clock"
	apperrors "github.com/carelink/hospital-api/pkg/errors"
	"github.com/carelink/hospital-api/pkg/metrics"
)

// TransitionPolicy decides whether a status change is allowed. The booking
// flow has no transition table today: any found appointment may be moved to
// any of the three statuses, including CANCELLED back to SCHEDULED. The
// policy is injectable so tightening it is a wiring change, not a rewrite.
type TransitionPolicy func(from, to model.AppointmentStatus) bool

// PermissiveTransitions allows every transition between valid statuses.
func PermissiveTransitions(from, to model.AppointmentStatus) bool {
	return to.Valid()
}

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	userRepo    repository.UserRepository
	events      *event.Service
	metrics     *metrics.Metrics
	clock       clock.Clock
	transitions TransitionPolicy
}

func NewService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	events *event.Service,
	m *metrics.Metrics,
	clk clock.Clock,
	transitions TransitionPolicy,
) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if transitions == nil {
		transitions = PermissiveTransitions
	}
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		userRepo:    userRepo,
		events:      events,
		metrics:     m,
		clock:       clk,
		transitions: transitions,
	}
}

// CreateAppointment books a slot. All checks run before the insert; the
// partial unique index backs up the conflict check, so losing an insert race
// surfaces as the same "doctor unavailable" error the check would have given.
func (s *Service) CreateAppointment(ctx context.Context, tenantID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.Validation("invalid date, expected YYYY-MM-DD")
	}

	now := s.clock.Now()
	if err := validateSlotAgainstNow(date, req.Time, now); err != nil {
		return nil, err
	}

	if err := s.verifyPatient(ctx, tenantID, req.PatientID); err != nil {
		return nil, err
	}
	if err := s.verifyDoctor(ctx, tenantID, req.DoctorID); err != nil {
		return nil, err
	}

	taken, err := s.repo.SlotTaken(ctx, tenantID, req.DoctorID, date, req.Time, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	if taken {
		return nil, s.slotUnavailable()
	}

	apt := &model.Appointment{
		TenantID:  tenantID,
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      model.DateOnly(date),
		Time:      req.Time,
		Reason:    req.Reason,
		Status:    model.AppointmentStatusScheduled,
	}
	apt.ID = uuid.New()
	apt.CreatedAt = now
	apt.UpdatedAt = now

	if err := s.repo.Create(ctx, apt); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, s.slotUnavailable()
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsBooked.Inc()
	}
	s.record(ctx, tenantID, model.EventAppointmentCreated, apt)

	return apt, nil
}

// UpdateAppointment applies a partial edit. An appointment whose own slot is
// already in the past cannot be edited at all, whatever the caller changes.
func (s *Service) UpdateAppointment(ctx context.Context, tenantID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if apt.EffectiveDateTimeIn(now.Location()).Before(now) {
		return nil, apperrors.Validation("cannot edit past appointments")
	}

	if req.Date != nil {
		newDate, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, apperrors.Validation("invalid date, expected YYYY-MM-DD")
		}
		newSlot := apt.Time
		if req.Time != nil {
			newSlot = *req.Time
		}
		if err := validateSlotAgainstNow(newDate, newSlot, now); err != nil {
			return nil, err
		}
		apt.Date = model.DateOnly(newDate)
	}
	if req.Time != nil {
		apt.Time = *req.Time
	}

	if req.PatientID != nil && *req.PatientID != apt.PatientID {
		if err := s.verifyPatient(ctx, tenantID, *req.PatientID); err != nil {
			return nil, err
		}
		apt.PatientID = *req.PatientID
	}
	if req.DoctorID != nil && *req.DoctorID != apt.DoctorID {
		if err := s.verifyDoctor(ctx, tenantID, *req.DoctorID); err != nil {
			return nil, err
		}
		apt.DoctorID = *req.DoctorID
	}
	if req.Reason != nil {
		apt.Reason = *req.Reason
	}

	if apt.Time != "" {
		taken, err := s.repo.SlotTaken(ctx, tenantID, apt.DoctorID, apt.Date, apt.Time, &apt.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check slot: %w", err)
		}
		if taken {
			return nil, s.slotUnavailable()
		}
	}

	apt.UpdatedAt = now
	if err := s.repo.Update(ctx, apt); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, s.slotUnavailable()
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("appointment")
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.record(ctx, tenantID, model.EventAppointmentUpdated, apt)

	return apt, nil
}

// UpdateStatus moves an appointment through the status state machine. There
// is no temporal precondition here: a status-only change is allowed on past
// appointments, which is how completed visits get marked.
func (s *Service) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("invalid status")
	}

	apt, err := s.get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if !s.transitions(apt.Status, status) {
		return nil, apperrors.Validation(fmt.Sprintf("cannot move appointment from %s to %s", apt.Status, status))
	}

	apt.Status = status
	apt.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, apt); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			// Re-scheduling a cancelled appointment can collide with a
			// booking that took the slot in the meantime.
			return nil, s.slotUnavailable()
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("appointment")
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	if status == model.AppointmentStatusCancelled {
		if s.metrics != nil {
			s.metrics.AppointmentsCancelled.Inc()
		}
		s.record(ctx, tenantID, model.EventAppointmentCancelled, apt)
	} else {
		s.record(ctx, tenantID, model.EventAppointmentUpdated, apt)
	}

	return apt, nil
}

// DeleteAppointment removes the record permanently. Only a future SCHEDULED
// appointment may be deleted.
func (s *Service) DeleteAppointment(ctx context.Context, tenantID, id uuid.UUID) error {
	apt, err := s.get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	if apt.Status != model.AppointmentStatusScheduled || apt.EffectiveDateTimeIn(now.Location()).Before(now) {
		return apperrors.Validation("cannot delete past or completed appointments")
	}

	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("appointment")
		}
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	s.record(ctx, tenantID, model.EventAppointmentDeleted, apt)

	return nil
}

func (s *Service) GetAppointment(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	return s.get(ctx, tenantID, id)
}

// ListAppointments resolves the relative filters (today, upcoming) against
// the service clock and hands concrete bounds to the repository.
func (s *Service) ListAppointments(ctx context.Context, tenantID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if filters == nil {
		filters = &model.AppointmentFilters{}
	}

	// Stored dates are calendar days encoded as UTC midnight, so bounds are
	// built the same way from the clock's calendar day.
	ny, nm, nd := s.clock.Now().Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	if filters.Today {
		filters.DateFrom = &today
		filters.DateTo = &today
	}
	if filters.Upcoming {
		// Upcoming means after the current instant. A date-only row on
		// today's date sits at midnight, which has already passed, so the
		// window starts tomorrow.
		tomorrow := today.AddDate(0, 0, 1)
		filters.DateFrom = &tomorrow
		filters.DateTo = nil
	}

	appointments, err := s.repo.List(ctx, tenantID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) ListDoctorAppointments(ctx context.Context, tenantID, doctorID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.repo.ListByDoctor(ctx, tenantID, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) verifyPatient(ctx context.Context, tenantID, patientID uuid.UUID) error {
	_, err := s.patientRepo.Get(ctx, tenantID, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Validation("invalid patient")
		}
		return fmt.Errorf("failed to verify patient: %w", err)
	}
	return nil
}

func (s *Service) verifyDoctor(ctx context.Context, tenantID, doctorID uuid.UUID) error {
	doctor, err := s.userRepo.Get(ctx, tenantID, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Validation("invalid doctor")
		}
		return fmt.Errorf("failed to verify doctor: %w", err)
	}
	if !doctor.HasRole(model.RoleDoctor) {
		return apperrors.Validation("invalid doctor")
	}
	return nil
}

func (s *Service) slotUnavailable() error {
	if s.metrics != nil {
		s.metrics.BookingConflicts.Inc()
	}
	return apperrors.Conflict("doctor is unavailable for this time slot")
}

func (s *Service) record(ctx context.Context, tenantID uuid.UUID, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Record(ctx, tenantID, eventType, payload); err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("failed to record event")
	}
}
