package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
)

func (r *billRepository) Create(ctx context.Context, bill *model.Bill) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO bills (
				id, tenant_id, patient_id,
				total_amount, paid_amount, due_amount, status,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		_, err := tx.ExecContext(ctx, query,
			bill.ID,
			bill.TenantID,
			bill.PatientID,
			bill.TotalAmount,
			bill.PaidAmount,
			bill.DueAmount,
			bill.Status,
			bill.CreatedAt,
			bill.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create bill: %w", err)
		}

		itemQuery := `
			INSERT INTO bill_items (id, bill_id, position, title, amount)
			VALUES ($1, $2, $3, $4, $5)
		`
		for i := range bill.Items {
			item := &bill.Items[i]
			_, err := tx.ExecContext(ctx, itemQuery,
				item.ID,
				bill.ID,
				i,
				item.Title,
				item.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to create bill item: %w", err)
			}
		}
		return nil
	})
}

func (r *billRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Bill, error) {
	query := `
		SELECT id, tenant_id, patient_id,
		       total_amount, paid_amount, due_amount, status,
		       created_at, updated_at
		FROM bills
		WHERE id = $1 AND tenant_id = $2
	`
	var bill model.Bill
	err := r.db.GetContext(ctx, &bill, query, id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	if err := r.loadItems(ctx, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*model.Bill, error) {
	query := `
		SELECT id, tenant_id, patient_id,
		       total_amount, paid_amount, due_amount, status,
		       created_at, updated_at
		FROM bills
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`
	var bills []*model.Bill
	if err := r.db.SelectContext(ctx, &bills, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

func (r *billRepository) ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*model.Bill, error) {
	query := `
		SELECT id, tenant_id, patient_id,
		       total_amount, paid_amount, due_amount, status,
		       created_at, updated_at
		FROM bills
		WHERE tenant_id = $1 AND patient_id = $2
		ORDER BY created_at DESC
	`
	var bills []*model.Bill
	if err := r.db.SelectContext(ctx, &bills, query, tenantID, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient bills: %w", err)
	}
	return bills, nil
}

// AddPayment reads the ledger under FOR UPDATE and writes the new amounts in
// the same transaction. Two concurrent payments serialize on the row lock, so
// the second sees the first one's due amount.
func (r *billRepository) AddPayment(ctx context.Context, tenantID, billID uuid.UUID, amount int64) (*model.Bill, error) {
	var bill model.Bill

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			SELECT id, tenant_id, patient_id,
			       total_amount, paid_amount, due_amount, status,
			       created_at, updated_at
			FROM bills
			WHERE id = $1 AND tenant_id = $2
			FOR UPDATE
		`
		if err := tx.GetContext(ctx, &bill, query, billID, tenantID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repository.ErrNotFound
			}
			return fmt.Errorf("failed to get bill for payment: %w", err)
		}

		if amount > bill.DueAmount {
			return &repository.ExceedsDueError{Due: bill.DueAmount}
		}

		bill.PaidAmount += amount
		bill.DueAmount = bill.TotalAmount - bill.PaidAmount
		bill.Status = model.DeriveBillStatus(bill.PaidAmount, bill.DueAmount)
		bill.UpdatedAt = time.Now()

		update := `
			UPDATE bills
			SET paid_amount = $1, due_amount = $2, status = $3, updated_at = $4
			WHERE id = $5 AND tenant_id = $6
		`
		_, err := tx.ExecContext(ctx, update,
			bill.PaidAmount,
			bill.DueAmount,
			bill.Status,
			bill.UpdatedAt,
			bill.ID,
			bill.TenantID,
		)
		if err != nil {
			return fmt.Errorf("failed to apply payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) loadItems(ctx context.Context, bill *model.Bill) error {
	query := `
		SELECT id, bill_id, title, amount
		FROM bill_items
		WHERE bill_id = $1
		ORDER BY position ASC
	`
	if err := r.db.SelectContext(ctx, &bill.Items, query, bill.ID); err != nil {
		return fmt.Errorf("failed to load bill items: %w", err)
	}
	return nil
}
