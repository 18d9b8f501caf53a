package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vencia/vencia-backend/internal/lots/domain"
	"github.com/vencia/vencia-backend/pkg/database"
	"github.com/vencia/vencia-backend/pkg/errors"
)

// WriteOff is the audit record created when a lot is retired.
type WriteOff struct {
	ID          string    `db:"id" json:"id"`
	LotID       string    `db:"lot_id" json:"lot_id"`
	ProductID   string    `db:"product_id" json:"product_id"`
	Reason      string    `db:"reason" json:"reason"`
	Note        *string   `db:"note" json:"note,omitempty"`
	PerformedBy *string   `db:"performed_by" json:"performed_by,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// LotRepository handles lot persistence. Expiry dates are selected as
// YYYY-MM-DD text so the core only ever sees calendar dates.
type LotRepository struct {
	db *database.DB
}

// NewLotRepository creates a new lot repository
func NewLotRepository(db *database.DB) *LotRepository {
	return &LotRepository{db: db}
}

const lotColumns = `
	id, product_id, lot_number,
	to_char(expiry_date, 'YYYY-MM-DD') AS expiry_date,
	received_date, quantity,
	retired, retire_reason, retire_note, retired_at,
	created_at, updated_at
`

// GetByID gets a lot by ID
func (r *LotRepository) GetByID(ctx context.Context, id string) (*domain.Lot, error) {
	var lot domain.Lot
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	if err := r.db.GetContext(ctx, &lot, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("lot")
		}
		return nil, err
	}
	return &lot, nil
}

// ListByProduct lists all lots of a product, retired ones included so
// history stays visible. Classification is left to the caller.
func (r *LotRepository) ListByProduct(ctx context.Context, productID string) ([]*domain.Lot, error) {
	lots := []*domain.Lot{}
	query := `
		SELECT ` + lotColumns + ` FROM lots
		WHERE product_id = $1
		ORDER BY expiry_date NULLS LAST, received_date
	`
	if err := r.db.SelectContext(ctx, &lots, query, productID); err != nil {
		return nil, err
	}
	return lots, nil
}

// ListExpired lists non-retired lots whose expiry date has passed. The
// is_expired column is set in SQL and is the authoritative hint the
// classifier trusts over its own date arithmetic.
func (r *LotRepository) ListExpired(ctx context.Context) ([]*domain.Lot, error) {
	lots := []*domain.Lot{}
	query := `
		SELECT ` + lotColumns + `, TRUE AS is_expired FROM lots
		WHERE retired = FALSE AND expiry_date IS NOT NULL AND expiry_date <= CURRENT_DATE
		ORDER BY expiry_date
	`
	if err := r.db.SelectContext(ctx, &lots, query); err != nil {
		return nil, err
	}
	return lots, nil
}

// ListNearExpiry lists non-retired lots expiring within the window but
// not yet expired, with the is_near_expiry hint set in SQL.
func (r *LotRepository) ListNearExpiry(ctx context.Context, windowDays int) ([]*domain.Lot, error) {
	lots := []*domain.Lot{}
	query := `
		SELECT ` + lotColumns + `, TRUE AS is_near_expiry FROM lots
		WHERE retired = FALSE AND expiry_date IS NOT NULL
		AND expiry_date > CURRENT_DATE
		AND expiry_date <= CURRENT_DATE + $1::int
		ORDER BY expiry_date
	`
	if err := r.db.SelectContext(ctx, &lots, query, windowDays); err != nil {
		return nil, err
	}
	return lots, nil
}

// Retire marks a lot as written off and records the audit row, in one
// transaction. Fails with NotFound for an unknown id and Conflict when
// the lot was already retired; the row is untouched in both cases.
func (r *LotRepository) Retire(ctx context.Context, lotID, reason string, note, performedBy *string) (*domain.Lot, error) {
	var lot domain.Lot

	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		update := `
			UPDATE lots SET
				retired = TRUE, retire_reason = $2, retire_note = $3,
				retired_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND retired = FALSE
		`
		result, err := tx.ExecContext(ctx, update, lotID, reason, note)
		if err != nil {
			if appErr := database.MapPQError(err); appErr != nil {
				return appErr
			}
			return err
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			var exists bool
			if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM lots WHERE id = $1)`, lotID); err != nil {
				return err
			}
			if !exists {
				return errors.NotFound("lot")
			}
			conflict := errors.Conflict("lot has already been written off")
			conflict.MessageKey = "errors.lot_already_retired"
			return conflict
		}

		query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
		if err := tx.GetContext(ctx, &lot, query, lotID); err != nil {
			return err
		}

		writeOff := &WriteOff{
			ID:          uuid.New().String(),
			LotID:       lot.ID,
			ProductID:   lot.ProductID,
			Reason:      reason,
			Note:        note,
			PerformedBy: performedBy,
		}

		insert := `
			INSERT INTO lot_writeoffs (id, lot_id, product_id, reason, note, performed_by)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err = tx.ExecContext(ctx, insert,
			writeOff.ID, writeOff.LotID, writeOff.ProductID,
			writeOff.Reason, writeOff.Note, writeOff.PerformedBy,
		)
		if err != nil {
			if appErr := database.MapPQError(err); appErr != nil {
				return appErr
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &lot, nil
}

// ListWriteOffsByProduct lists the write-off history of a product
func (r *LotRepository) ListWriteOffsByProduct(ctx context.Context, productID string) ([]*WriteOff, error) {
	writeOffs := []*WriteOff{}
	query := `
		SELECT id, lot_id, product_id, reason, note, performed_by, created_at
		FROM lot_writeoffs
		WHERE product_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &writeOffs, query, productID); err != nil {
		return nil, err
	}
	return writeOffs, nil
}
