package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"backoffice-service/internal/entity"
)

// SellerRepository drives the seller lifecycle with the same conditional
// update + audit row discipline the order side uses.
type SellerRepository interface {
	// GetSellerStatus returns the seller's current lifecycle status.
	GetSellerStatus(ctx context.Context, sellerID int64) (entity.SellerStatus, error)

	// ChangeSellerStatus moves a seller from exactly `from` to `to` and
	// appends the history row in the same transaction. A seller no longer in
	// `from` yields ErrWriteConflict.
	ChangeSellerStatus(ctx context.Context, sellerID int64, from, to entity.SellerStatus) error

	// GetSellerStatusHistories returns the seller's full audit trail.
	GetSellerStatusHistories(ctx context.Context, sellerID int64) ([]entity.SellerStatusHistory, error)
}

type sellerRepository struct {
	db *sql.DB
}

func NewSellerRepository(db *sql.DB) SellerRepository {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) GetSellerStatus(ctx context.Context, sellerID int64) (entity.SellerStatus, error) {
	var status entity.SellerStatus
	err := r.db.QueryRowContext(ctx, `
		SELECT seller_status_id FROM sellers WHERE id = ?
	`, sellerID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("seller %d: %w", sellerID, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return status, nil
}

func (r *sellerRepository) ChangeSellerStatus(ctx context.Context, sellerID int64, from, to entity.SellerStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE sellers SET seller_status_id = ?
		WHERE id = ? AND seller_status_id = ?
	`, to, sellerID, from)
	if err != nil {
		tx.Rollback()
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if rows == 0 {
		tx.Rollback()
		return fmt.Errorf("seller %d no longer in status %d: %w", sellerID, from, ErrWriteConflict)
	}

	if err := execExpectRows(ctx, tx, `
		INSERT INTO seller_status_histories (seller_id, seller_status_id, update_time)
		VALUES (?, ?, NOW())
	`, sellerID, to); err != nil {
		tx.Rollback()
		return fmt.Errorf("insert seller status history: %w", err)
	}

	return tx.Commit()
}

func (r *sellerRepository) GetSellerStatusHistories(ctx context.Context, sellerID int64) ([]entity.SellerStatusHistory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT seller_status_id, update_time FROM seller_status_histories
		WHERE seller_id = ?
		ORDER BY update_time
	`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var histories []entity.SellerStatusHistory
	for rows.Next() {
		h := entity.SellerStatusHistory{SellerID: sellerID}
		if err := rows.Scan(&h.StatusID, &h.UpdateTime); err != nil {
			return nil, err
		}
		histories = append(histories, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return histories, nil
}
