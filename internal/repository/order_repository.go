package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"backoffice-service/internal/entity"
)

// OrderRepository defines the order-side database operations. Every multi-step
// mutation runs in one transaction; callers never see partially written state.
type OrderRepository interface {
	// CreateOrder reserves stock and writes the order, its line and the
	// initial status history row atomically.
	CreateOrder(ctx context.Context, p *entity.OrderPlacement) (*entity.PlacedOrder, error)

	// AdvanceOrderStatus moves one order line from exactly `from` to `to` and
	// appends the matching history row. A line not currently in `from` (or
	// not owned by sellerID) yields ErrInvalidTransition.
	AdvanceOrderStatus(ctx context.Context, orderLineID int64, from, to entity.OrderStatus, sellerID int64) error

	// GetOrderDetail returns the detail-page projection with the full status
	// history.
	GetOrderDetail(ctx context.Context, orderID int64) (*entity.OrderDetail, error)

	// ListOrders returns one status bucket of a seller's order lines plus the
	// unpaged total.
	ListOrders(ctx context.Context, f entity.OrderListFilter) ([]entity.OrderListItem, int, error)

	// UpdatePhoneNumber corrects the buyer phone number on an order.
	UpdatePhoneNumber(ctx context.Context, orderID int64, phoneNumber string) error
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// reserveStock locates the option for the exact (product, color, size)
// combination and, when the option is inventory-managed, decrements its stock
// with a single conditional update. Zero affected rows means a concurrent
// order consumed the stock first.
func reserveStock(ctx context.Context, tx *sql.Tx, productID, colorID, sizeID int64, quantity int) (int64, error) {
	var (
		optionID int64
		manage   bool
	)
	err := tx.QueryRowContext(ctx, `
		SELECT id, is_inventory_manage FROM options
		WHERE product_id = ? AND color_id = ? AND size_id = ?
	`, productID, colorID, sizeID).Scan(&optionID, &manage)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("option (%d, %d, %d): %w", productID, colorID, sizeID, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}

	if !manage {
		return optionID, nil
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE options SET stock_count = stock_count - ?
		WHERE id = ? AND stock_count >= ?
	`, quantity, optionID, quantity)
	if err != nil {
		return 0, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, fmt.Errorf("reserve stock for option %d: %w", optionID, ErrWriteConflict)
	}

	return optionID, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, p *entity.OrderPlacement) (*entity.PlacedOrder, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	optionID, err := reserveStock(ctx, tx, p.ProductID, p.ColorID, p.SizeID, p.Quantity)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_name, phone_number, zip_code, address, detail_address, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())
	`, p.Order.UserName, p.Order.PhoneNumber, p.Order.ZipCode, p.Order.Address, p.Order.DetailAddress)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if orderID == 0 {
		tx.Rollback()
		return nil, fmt.Errorf("insert order: %w", ErrNoRowsAffected)
	}

	// The number embeds the real order id, so it can only be assigned after
	// the insert.
	now := time.Now()
	number := entity.OrderNumber(now, orderID)
	if err := execExpectRows(ctx, tx, `
		UPDATE orders SET number = ? WHERE id = ?
	`, number, orderID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("set order number: %w", err)
	}

	if err := execExpectRows(ctx, tx, `
		INSERT INTO order_details
			(order_id, product_id, option_id, detail_number, quantity, order_status_id, total_price, seller_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, orderID, p.ProductID, optionID, entity.OrderDetailNumber(now, orderID),
		p.Quantity, entity.OrderStatusPrepareProduct, p.TotalPrice, p.SellerID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("insert order detail: %w", err)
	}

	if err := insertOrderStatusHistory(ctx, tx, orderID, entity.OrderStatusPrepareProduct); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &entity.PlacedOrder{OrderID: orderID, Number: number, TotalPrice: p.TotalPrice}, nil
}

func (r *orderRepository) AdvanceOrderStatus(ctx context.Context, orderLineID int64, from, to entity.OrderStatus, sellerID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		SELECT order_id FROM order_details WHERE id = ?
	`, orderLineID).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		tx.Rollback()
		return fmt.Errorf("order line %d: %w", orderLineID, ErrNotFound)
	}
	if err != nil {
		tx.Rollback()
		return err
	}

	// The update is keyed on the expected current status so a concurrent
	// transition on the same line cannot be applied twice.
	res, err := tx.ExecContext(ctx, `
		UPDATE order_details SET order_status_id = ?
		WHERE id = ? AND order_status_id = ? AND seller_id = ?
	`, to, orderLineID, from, sellerID)
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
		return fmt.Errorf("order line %d not in status %d: %w", orderLineID, from, ErrInvalidTransition)
	}

	if err := insertOrderStatusHistory(ctx, tx, orderID, to); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// insertOrderStatusHistory appends one audit row inside the caller's
// transaction. Sequence legality is the state machine's job, not this one's.
func insertOrderStatusHistory(ctx context.Context, tx *sql.Tx, orderID int64, status entity.OrderStatus) error {
	if err := execExpectRows(ctx, tx, `
		INSERT INTO order_status_histories (order_id, order_status_id, update_time)
		VALUES (?, ?, NOW())
	`, orderID, status); err != nil {
		return fmt.Errorf("insert order status history: %w", err)
	}
	return nil
}

// execExpectRows runs an unconditional write and turns zero affected rows
// into ErrNoRowsAffected, which is fatal to the enclosing transaction.
func execExpectRows(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *orderRepository) GetOrderDetail(ctx context.Context, orderID int64) (*entity.OrderDetail, error) {
	var d entity.OrderDetail
	err := r.db.QueryRowContext(ctx, `
		SELECT
			a.id, a.number, a.created_at, a.user_name, a.phone_number,
			a.zip_code, a.address, a.detail_address,
			b.id, b.detail_number, b.quantity, b.order_status_id, b.total_price, b.seller_id, b.option_id,
			c.id, c.name, c.price, c.discount_rate,
			e.color_id, e.size_id
		FROM orders a
		JOIN order_details b ON a.id = b.order_id
		JOIN products c ON b.product_id = c.id
		JOIN options e ON b.option_id = e.id
		WHERE a.id = ?
	`, orderID).Scan(
		&d.Order.ID, &d.Order.Number, &d.Order.CreatedAt, &d.Order.UserName, &d.Order.PhoneNumber,
		&d.Order.ZipCode, &d.Order.Address, &d.Order.DetailAddress,
		&d.Line.ID, &d.Line.DetailNumber, &d.Line.Quantity, &d.Line.StatusID, &d.Line.TotalPrice, &d.Line.SellerID, &d.Line.OptionID,
		&d.Line.ProductID, &d.ProductName, &d.Price, &d.DiscountRate,
		&d.ColorID, &d.SizeID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	d.Line.OrderID = d.Order.ID

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_status_id, update_time FROM order_status_histories
		WHERE order_id = ?
		ORDER BY update_time
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		h := entity.OrderStatusHistory{OrderID: orderID}
		if err := rows.Scan(&h.StatusID, &h.UpdateTime); err != nil {
			return nil, err
		}
		d.StatusHistories = append(d.StatusHistories, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &d, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, f entity.OrderListFilter) ([]entity.OrderListItem, int, error) {
	where := `
		WHERE b.seller_id = ?
		AND b.order_status_id = ?`
	args := []interface{}{f.SellerID, f.StatusID}

	if f.StartDate != nil {
		where += `
		AND d.update_time > ?`
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		where += `
		AND d.update_time < ?`
		args = append(args, *f.EndDate)
	}
	if f.OrderNumber != "" {
		where += `
		AND a.number = ?`
		args = append(args, f.OrderNumber)
	}
	if f.DetailNumber != "" {
		where += `
		AND b.detail_number = ?`
		args = append(args, f.DetailNumber)
	}
	if f.UserName != "" {
		where += `
		AND a.user_name = ?`
		args = append(args, f.UserName)
	}
	if f.PhoneNumber != "" {
		where += `
		AND a.phone_number = ?`
		args = append(args, f.PhoneNumber)
	}

	from := `
		FROM orders a
		JOIN order_details b ON a.id = b.order_id
		JOIN products c ON b.product_id = c.id
		JOIN order_status_histories d
			ON d.order_id = a.id AND d.order_status_id = b.order_status_id` + where

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			a.id, a.created_at, a.number, b.detail_number, b.id, b.product_id,
			c.name, b.quantity, a.user_name, a.phone_number, b.order_status_id,
			d.update_time, b.total_price` + from + `
		ORDER BY a.created_at DESC
		LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []entity.OrderListItem
	for rows.Next() {
		var it entity.OrderListItem
		if err := rows.Scan(
			&it.OrderID, &it.OrderDate, &it.Number, &it.DetailNumber, &it.LineID, &it.ProductID,
			&it.ProductName, &it.Quantity, &it.UserName, &it.PhoneNumber, &it.StatusID,
			&it.UpdateTime, &it.TotalPrice,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *orderRepository) UpdatePhoneNumber(ctx context.Context, orderID int64, phoneNumber string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET phone_number = ? WHERE id = ?
	`, phoneNumber, orderID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("update phone number for order %d: %w", orderID, ErrNoRowsAffected)
	}
	return nil
}
