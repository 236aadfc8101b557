package repository

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice-service/internal/entity"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testPlacement() *entity.OrderPlacement {
	return &entity.OrderPlacement{
		Order: entity.Order{
			UserName:      "kim",
			PhoneNumber:   "010-2225-5555",
			ZipCode:       4538,
			Address:       "Seoul",
			DetailAddress: "101-202",
		},
		ProductID:  30,
		ColorID:    1,
		SizeID:     2,
		SellerID:   7,
		Quantity:   3,
		TotalPrice: 3 * 8500,
	}
}

func TestCreateOrder_Success(t *testing.T) {
	db, mock := newMockDB(t)
	p := testPlacement()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, is_inventory_manage FROM options").
		WithArgs(p.ProductID, p.ColorID, p.SizeID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_inventory_manage"}).AddRow(5, true))
	mock.ExpectExec("UPDATE options SET stock_count = stock_count").
		WithArgs(p.Quantity, 5, p.Quantity).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(p.Order.UserName, p.Order.PhoneNumber, p.Order.ZipCode, p.Order.Address, p.Order.DetailAddress).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("UPDATE orders SET number").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_details").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_status_histories").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewOrderRepository(db)
	placed, err := repo.CreateOrder(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, int64(42), placed.OrderID)
	// Date-prefixed, five-digit zero-padded order id.
	assert.Len(t, placed.Number, 13)
	assert.True(t, strings.HasSuffix(placed.Number, "00042"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_UnmanagedOptionSkipsDecrement(t *testing.T) {
	db, mock := newMockDB(t)
	p := testPlacement()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, is_inventory_manage FROM options").
		WithArgs(p.ProductID, p.ColorID, p.SizeID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_inventory_manage"}).AddRow(5, false))
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(p.Order.UserName, p.Order.PhoneNumber, p.Order.ZipCode, p.Order.Address, p.Order.DetailAddress).
		WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectExec("UPDATE orders SET number").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_details").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_status_histories").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewOrderRepository(db)
	_, err := repo.CreateOrder(context.Background(), p)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_StockRace(t *testing.T) {
	db, mock := newMockDB(t)
	p := testPlacement()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, is_inventory_manage FROM options").
		WithArgs(p.ProductID, p.ColorID, p.SizeID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_inventory_manage"}).AddRow(5, true))
	// A concurrent order drained the stock: the conditional update matches
	// nothing.
	mock.ExpectExec("UPDATE options SET stock_count = stock_count").
		WithArgs(p.Quantity, 5, p.Quantity).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewOrderRepository(db)
	_, err := repo.CreateOrder(context.Background(), p)

	assert.ErrorIs(t, err, ErrWriteConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_UnknownOption(t *testing.T) {
	db, mock := newMockDB(t)
	p := testPlacement()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, is_inventory_manage FROM options").
		WithArgs(p.ProductID, p.ColorID, p.SizeID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	repo := NewOrderRepository(db)
	_, err := repo.CreateOrder(context.Background(), p)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_DetailInsertFailureRollsBackReservation(t *testing.T) {
	db, mock := newMockDB(t)
	p := testPlacement()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, is_inventory_manage FROM options").
		WithArgs(p.ProductID, p.ColorID, p.SizeID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_inventory_manage"}).AddRow(5, true))
	mock.ExpectExec("UPDATE options SET stock_count = stock_count").
		WithArgs(p.Quantity, 5, p.Quantity).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("UPDATE orders SET number").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_details").
		WillReturnResult(sqlmock.NewResult(0, 0))
	// The rollback covers the stock decrement: no leaked reservation.
	mock.ExpectRollback()

	repo := NewOrderRepository(db)
	_, err := repo.CreateOrder(context.Background(), p)

	assert.ErrorIs(t, err, ErrNoRowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceOrderStatus_Success(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT order_id FROM order_details").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(9))
	mock.ExpectExec("UPDATE order_details SET order_status_id").
		WithArgs(entity.OrderStatusShipping, int64(4), entity.OrderStatusPrepareProduct, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_status_histories").
		WithArgs(int64(9), entity.OrderStatusShipping).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewOrderRepository(db)
	err := repo.AdvanceOrderStatus(context.Background(), 4, entity.OrderStatusPrepareProduct, entity.OrderStatusShipping, 7)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceOrderStatus_WrongCurrentStatus(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT order_id FROM order_details").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(9))
	mock.ExpectExec("UPDATE order_details SET order_status_id").
		WithArgs(entity.OrderStatusDelivered, int64(4), entity.OrderStatusShipping, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewOrderRepository(db)
	err := repo.AdvanceOrderStatus(context.Background(), 4, entity.OrderStatusShipping, entity.OrderStatusDelivered, 7)

	// No status change and no history row: the line was not in the expected
	// state.
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceOrderStatus_UnknownLine(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT order_id FROM order_details").
		WithArgs(int64(999)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	repo := NewOrderRepository(db)
	err := repo.AdvanceOrderStatus(context.Background(), 999, entity.OrderStatusPrepareProduct, entity.OrderStatusShipping, 7)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePhoneNumber_NoRows(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("UPDATE orders SET phone_number").
		WithArgs("010-1111-2222", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewOrderRepository(db)
	err := repo.UpdatePhoneNumber(context.Background(), 42, "010-1111-2222")

	assert.ErrorIs(t, err, ErrNoRowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
