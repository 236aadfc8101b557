package entity

import (
	"fmt"
	"time"
)

// Order is one purchase action. Buyer info is immutable after creation except
// the phone number, which a master may correct.
type Order struct {
	ID            int64     `json:"id"`
	Number        string    `json:"number"`
	UserName      string    `json:"user_name"`
	PhoneNumber   string    `json:"phone_number"`
	ZipCode       int       `json:"zip_code"`
	Address       string    `json:"address"`
	DetailAddress string    `json:"detail_address"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderLine is one purchased option-quantity inside an order; it is the unit
// the fulfillment state machine operates on.
type OrderLine struct {
	ID           int64       `json:"id"`
	OrderID      int64       `json:"order_id"`
	ProductID    int64       `json:"product_id"`
	OptionID     int64       `json:"option_id"`
	DetailNumber string      `json:"detail_number"`
	Quantity     int         `json:"quantity"`
	StatusID     OrderStatus `json:"order_status_id"`
	TotalPrice   int         `json:"total_price"`
	SellerID     int64       `json:"seller_id"`
}

// OrderStatusHistory is one append-only audit row. Rows are never updated or
// deleted.
type OrderStatusHistory struct {
	OrderID    int64       `json:"order_id"`
	StatusID   OrderStatus `json:"order_status_id"`
	UpdateTime time.Time   `json:"update_time"`
}

// OrderPlacement carries everything one placement writes: the buyer info plus
// the line targeting a single (product, color, size) option.
type OrderPlacement struct {
	Order      Order
	ProductID  int64
	ColorID    int64
	SizeID     int64
	SellerID   int64
	Quantity   int
	TotalPrice int
}

// OrderRequest is the body of a placement call: buyer info plus the target
// option and quantity.
type OrderRequest struct {
	UserName      string `json:"user_name"`
	PhoneNumber   string `json:"phone_number"`
	ZipCode       int    `json:"zip_code"`
	Address       string `json:"address"`
	DetailAddress string `json:"detail_address"`
	Quantity      int    `json:"count"`
	ColorID       int64  `json:"color_id"`
	SizeID        int64  `json:"size_id"`
}

// PlacedOrder is the reference returned to the buyer after a placement.
type PlacedOrder struct {
	OrderID    int64  `json:"order_id"`
	Number     string `json:"number"`
	TotalPrice int    `json:"total_price"`
}

// OrderDetail is the detail-page projection: the order, its line and the
// product snapshot it was priced against, plus the full status history.
type OrderDetail struct {
	Order           Order                `json:"order"`
	Line            OrderLine            `json:"line"`
	ProductName     string               `json:"product_name"`
	Price           int                  `json:"price"`
	DiscountRate    int                  `json:"discount_rate"`
	DiscountPrice   int                  `json:"discount_price"`
	ColorID         int64                `json:"color_id"`
	SizeID          int64                `json:"size_id"`
	StatusHistories []OrderStatusHistory `json:"order_histories"`
}

// OrderListFilter narrows a seller's order list to one status bucket with the
// optional search fields from the list screen.
type OrderListFilter struct {
	SellerID     int64
	StatusID     OrderStatus
	StartDate    *time.Time
	EndDate      *time.Time
	OrderNumber  string
	DetailNumber string
	UserName     string
	PhoneNumber  string
	Limit        int
	Offset       int
}

// OrderListItem is one row of the seller's order list.
type OrderListItem struct {
	OrderID      int64       `json:"order_id"`
	OrderDate    time.Time   `json:"order_date"`
	Number       string      `json:"order_number"`
	DetailNumber string      `json:"order_detail_number"`
	LineID       int64       `json:"order_detail_id"`
	ProductID    int64       `json:"product_id"`
	ProductName  string      `json:"product_name"`
	Quantity     int         `json:"count"`
	UserName     string      `json:"user_name"`
	PhoneNumber  string      `json:"phone_number"`
	StatusID     OrderStatus `json:"order_status_id"`
	UpdateTime   time.Time   `json:"update_time"`
	TotalPrice   int         `json:"total_price"`
}

// StatusChangeResult is the per-line outcome of a batch status advance.
type StatusChangeResult struct {
	OrderLineID int64  `json:"order_detail_id"`
	OK          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
}

// OrderNumber formats the human-readable order number: order date plus the
// order id zero-padded to five digits.
func OrderNumber(t time.Time, orderID int64) string {
	return t.Format("20060102") + fmt.Sprintf("%05d", orderID)
}

// OrderDetailNumber formats the order-line number: order date plus the order
// id zero-padded to six digits.
func OrderDetailNumber(t time.Time, orderID int64) string {
	return t.Format("20060102") + fmt.Sprintf("%06d", orderID)
}
