package entity

import "time"

// Seller is the account the master console moderates.
type Seller struct {
	ID       int64        `json:"id"`
	Account  string       `json:"account"`
	Name     string       `json:"name"`
	StatusID SellerStatus `json:"seller_status_id"`
}

// SellerStatusHistory mirrors OrderStatusHistory for the seller lifecycle:
// one append-only row per accepted status change.
type SellerStatusHistory struct {
	SellerID   int64        `json:"seller_id"`
	StatusID   SellerStatus `json:"seller_status_id"`
	UpdateTime time.Time    `json:"update_time"`
}
