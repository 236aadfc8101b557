package entity

// Product holds the pricing and sell-count configuration order placement
// reads. It is never written by this service.
type Product struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Price            int    `json:"price"`
	DiscountRate     int    `json:"discount_rate"`
	MinimumSellCount int    `json:"minimum_sell_count"`
	MaximumSellCount int    `json:"maximum_sell_count"`
	SellerID         int64  `json:"seller_id"`
}

// Option is one color+size variant of a product, the unit inventory is
// tracked against. StockCount is authoritative only while IsInventoryManage
// is true.
type Option struct {
	ID                int64 `json:"id"`
	ProductID         int64 `json:"product_id"`
	ColorID           int64 `json:"color_id"`
	SizeID            int64 `json:"size_id"`
	StockCount        int   `json:"stock_count"`
	IsInventoryManage bool  `json:"is_inventory_manage"`
}

// PurchaseInfo is the buy-modal projection: the discounted unit price and the
// per-option stock state.
type PurchaseInfo struct {
	ProductID int64            `json:"id"`
	Price     int              `json:"price"`
	Options   []PurchaseOption `json:"options"`
}

// PurchaseOption is one selectable option row in the buy modal.
type PurchaseOption struct {
	ColorID           int64  `json:"color_id"`
	ColorName         string `json:"color_name"`
	SizeID            int64  `json:"size_id"`
	SizeName          string `json:"size_name"`
	StockCount        int    `json:"count"`
	IsInventoryManage bool   `json:"is_inventory_manage"`
}
