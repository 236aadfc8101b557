package entity

// OrderStatus is the integer-keyed fulfillment state of an order line.
// The sequence is linear: prepare -> shipping -> delivered -> confirmed.
type OrderStatus int

const (
	OrderStatusPrepareProduct OrderStatus = 1
	OrderStatusShipping       OrderStatus = 2
	OrderStatusDelivered      OrderStatus = 3
	OrderStatusConfirmed      OrderStatus = 4
)

// orderTransitions holds the transitions sellers can drive. Confirmation is
// recorded by the buyer flow and is terminal here, so it has no entry.
var orderTransitions = map[OrderStatus]OrderStatus{
	OrderStatusPrepareProduct: OrderStatusShipping,
	OrderStatusShipping:       OrderStatusDelivered,
}

func (s OrderStatus) Valid() bool {
	return s >= OrderStatusPrepareProduct && s <= OrderStatusConfirmed
}

// Next returns the status a line in status s may advance to. ok is false for
// delivered and confirmed lines, which sellers cannot move further.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := orderTransitions[s]
	return next, ok
}

// CanAdvanceTo reports whether s -> target is a legal single step. Skipping
// a state or moving backwards is never legal.
func (s OrderStatus) CanAdvanceTo(target OrderStatus) bool {
	next, ok := orderTransitions[s]
	return ok && next == target
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPrepareProduct:
		return "prepare_product"
	case OrderStatusShipping:
		return "shipping"
	case OrderStatusDelivered:
		return "delivered"
	case OrderStatusConfirmed:
		return "confirmed"
	}
	return "unknown"
}

// ShipmentButton is the action a seller presses on the order list screen.
type ShipmentButton int

const (
	ShipmentButtonShip     ShipmentButton = 1
	ShipmentButtonComplete ShipmentButton = 2
)

// Transition maps a shipment button to the status step it performs.
func (b ShipmentButton) Transition() (from, to OrderStatus, ok bool) {
	switch b {
	case ShipmentButtonShip:
		return OrderStatusPrepareProduct, OrderStatusShipping, true
	case ShipmentButtonComplete:
		return OrderStatusShipping, OrderStatusDelivered, true
	}
	return 0, 0, false
}

// SellerStatus is the integer-keyed lifecycle state of a seller account.
type SellerStatus int

const (
	SellerStatusStoreWait    SellerStatus = 1
	SellerStatusStore        SellerStatus = 2
	SellerStatusTempClosed   SellerStatus = 3
	SellerStatusClosedWait   SellerStatus = 4
	SellerStatusClosed       SellerStatus = 5
	SellerStatusRefusedStore SellerStatus = 6
)

func (s SellerStatus) Valid() bool {
	return s >= SellerStatusStoreWait && s <= SellerStatusRefusedStore
}

func (s SellerStatus) String() string {
	switch s {
	case SellerStatusStoreWait:
		return "store_wait"
	case SellerStatusStore:
		return "store"
	case SellerStatusTempClosed:
		return "temp_closed"
	case SellerStatusClosedWait:
		return "closed_wait"
	case SellerStatusClosed:
		return "closed"
	case SellerStatusRefusedStore:
		return "refused_store"
	}
	return "unknown"
}

// SellerActionButton is a master-console action against a seller account.
type SellerActionButton int

const (
	SellerButtonRefuseStore      SellerActionButton = 1
	SellerButtonApproveStore     SellerActionButton = 2
	SellerButtonTempClosed       SellerActionButton = 3
	SellerButtonCancelTempClosed SellerActionButton = 4
	SellerButtonClosedWait       SellerActionButton = 5
	SellerButtonCancelClosed     SellerActionButton = 6
	SellerButtonConfirmClosed    SellerActionButton = 7
)

func (b SellerActionButton) Valid() bool {
	return b >= SellerButtonRefuseStore && b <= SellerButtonConfirmClosed
}

// Target returns the seller status the button moves the account into.
func (b SellerActionButton) Target() (SellerStatus, bool) {
	switch b {
	case SellerButtonApproveStore, SellerButtonCancelTempClosed, SellerButtonCancelClosed:
		return SellerStatusStore, true
	case SellerButtonTempClosed:
		return SellerStatusTempClosed, true
	case SellerButtonClosedWait:
		return SellerStatusClosedWait, true
	case SellerButtonConfirmClosed:
		return SellerStatusClosed, true
	case SellerButtonRefuseStore:
		return SellerStatusRefusedStore, true
	}
	return 0, false
}

// AllowedFrom reports whether the button may be pressed while the account is
// in the given status. Approval-style buttons are rejected for accounts that
// already opened; refusal and close confirmation only apply to the matching
// waiting state.
func (b SellerActionButton) AllowedFrom(current SellerStatus) bool {
	switch b {
	case SellerButtonApproveStore, SellerButtonCancelTempClosed, SellerButtonCancelClosed:
		return current != SellerStatusStore
	case SellerButtonClosedWait:
		return current != SellerStatusStoreWait && current != SellerStatusClosedWait
	case SellerButtonTempClosed:
		return current != SellerStatusStoreWait && current != SellerStatusTempClosed
	case SellerButtonRefuseStore:
		return current == SellerStatusStoreWait
	case SellerButtonConfirmClosed:
		return current == SellerStatusClosedWait
	}
	return false
}
