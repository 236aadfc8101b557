package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"backoffice-service/internal/entity"
	"backoffice-service/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// OrderService drives the order fulfillment workflow: placement with quantity
// validation, the status state machine, and the detail/list reads.
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	kafkaWriter *kafka.Writer
	rdb         *redis.Client
}

// NewOrderService creates a new instance of OrderService. kafkaWriter and rdb
// may be nil; events and idempotency checks are then skipped.
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, kafkaWriter *kafka.Writer, rdb *redis.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		kafkaWriter: kafkaWriter,
		rdb:         rdb,
	}
}

// GetPurchaseInfo returns the buy-modal data: the discounted unit price and
// every option's stock state.
func (s *OrderService) GetPurchaseInfo(ctx context.Context, productID int64) (*entity.PurchaseInfo, error) {
	product, err := s.productRepo.GetProductForOrder(ctx, productID)
	if err != nil {
		return nil, err
	}

	options, err := s.productRepo.GetPurchaseOptions(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &entity.PurchaseInfo{
		ProductID: product.ID,
		Price:     SellPrice(product.Price, product.DiscountRate),
		Options:   options,
	}, nil
}

// PlaceOrder validates the requested quantity against stock and the product's
// sell-count bounds, then writes the order, its line and the initial history
// row in one transaction. Validation failures return ErrInvalidCount before
// any write happens.
func (s *OrderService) PlaceOrder(ctx context.Context, productID, sellerID int64, req *entity.OrderRequest, idempotentKey string) (*entity.PlacedOrder, error) {
	ok, err := s.validateIdempotentKey(ctx, idempotentKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDuplicateRequest
	}

	product, err := s.productRepo.GetProductForOrder(ctx, productID)
	if err != nil {
		return nil, err
	}

	option, err := s.productRepo.GetOptionStock(ctx, productID, req.ColorID, req.SizeID)
	if err != nil {
		return nil, err
	}

	if option.IsInventoryManage && option.StockCount < req.Quantity {
		return nil, fmt.Errorf("stock %d short of requested %d: %w", option.StockCount, req.Quantity, ErrInvalidCount)
	}
	if req.Quantity > product.MaximumSellCount || req.Quantity < product.MinimumSellCount {
		return nil, fmt.Errorf("quantity %d outside [%d, %d]: %w",
			req.Quantity, product.MinimumSellCount, product.MaximumSellCount, ErrInvalidCount)
	}

	unitPrice := SellPrice(product.Price, product.DiscountRate)
	placement := &entity.OrderPlacement{
		Order: entity.Order{
			UserName:      req.UserName,
			PhoneNumber:   req.PhoneNumber,
			ZipCode:       req.ZipCode,
			Address:       req.Address,
			DetailAddress: req.DetailAddress,
		},
		ProductID:  productID,
		ColorID:    req.ColorID,
		SizeID:     req.SizeID,
		SellerID:   sellerID,
		Quantity:   req.Quantity,
		TotalPrice: req.Quantity * unitPrice,
	}

	placed, err := s.orderRepo.CreateOrder(ctx, placement)
	if err != nil {
		logger.Error().Err(err).Int64("product_id", productID).Msg("Error placing order")
		return nil, err
	}

	s.publishOrderEvent(ctx, fmt.Sprintf("order.placed.%d", placed.OrderID), placed)

	return placed, nil
}

// AdvanceOrderStatus applies one shipment button to a batch of order lines.
// Lines are evaluated independently; one line's rejection never blocks the
// others, and each outcome is reported per line.
func (s *OrderService) AdvanceOrderStatus(ctx context.Context, sellerID int64, button entity.ShipmentButton, orderLineIDs []int64) ([]entity.StatusChangeResult, error) {
	from, to, ok := button.Transition()
	if !ok {
		return nil, fmt.Errorf("unknown shipment button %d: %w", button, repository.ErrInvalidTransition)
	}
	if !from.CanAdvanceTo(to) {
		return nil, fmt.Errorf("illegal transition %s -> %s: %w", from, to, repository.ErrInvalidTransition)
	}

	results := make([]entity.StatusChangeResult, 0, len(orderLineIDs))
	for _, id := range orderLineIDs {
		err := s.orderRepo.AdvanceOrderStatus(ctx, id, from, to, sellerID)
		if err != nil {
			logger.Warn().Err(err).Int64("order_detail_id", id).Msg("Status change rejected")
			results = append(results, entity.StatusChangeResult{OrderLineID: id, OK: false, Error: err.Error()})
			continue
		}
		results = append(results, entity.StatusChangeResult{OrderLineID: id, OK: true})
		s.publishOrderEvent(ctx, fmt.Sprintf("order.status_changed.%d", id), entity.StatusChangeResult{OrderLineID: id, OK: true})
	}

	return results, nil
}

// GetOrderDetail returns the detail page for one order.
func (s *OrderService) GetOrderDetail(ctx context.Context, orderID int64) (*entity.OrderDetail, error) {
	detail, err := s.orderRepo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if detail.DiscountRate != 0 {
		detail.DiscountPrice = SellPrice(detail.Price, detail.DiscountRate)
	}

	return detail, nil
}

// ListOrders returns one status bucket of the seller's order lines.
func (s *OrderService) ListOrders(ctx context.Context, f entity.OrderListFilter) ([]entity.OrderListItem, int, error) {
	if !f.StatusID.Valid() {
		return nil, 0, fmt.Errorf("unknown order status %d: %w", f.StatusID, repository.ErrNotFound)
	}
	return s.orderRepo.ListOrders(ctx, f)
}

// CorrectPhoneNumber updates the buyer phone number on an order. Master only.
func (s *OrderService) CorrectPhoneNumber(ctx context.Context, orderID int64, phoneNumber string, isMaster bool) error {
	if !isMaster {
		return ErrNotAuthorized
	}
	if err := s.orderRepo.UpdatePhoneNumber(ctx, orderID, phoneNumber); err != nil {
		logger.Error().Err(err).Int64("order_id", orderID).Msg("Error correcting phone number")
		return err
	}
	return nil
}

// validateIdempotentKey claims the key in Redis for 24 hours. An empty key is
// replaced with a generated one so the claim always happens.
func (s *OrderService) validateIdempotentKey(ctx context.Context, key string) (bool, error) {
	if s.rdb == nil {
		return true, nil
	}
	if key == "" {
		key = uuid.New().String()
	}

	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	val, err := s.rdb.Get(ctx, redisKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	if val != "" {
		return false, nil
	}

	if err := s.rdb.Set(ctx, redisKey, "exists", 24*time.Hour).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// publishOrderEvent emits a best-effort domain event. Publish failures are
// logged and never fail the request; the transaction has already committed.
func (s *OrderService) publishOrderEvent(ctx context.Context, key string, payload interface{}) {
	if s.kafkaWriter == nil {
		return
	}

	value, err := json.Marshal(payload)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Error marshalling order event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Error publishing order event")
	}
}
