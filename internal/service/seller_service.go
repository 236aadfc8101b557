package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"backoffice-service/internal/entity"
	"backoffice-service/internal/repository"
)

// SellerService moderates the seller lifecycle from the master console. It
// mirrors the order status machine: validate against the current state, then
// one conditional update plus one audit row per accepted change.
type SellerService struct {
	sellerRepo  repository.SellerRepository
	kafkaWriter *kafka.Writer
}

// NewSellerService creates a new instance of SellerService. kafkaWriter may
// be nil; events are then skipped.
func NewSellerService(sellerRepo repository.SellerRepository, kafkaWriter *kafka.Writer) *SellerService {
	return &SellerService{sellerRepo: sellerRepo, kafkaWriter: kafkaWriter}
}

// ChangeSellerStatus applies one master-console button to a seller account.
// The button must be legal for the account's current status; the repository
// re-validates the current status atomically on write.
func (s *SellerService) ChangeSellerStatus(ctx context.Context, sellerID int64, button entity.SellerActionButton, isMaster bool) error {
	if !isMaster {
		return ErrNotAuthorized
	}

	target, ok := button.Target()
	if !ok {
		return fmt.Errorf("unknown seller action button %d: %w", button, repository.ErrInvalidTransition)
	}

	current, err := s.sellerRepo.GetSellerStatus(ctx, sellerID)
	if err != nil {
		return err
	}
	if !button.AllowedFrom(current) {
		return fmt.Errorf("button %d not allowed while seller %d is %s: %w",
			button, sellerID, current, repository.ErrInvalidTransition)
	}

	if err := s.sellerRepo.ChangeSellerStatus(ctx, sellerID, current, target); err != nil {
		logger.Error().Err(err).Int64("seller_id", sellerID).Msg("Error changing seller status")
		return err
	}

	s.publishSellerEvent(ctx, fmt.Sprintf("seller.status_changed.%d", sellerID), entity.Seller{ID: sellerID, StatusID: target})

	return nil
}

// GetStatusHistories returns the seller's audit trail.
func (s *SellerService) GetStatusHistories(ctx context.Context, sellerID int64) ([]entity.SellerStatusHistory, error) {
	if _, err := s.sellerRepo.GetSellerStatus(ctx, sellerID); err != nil {
		return nil, err
	}
	return s.sellerRepo.GetSellerStatusHistories(ctx, sellerID)
}

func (s *SellerService) publishSellerEvent(ctx context.Context, key string, payload interface{}) {
	if s.kafkaWriter == nil {
		return
	}

	value, err := json.Marshal(payload)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Error marshalling seller event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Error publishing seller event")
	}
}
