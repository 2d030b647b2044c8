package services

import (
	"context"
	"time"

	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/repository"
)

const idempotencyKeyTTL = 24 * time.Hour

// IdempotencyService offers a Redis fast path for duplicate event detection.
// The event store's conflict-ignoring write remains the authority; this only
// spares duplicates a round of compose+publish work.
type IdempotencyService struct {
	redisRepo *repository.RedisRepository
}

// NewIdempotencyService creates a new IdempotencyService.
func NewIdempotencyService(redisRepo *repository.RedisRepository) *IdempotencyService {
	return &IdempotencyService{redisRepo: redisRepo}
}

// IsDuplicate checks if an event id has been seen before. Uses SetNX to
// atomically claim the key; an already-present key means a duplicate.
func (s *IdempotencyService) IsDuplicate(ctx context.Context, eventID string) (bool, error) {
	key := "evento:" + eventID
	wasSet, err := s.redisRepo.SetNX(ctx, key, "processed", idempotencyKeyTTL)
	if err != nil {
		return false, err
	}
	return !wasSet, nil
}
