package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tablebook/order-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// GuestCartStore keeps anonymous carts in Redis. Every save pushes the expiry
// forward, so an abandoned session disappears TTL after its last change.
type GuestCartStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewGuestCartStore(client *redis.Client, ttl time.Duration) *GuestCartStore {
	return &GuestCartStore{Client: client, TTL: ttl}
}

func guestCartKey(sessionID string) string {
	return "guestcart:" + sessionID
}

func (s *GuestCartStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := s.Client.Get(ctx, guestCartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewGuestCart(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	cart.SessionID = sessionID
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	cart.Recompute()
	return &cart, nil
}

func (s *GuestCartStore) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.Client.Set(ctx, guestCartKey(cart.SessionID), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *GuestCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.Client.Del(ctx, guestCartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
