package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound indicates the session token has no backing entry.
var ErrSessionNotFound = errors.New("session not found")

// IdentityStore resolves session tokens to identities. Session creation and
// login flows belong to the auth frontend; this backend only reads.
type IdentityStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type identityPayload struct {
	Username   string `json:"username"`
	AccountNo  string `json:"acc_no"`
	CustomerID int64  `json:"customer_id"`
	IsCustomer bool   `json:"is_customer"`
}

// NewIdentityStore constructs a redis backed identity store.
func NewIdentityStore(client *redis.Client, prefix string, ttl time.Duration) *IdentityStore {
	return &IdentityStore{client: client, prefix: prefix, ttl: ttl}
}

// Load resolves a session token. The TTL is refreshed on every hit so active
// sessions do not expire mid-order.
func (s *IdentityStore) Load(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrSessionNotFound
	}
	key := s.key(token)
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Identity{}, ErrSessionNotFound
		}
		return Identity{}, fmt.Errorf("identity store: get: %w", err)
	}

	var payload identityPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Identity{}, fmt.Errorf("identity store: decode: %w", err)
	}

	if s.ttl > 0 {
		_ = s.client.Expire(ctx, key, s.ttl).Err()
	}

	return Identity{
		Username:   payload.Username,
		AccountNo:  payload.AccountNo,
		CustomerID: payload.CustomerID,
		IsCustomer: payload.IsCustomer,
	}, nil
}

// Save persists an identity under the given token. Used by the auth frontend
// and by tests.
func (s *IdentityStore) Save(ctx context.Context, token string, id Identity) error {
	raw, err := json.Marshal(identityPayload{
		Username:   id.Username,
		AccountNo:  id.AccountNo,
		CustomerID: id.CustomerID,
		IsCustomer: id.IsCustomer,
	})
	if err != nil {
		return fmt.Errorf("identity store: encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("identity store: set: %w", err)
	}
	return nil
}

func (s *IdentityStore) key(token string) string {
	return s.prefix + ":" + token
}
