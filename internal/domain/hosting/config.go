package hosting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const configKeyPrefix = "roomify_hosting_"

// Config identifies where a user's images live in the hosting backend.
// Created lazily on first use and reused for every later upload.
type Config struct {
	UserID    uuid.UUID `json:"userId"`
	Prefix    string    `json:"prefix"` // object key prefix, e.g. users/<id>
	CreatedAt time.Time `json:"createdAt"`
}

// ConfigStore persists hosting configs in the key-value store.
type ConfigStore struct {
	rdb *redis.Client
}

func NewConfigStore(rdb *redis.Client) *ConfigStore {
	return &ConfigStore{rdb: rdb}
}

// GetOrCreate returns the user's hosting config, creating it on first
// use. Creation is a SETNX: two racing first calls both succeed and end
// up with the same record, the store breaks the tie.
func (s *ConfigStore) GetOrCreate(ctx context.Context, userID uuid.UUID) (*Config, error) {
	key := configKeyPrefix + userID.String()

	cfg := &Config{
		UserID:    userID,
		Prefix:    "users/" + userID.String(),
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal hosting config: %w", err)
	}

	created, err := s.rdb.SetNX(ctx, key, payload, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("create hosting config: %w", err)
	}
	if created {
		return cfg, nil
	}

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("get hosting config: %w", err)
	}
	var existing Config
	if err := json.Unmarshal(raw, &existing); err != nil {
		return nil, fmt.Errorf("decode hosting config: %w", err)
	}
	return &existing, nil
}
