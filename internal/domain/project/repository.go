package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ProjectPrefix is the key prefix every stored project record carries.
const ProjectPrefix = "roomify_project_"

// Repository persists project records in the key-value store. Keys are
// namespaced per user: <userID>:roomify_project_<projectID>. Writes are
// plain upserts, last write wins.
type Repository struct {
	rdb *redis.Client
}

func NewRepository(rdb *redis.Client) *Repository {
	return &Repository{rdb: rdb}
}

func key(userID uuid.UUID, projectID string) string {
	return fmt.Sprintf("%s:%s%s", userID, ProjectPrefix, projectID)
}

// Set upserts a project record under its id.
func (r *Repository) Set(ctx context.Context, userID uuid.UUID, p *Project) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	if err := r.rdb.Set(ctx, key(userID, p.ID), payload, 0).Err(); err != nil {
		return fmt.Errorf("store project: %w", err)
	}
	return nil
}

// Get fetches a project by id. Returns ErrProjectNotFound when absent.
func (r *Repository) Get(ctx context.Context, userID uuid.UUID, projectID string) (*Project, error) {
	raw, err := r.rdb.Get(ctx, key(userID, projectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch project: %w", err)
	}

	var p Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	return &p, nil
}

// List returns every project of the user, in whatever order the store
// enumerates keys. Ids are unique per key, so no duplicates.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]Project, error) {
	pattern := fmt.Sprintf("%s:%s*", userID, ProjectPrefix)

	projects := []Project{}
	iter := r.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		raw, err := r.rdb.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // deleted between scan and fetch
		}
		if err != nil {
			return nil, fmt.Errorf("fetch project: %w", err)
		}

		var p Project
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return projects, nil
}
