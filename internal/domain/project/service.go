package project

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/roomify/roomify-api/internal/domain/hosting"
)

// RenderClient generates a 3D rendering for a floor-plan image. Both
// methods work in data URLs; nil client disables rendering.
type RenderClient interface {
	RenderImage(ctx context.Context, imageDataURL string) (string, error)
	FetchAsDataURL(ctx context.Context, url string) (string, error)
}

// Service synchronizes client-held project records against the
// key-value store and the hosting backend: it resolves image references
// to hosted URLs, strips transient fields, and persists the result.
type Service struct {
	repo     *Repository
	configs  *hosting.ConfigStore
	resolver *hosting.Resolver
	ai       RenderClient
	inflight *inflightTable
}

func NewService(repo *Repository, configs *hosting.ConfigStore, resolver *hosting.Resolver, ai RenderClient) *Service {
	return &Service{
		repo:     repo,
		configs:  configs,
		resolver: resolver,
		ai:       ai,
		inflight: newInflightTable(),
	}
}

// Save persists a project record. The source image must end up hosted;
// a rendered image is optional and is dropped rather than persisted raw
// when it can neither be uploaded nor recognized as already hosted.
// Re-saving an existing id overwrites it, last write wins.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, item Project, visibility Visibility) (*Project, error) {
	if item.ID == "" {
		return nil, ErrMissingID
	}
	if item.SourceImage == "" {
		return nil, ErrMissingSourceImage
	}
	if visibility != "" && !visibility.Valid() {
		return nil, ErrInvalidVisibility
	}

	if !s.inflight.TryAcquire(item.ID) {
		return nil, ErrSaveInFlight
	}
	defer s.inflight.Release(item.ID)

	cfg, err := s.configs.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	resolvedSource, err := s.resolver.Resolve(ctx, cfg, item.SourceImage, item.ID, hosting.LabelSource)
	if err != nil {
		if !s.resolver.IsHostedURL(item.SourceImage) {
			log.Warn().Err(err).Str("project_id", item.ID).Msg("failed to resolve source image")
			return nil, fmt.Errorf("%w: %w", ErrSourceUnresolved, err)
		}
		resolvedSource = item.SourceImage
	}

	resolvedRender := ""
	if item.RenderedImage != "" {
		hostedRender, err := s.resolver.Resolve(ctx, cfg, item.RenderedImage, item.ID, hosting.LabelRendered)
		switch {
		case err == nil:
			resolvedRender = hostedRender
		case s.resolver.IsHostedURL(item.RenderedImage):
			resolvedRender = item.RenderedImage
		default:
			// never persist an un-hosted rendered reference
			log.Warn().Err(err).Str("project_id", item.ID).Msg("dropping unresolved rendered image")
		}
	}

	stored := item
	stored.SourceImage = resolvedSource
	stored.RenderedImage = resolvedRender
	stored.SourcePath, stored.RenderedPath, stored.PublicPath = "", "", ""
	if visibility != "" {
		stored.IsPublic = visibility == VisibilityPublic
	}
	stored.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.repo.Set(ctx, userID, &stored); err != nil {
		return nil, err
	}

	log.Info().Str("project_id", stored.ID).Str("user_id", userID.String()).Bool("is_public", stored.IsPublic).Msg("project saved")
	return &stored, nil
}

// List returns the user's projects in backend order.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Project, error) {
	return s.repo.List(ctx, userID)
}

// Get fetches one project. ErrProjectNotFound when the id is unknown.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, id string) (*Project, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return s.repo.Get(ctx, userID, id)
}

// SetVisibility flips the public flag of an existing project. All other
// fields, the image URLs in particular, are preserved unchanged.
func (s *Service) SetVisibility(ctx context.Context, userID uuid.UUID, id string, visibility Visibility) (*Project, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	if !visibility.Valid() {
		return nil, ErrInvalidVisibility
	}

	existing, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	existing.IsPublic = visibility == VisibilityPublic
	existing.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.repo.Set(ctx, userID, existing); err != nil {
		return nil, err
	}

	log.Info().Str("project_id", id).Str("visibility", string(visibility)).Msg("project visibility updated")
	return existing, nil
}

// Render asks the AI provider for a 3D rendering of the project's
// source image and re-saves the record with the hosted result. Single
// attempt, no retry.
func (s *Service) Render(ctx context.Context, userID uuid.UUID, id string) (*Project, error) {
	if s.ai == nil {
		return nil, ErrRenderUnavailable
	}

	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	source := existing.SourceImage
	if !hosting.IsDataURL(source) {
		if source, err = s.ai.FetchAsDataURL(ctx, source); err != nil {
			return nil, err
		}
	}

	rendered, err := s.ai.RenderImage(ctx, source)
	if err != nil {
		return nil, err
	}

	item := *existing
	item.RenderedImage = rendered
	return s.Save(ctx, userID, item, "")
}
