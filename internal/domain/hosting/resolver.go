package hosting

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/roomify/roomify-api/internal/pkg/storage"
)

// Label distinguishes the images of one project in the hosting backend.
type Label string

const (
	LabelSource   Label = "source"
	LabelRendered Label = "rendered"
)

// Resolver turns an image reference into a hosted URL. References that
// already point at the hosting backend pass through untouched, so the
// same physical image is uploaded at most once.
type Resolver struct {
	store storage.Storage
}

func NewResolver(store storage.Storage) *Resolver {
	return &Resolver{store: store}
}

// IsHostedURL reports whether the reference already points at the
// hosting backend.
func (r *Resolver) IsHostedURL(ref string) bool {
	return ref != "" && strings.HasPrefix(ref, r.store.BaseURL()+"/")
}

// Resolve returns a hosted URL for the image reference. Already-hosted
// references are returned unchanged; inline data is uploaded under a key
// derived from the project id and label, so a project's source and
// rendered images can never collide.
func (r *Resolver) Resolve(ctx context.Context, cfg *Config, imageRef, projectID string, label Label) (string, error) {
	if imageRef == "" {
		return "", ErrEmptyReference
	}

	if r.IsHostedURL(imageRef) {
		return imageRef, nil
	}

	mimeType, data, err := ParseDataURL(imageRef)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s/%s%s", cfg.Prefix, projectID, label, ExtensionForMime(mimeType))
	if err := r.store.Put(ctx, key, bytes.NewReader(data), mimeType); err != nil {
		log.Warn().Err(err).Str("project_id", projectID).Str("label", string(label)).Msg("image upload failed")
		return "", fmt.Errorf("upload %s image: %w", label, err)
	}

	return r.store.URL(key), nil
}
