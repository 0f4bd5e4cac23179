package client_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/roomify/roomify-api/client"
	"github.com/roomify/roomify-api/internal/domain/hosting"
	"github.com/roomify/roomify-api/internal/domain/project"
	"github.com/roomify/roomify-api/internal/middleware"
	"github.com/roomify/roomify-api/internal/pkg/jwt"
	"github.com/roomify/roomify-api/internal/pkg/storage"
)

// setupAPI brings up the full stack against in-process backends and
// returns a client authenticated as a fresh user, plus the server URL.
func setupAPI(t *testing.T) (*client.Client, string) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store, err := storage.NewLocalStorage(t.TempDir(), "http://storage.test/static")
	if err != nil {
		t.Fatalf("storage setup failed: %v", err)
	}

	svc := project.NewService(
		project.NewRepository(rdb),
		hosting.NewConfigStore(rdb),
		hosting.NewResolver(store),
		nil,
	)

	jwtSvc := jwt.NewService("test-secret", time.Minute)
	token, err := jwtSvc.GenerateAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("token gen failed: %v", err)
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Mount("/projects", project.NewHandler(svc).Routes(middleware.Auth(jwtSvc)))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return client.NewClient(srv.URL, token, 5*time.Second), srv.URL
}

func TestSaveAndGetProject(t *testing.T) {
	c, _ := setupAPI(t)
	ctx := context.Background()

	saved, err := c.SaveProject(ctx, client.Project{
		ID:          "1700000000000",
		Name:        "loft",
		SourceImage: "data:image/png;base64,AAA=",
	}, "private")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(saved.SourceImage, "http://storage.test/static/") {
		t.Errorf("expected hosted source URL, got %s", saved.SourceImage)
	}
	if saved.IsPublic {
		t.Error("expected a private project")
	}

	got, err := c.GetProject(ctx, "1700000000000")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "loft" || got.SourceImage != saved.SourceImage {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestGetMissingProject(t *testing.T) {
	c, _ := setupAPI(t)

	_, err := c.GetProject(context.Background(), "missing")
	if !errors.Is(err, client.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveWithoutSourceImage(t *testing.T) {
	c, _ := setupAPI(t)

	_, err := c.SaveProject(context.Background(), client.Project{ID: "1"}, "")
	if !errors.Is(err, client.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestUpdateVisibility(t *testing.T) {
	c, _ := setupAPI(t)
	ctx := context.Background()

	if _, err := c.SaveProject(ctx, client.Project{
		ID:          "1",
		SourceImage: "data:image/png;base64,AAA=",
	}, ""); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	updated, err := c.UpdateVisibility(ctx, "1", "public")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.IsPublic {
		t.Error("expected isPublic true")
	}

	if _, err := c.UpdateVisibility(ctx, "missing", "public"); !errors.Is(err, client.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListProjectsFailsOpen(t *testing.T) {
	// unreachable server: listing collapses to empty rather than erroring
	c := client.NewClient("http://127.0.0.1:1", "token", time.Second)
	projects := c.ListProjects(context.Background())
	if projects == nil || len(projects) != 0 {
		t.Fatalf("expected empty slice, got %v", projects)
	}
}

func TestListProjects(t *testing.T) {
	c, _ := setupAPI(t)
	ctx := context.Background()

	if got := c.ListProjects(ctx); len(got) != 0 {
		t.Fatalf("expected no projects yet, got %d", len(got))
	}

	for _, id := range []string{"1", "2", "3"} {
		if _, err := c.SaveProject(ctx, client.Project{
			ID:          id,
			SourceImage: "data:image/png;base64,AAA=",
		}, ""); err != nil {
			t.Fatalf("save %s failed: %v", id, err)
		}
	}

	got := c.ListProjects(ctx)
	if len(got) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(got))
	}
}

func TestUnauthorizedClient(t *testing.T) {
	_, baseURL := setupAPI(t)

	c := client.NewClient(baseURL, "wrong-token", time.Second)
	_, err := c.GetProject(context.Background(), "1")
	if !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
