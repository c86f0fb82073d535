package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/fleveque/location-service/internal/provider"
)

type stubImageProvider struct {
	name  string
	url   string
	err   error
	calls int
}

func (s *stubImageProvider) SearchImage(context.Context, string) (string, error) {
	s.calls++
	return s.url, s.err
}

func (s *stubImageProvider) Name() string { return s.name }

func TestImageResolver_FirstProviderWins(t *testing.T) {
	first := &stubImageProvider{name: "unsplash", url: "https://images.example/a.jpg"}
	second := &stubImageProvider{name: "pexels", url: "https://images.example/b.jpg"}

	r := NewImageResolver([]provider.ImageProvider{first, second}, "", zap.NewNop())
	if got := r.Resolve(context.Background(), "京都"); got != first.url {
		t.Errorf("expected %q, got %q", first.url, got)
	}
	if second.calls != 0 {
		t.Error("expected second provider to be skipped")
	}
}

func TestImageResolver_FallsThrough(t *testing.T) {
	first := &stubImageProvider{name: "unsplash", err: errors.New("connection refused")}
	second := &stubImageProvider{name: "pexels", url: "https://images.example/b.jpg"}

	r := NewImageResolver([]provider.ImageProvider{first, second}, "", zap.NewNop())
	if got := r.Resolve(context.Background(), "Paris"); got != second.url {
		t.Errorf("expected %q, got %q", second.url, got)
	}
	if first.calls != 1 {
		t.Errorf("expected one attempt at the first provider, got %d", first.calls)
	}
}

func TestImageResolver_NeverEmpty(t *testing.T) {
	failing := []provider.ImageProvider{
		&stubImageProvider{name: "unsplash", err: provider.ErrNoImage},
		&stubImageProvider{name: "pexels", err: errors.New("timeout")},
	}

	tests := []struct {
		name       string
		providers  []provider.ImageProvider
		defaultURL string
		want       string
	}{
		{"no providers", nil, "", DefaultImageURL},
		{"all fail", failing, "", DefaultImageURL},
		{"configured default", failing, "https://images.example/default.jpg", "https://images.example/default.jpg"},
		{"empty url without error", []provider.ImageProvider{&stubImageProvider{name: "unsplash"}}, "", DefaultImageURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewImageResolver(tt.providers, tt.defaultURL, zap.NewNop())
			for _, query := range []string{"", "京都", "nowhere at all"} {
				if got := r.Resolve(context.Background(), query); got != tt.want {
					t.Errorf("Resolve(%q) = %q, want %q", query, got, tt.want)
				}
			}
		})
	}
}
