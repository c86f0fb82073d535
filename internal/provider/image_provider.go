package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	unsplashBaseURL = "https://api.unsplash.com"
	pexelsBaseURL   = "https://api.pexels.com"
)

// UnsplashProvider searches the Unsplash photo API.
type UnsplashProvider struct {
	accessKey string
	baseURL   string
	client    *http.Client
	logger    *zap.Logger
}

// NewUnsplashProvider creates a provider for the given access key. An empty
// key disables the provider without making network calls.
func NewUnsplashProvider(accessKey string, timeout time.Duration, logger *zap.Logger) *UnsplashProvider {
	return &UnsplashProvider{
		accessKey: accessKey,
		baseURL:   unsplashBaseURL,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// WithBaseURL points the provider at another endpoint (tests).
func (u *UnsplashProvider) WithBaseURL(baseURL string) *UnsplashProvider {
	u.baseURL = baseURL
	return u
}

func (u *UnsplashProvider) Name() string { return "unsplash" }

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

func (u *UnsplashProvider) SearchImage(ctx context.Context, query string) (string, error) {
	if u.accessKey == "" {
		return "", ErrNoImage
	}

	endpoint := fmt.Sprintf("%s/search/photos?query=%s&per_page=1&orientation=landscape", u.baseURL, url.QueryEscape(query))
	var resp unsplashSearchResponse
	if err := getJSON(ctx, u.client, endpoint, "Client-ID "+u.accessKey, &resp); err != nil {
		return "", err
	}

	if len(resp.Results) == 0 || resp.Results[0].URLs.Regular == "" {
		u.logger.Debug("unsplash returned no photos", zap.String("query", query))
		return "", ErrNoImage
	}
	return resp.Results[0].URLs.Regular, nil
}

// PexelsProvider searches the Pexels photo API.
type PexelsProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewPexelsProvider creates a provider for the given API key. An empty key
// disables the provider without making network calls.
func NewPexelsProvider(apiKey string, timeout time.Duration, logger *zap.Logger) *PexelsProvider {
	return &PexelsProvider{
		apiKey:  apiKey,
		baseURL: pexelsBaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// WithBaseURL points the provider at another endpoint (tests).
func (p *PexelsProvider) WithBaseURL(baseURL string) *PexelsProvider {
	p.baseURL = baseURL
	return p
}

func (p *PexelsProvider) Name() string { return "pexels" }

type pexelsSearchResponse struct {
	Photos []struct {
		Src struct {
			Landscape string `json:"landscape"`
		} `json:"src"`
	} `json:"photos"`
}

func (p *PexelsProvider) SearchImage(ctx context.Context, query string) (string, error) {
	if p.apiKey == "" {
		return "", ErrNoImage
	}

	endpoint := fmt.Sprintf("%s/v1/search?query=%s&per_page=1&orientation=landscape", p.baseURL, url.QueryEscape(query))
	var resp pexelsSearchResponse
	if err := getJSON(ctx, p.client, endpoint, p.apiKey, &resp); err != nil {
		return "", err
	}

	if len(resp.Photos) == 0 || resp.Photos[0].Src.Landscape == "" {
		p.logger.Debug("pexels returned no photos", zap.String("query", query))
		return "", ErrNoImage
	}
	return resp.Photos[0].Src.Landscape, nil
}

// getJSON performs one authorized GET and decodes the JSON body into out.
func getJSON(ctx context.Context, client *http.Client, endpoint, authorization string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "location-service/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("searching images: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return fmt.Errorf("image API returned %d: %s", resp.StatusCode, string(body))
	}

	// 1MB is far above any single-result search response.
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return fmt.Errorf("decoding search response: %w", err)
	}
	return nil
}
