package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/location-service/internal/model"
	"github.com/fleveque/location-service/internal/provider"
	"github.com/fleveque/location-service/internal/storage"
	"github.com/fleveque/location-service/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeLocations struct {
	mu        sync.Mutex
	cached    map[string]*model.LocationRecord
	err       error
	generated int
	lastPlace string
	lastTags  []string
}

func (f *fakeLocations) GetLocationData(_ context.Context, place string, tags []string) (*model.LocationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPlace, f.lastTags = place, tags
	if f.err != nil {
		return nil, f.err
	}
	if rec, ok := f.cached[model.NewCacheKey(place, tags).String()]; ok {
		return rec, nil
	}
	f.generated++
	rec := testutil.SampleRecord(place)
	rec.HeaderImageURL = "https://images.example/generated.jpg"
	return &rec, nil
}

func (f *fakeLocations) GetCachedLocationData(_ context.Context, place string, tags []string) (*model.LocationRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.cached[model.NewCacheKey(place, tags).String()]
	return rec, ok
}

type fakeResolver struct {
	calls int
}

func (f *fakeResolver) Resolve(context.Context, string) string {
	f.calls++
	return "https://images.example/resolved.jpg"
}

func newLocationRouter(locations *fakeLocations, images *fakeResolver) *gin.Engine {
	h := NewLocationHandler(locations, images, zap.NewNop())
	router := gin.New()
	router.GET("/locations/:place", h.GetLocation)
	router.GET("/locations/:place/metadata", h.Metadata)
	router.GET("/locations/:place/jsonld", h.JSONLD)
	router.GET("/locations/:place/image", h.Image)
	return router
}

func serve(router *gin.Engine, method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetLocation_ReturnsRecord(t *testing.T) {
	locations := &fakeLocations{}
	router := newLocationRouter(locations, &fakeResolver{})

	w := serve(router, "GET", "/locations/%E4%BA%AC%E9%83%BD?tags=art,finance", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got model.LocationRecord
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.LocationName != "京都" {
		t.Errorf("expected decoded place 京都, got %q", got.LocationName)
	}
	if len(locations.lastTags) != 2 || locations.lastTags[0] != "art" {
		t.Errorf("expected caller tag order to be kept, got %v", locations.lastTags)
	}
}

func TestGetLocation_UnknownTag(t *testing.T) {
	locations := &fakeLocations{}
	router := newLocationRouter(locations, &fakeResolver{})

	w := serve(router, "GET", "/locations/Paris?tags=art,nightlife", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if locations.generated != 0 {
		t.Error("expected no generation for a rejected request")
	}
}

func TestGetLocation_GenerationError(t *testing.T) {
	locations := &fakeLocations{err: &provider.GenerationError{Place: "Paris", Err: errors.New("quota")}}
	router := newLocationRouter(locations, &fakeResolver{})

	w := serve(router, "GET", "/locations/Paris", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["error"] != provider.DefaultFailureMessage {
		t.Errorf("expected localized failure message, got %q", body["error"])
	}
	if strings.Contains(w.Body.String(), "quota") {
		t.Error("expected the backend cause not to leak to the client")
	}
}

func TestMetadata_CachedAndUncached(t *testing.T) {
	rec := testutil.SampleRecord("京都")
	rec.HeaderImageURL = "https://images.example/cached.jpg"
	locations := &fakeLocations{cached: map[string]*model.LocationRecord{
		model.NewCacheKey("京都", nil).String(): &rec,
	}}
	images := &fakeResolver{}
	router := newLocationRouter(locations, images)

	w := serve(router, "GET", "/locations/%E4%BA%AC%E9%83%BD/metadata", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var meta struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		OpenGraph   struct {
			Image string `json:"image"`
		} `json:"openGraph"`
		Cached bool `json:"cached"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &meta); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !meta.Cached || meta.OpenGraph.Image != rec.HeaderImageURL || meta.Description != rec.Subtitle {
		t.Errorf("expected metadata from the cached record, got %+v", meta)
	}
	if !strings.HasPrefix(meta.Title, "京都") {
		t.Errorf("unexpected title %q", meta.Title)
	}
	if images.calls != 0 {
		t.Error("expected no image search for a cached record")
	}

	w = serve(router, "GET", "/locations/Paris/metadata", "")
	if err := json.Unmarshal(w.Body.Bytes(), &meta); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if meta.Cached || meta.OpenGraph.Image != "https://images.example/resolved.jpg" {
		t.Errorf("expected fallback metadata, got %+v", meta)
	}
	if locations.generated != 0 {
		t.Error("expected metadata never to generate")
	}
}

func TestJSONLD(t *testing.T) {
	rec := testutil.SampleRecord("京都")
	locations := &fakeLocations{cached: map[string]*model.LocationRecord{
		model.NewCacheKey("京都", []string{"art"}).String(): &rec,
	}}
	router := newLocationRouter(locations, &fakeResolver{})

	w := serve(router, "GET", "/locations/%E4%BA%AC%E9%83%BD/jsonld?tags=art", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/ld+json") {
		t.Errorf("unexpected content type %q", ct)
	}

	var doc struct {
		Type string `json:"@type"`
		Name string `json:"name"`
		Geo  struct {
			Latitude float64 `json:"latitude"`
		} `json:"geo"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if doc.Type != "TouristDestination" || doc.Name != "京都" || doc.Geo.Latitude != rec.TourismInfo.Latitude {
		t.Errorf("unexpected document %+v", doc)
	}

	if w := serve(router, "GET", "/locations/Paris/jsonld", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an uncached place, got %d", w.Code)
	}
}

func TestImage(t *testing.T) {
	images := &fakeResolver{}
	router := newLocationRouter(&fakeLocations{}, images)

	w := serve(router, "GET", "/locations/Paris/image", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "resolved.jpg") || images.calls != 1 {
		t.Errorf("expected one resolved image, got %s", w.Body.String())
	}
}

type fakeWarmer struct {
	done   chan struct{}
	busy   bool
	places []string
	tags   []string
}

func (f *fakeWarmer) WarmInBackground(_ context.Context, places []string, tags []string) bool {
	if f.busy {
		return false
	}
	f.places, f.tags = places, tags
	close(f.done)
	return true
}

func (f *fakeWarmer) Warming() bool { return f.busy }

func newAdminRouter(t *testing.T, warmer Warmer) (*gin.Engine, storage.GenerationCallRepository) {
	t.Helper()

	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "admin.db"))
	if err != nil {
		t.Fatalf("creating database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	calls := storage.NewGenerationCallRepository(db)
	h := NewAdminHandler(calls, warmer, []string{"東京", "大阪"}, zap.NewNop())

	router := gin.New()
	router.GET("/admin/stats", h.Stats)
	router.POST("/admin/warm", h.Warm)
	return router, calls
}

func TestAdminStats(t *testing.T) {
	router, calls := newAdminRouter(t, &fakeWarmer{done: make(chan struct{})})
	ctx := context.Background()

	for _, ok := range []bool{true, true, false} {
		if err := calls.Create(ctx, &model.GenerationCall{Place: "京都", Provider: "gemini", Model: "m", Success: ok}); err != nil {
			t.Fatalf("seeding calls: %v", err)
		}
	}

	w := serve(router, "GET", "/admin/stats?recent=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		GenerationCalls struct {
			Total     int64 `json:"total"`
			Succeeded int64 `json:"succeeded"`
			Failed    int64 `json:"failed"`
		} `json:"generation_calls"`
		Recent []model.GenerationCall `json:"recent"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.GenerationCalls.Total != 3 || body.GenerationCalls.Succeeded != 2 || body.GenerationCalls.Failed != 1 {
		t.Errorf("unexpected counters %+v", body.GenerationCalls)
	}
	if len(body.Recent) != 2 {
		t.Errorf("expected 2 recent calls, got %d", len(body.Recent))
	}

	if w := serve(router, "GET", "/admin/stats?recent=abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad limit, got %d", w.Code)
	}
}

func TestAdminWarm_FeaturedPlaces(t *testing.T) {
	warmer := &fakeWarmer{done: make(chan struct{})}
	router, _ := newAdminRouter(t, warmer)

	w := serve(router, "POST", "/admin/warm", "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	select {
	case <-warmer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("warm-up did not run")
	}
	if len(warmer.places) != 2 || warmer.places[0] != "東京" {
		t.Errorf("expected featured places, got %v", warmer.places)
	}
}

func TestAdminWarm_ExplicitPlacesAndTags(t *testing.T) {
	warmer := &fakeWarmer{done: make(chan struct{})}
	router, _ := newAdminRouter(t, warmer)

	w := serve(router, "POST", "/admin/warm", `{"places":["Paris"],"tags":["art"]}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
	<-warmer.done
	if len(warmer.places) != 1 || warmer.places[0] != "Paris" || warmer.tags[0] != "art" {
		t.Errorf("unexpected warm arguments %v %v", warmer.places, warmer.tags)
	}
}

func TestAdminWarm_UnknownTag(t *testing.T) {
	router, _ := newAdminRouter(t, &fakeWarmer{done: make(chan struct{})})

	if w := serve(router, "POST", "/admin/warm", `{"tags":["nightlife"]}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAdminWarm_AlreadyRunning(t *testing.T) {
	router, _ := newAdminRouter(t, &fakeWarmer{done: make(chan struct{}), busy: true})

	if w := serve(router, "POST", "/admin/warm", ""); w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}

	w := serve(router, "GET", "/admin/stats", "")
	if !strings.Contains(w.Body.String(), `"warming":true`) {
		t.Errorf("expected stats to report a running warm-up, got %s", w.Body.String())
	}
}
