package model

import (
	"testing"
)

func TestNewCacheKey_PermutationsMatch(t *testing.T) {
	permutations := [][]string{
		{"art", "finance", "culture"},
		{"finance", "art", "culture"},
		{"culture", "finance", "art"},
		{"art", "culture", "finance", "art"},
	}

	want := NewCacheKey("Paris", permutations[0])
	for _, tags := range permutations[1:] {
		got := NewCacheKey("Paris", tags)
		if got != want {
			t.Errorf("tags %v: expected key %v, got %v", tags, want, got)
		}
	}
	if want.Tags != "art,culture,finance" {
		t.Errorf("expected normalized tags 'art,culture,finance', got %q", want.Tags)
	}
}

func TestNewCacheKey_NoTags(t *testing.T) {
	for _, tags := range [][]string{nil, {}, {"", "  "}} {
		key := NewCacheKey(" Kyoto ", tags)
		if key.Place != "Kyoto" {
			t.Errorf("expected trimmed place Kyoto, got %q", key.Place)
		}
		if key.Tags != "" {
			t.Errorf("tags %v: expected empty tag set, got %q", tags, key.Tags)
		}
	}
}

func TestNewCacheKey_DifferentPlaces(t *testing.T) {
	a := NewCacheKey("Paris", []string{"art"})
	b := NewCacheKey("Rome", []string{"art"})
	if a == b {
		t.Error("expected different places to produce different keys")
	}
}

func TestCacheKey_StringIsUnambiguous(t *testing.T) {
	pairs := [][2]CacheKey{
		{{Place: "a|", Tags: "b"}, {Place: "a", Tags: "|b"}},
		{{Place: "a:b", Tags: ""}, {Place: "a", Tags: "b"}},
		{{Place: "1:a", Tags: ""}, {Place: "a", Tags: ""}},
	}
	for _, p := range pairs {
		if p[0].String() == p[1].String() {
			t.Errorf("keys %+v and %+v render to the same string %q", p[0], p[1], p[0].String())
		}
	}
}

func TestParseTags(t *testing.T) {
	tags, err := ParseTags("finance, art,,")
	if err != nil {
		t.Fatalf("parsing tags: %v", err)
	}
	if len(tags) != 2 || tags[0] != "finance" || tags[1] != "art" {
		t.Errorf("expected [finance art], got %v", tags)
	}

	if _, err := ParseTags("art,skydiving"); err == nil {
		t.Error("expected error for unknown tag")
	}

	tags, err = ParseTags("")
	if err != nil || tags != nil {
		t.Errorf("expected nil tags and no error for empty input, got %v, %v", tags, err)
	}
}

func TestWithHeaderImage_LeavesOriginal(t *testing.T) {
	base := LocationRecord{LocationName: "Kyoto"}
	merged := base.WithHeaderImage("https://img/kyoto.jpg")

	if merged.HeaderImageURL != "https://img/kyoto.jpg" {
		t.Errorf("expected merged image URL, got %q", merged.HeaderImageURL)
	}
	if merged.LocationName != "Kyoto" {
		t.Errorf("expected location name Kyoto, got %q", merged.LocationName)
	}
	if base.HeaderImageURL != "" {
		t.Error("expected original record to be unchanged")
	}
}
