package model

import (
	"fmt"
	"strings"
)

// Tag is an interest theme that narrows generated content.
type Tag string

const (
	TagFinance        Tag = "finance"
	TagTrends         Tag = "trends"
	TagArt            Tag = "art"
	TagFolklore       Tag = "folklore"
	TagTransport      Tag = "transport"
	TagGourmet        Tag = "gourmet"
	TagPopulationFlow Tag = "population-flow"
	TagGeopolitics    Tag = "geopolitics"
	TagCulture        Tag = "culture"
	TagReligion       Tag = "religion"
	TagFoodCulture    Tag = "food-culture"
	TagIndustry       Tag = "industry"
)

// tagLabels gives the theme wording used in generation prompts.
var tagLabels = map[Tag]string{
	TagFinance:        "finance",
	TagTrends:         "current trends",
	TagArt:            "art",
	TagFolklore:       "folklore",
	TagTransport:      "transport and infrastructure",
	TagGourmet:        "gourmet dining",
	TagPopulationFlow: "population flow",
	TagGeopolitics:    "geopolitics",
	TagCulture:        "culture",
	TagReligion:       "religion and thought",
	TagFoodCulture:    "food culture",
	TagIndustry:       "industry",
}

// AllTags is the ordered vocabulary.
var AllTags = []Tag{
	TagFinance, TagTrends, TagArt, TagFolklore, TagTransport, TagGourmet,
	TagPopulationFlow, TagGeopolitics, TagCulture, TagReligion, TagFoodCulture, TagIndustry,
}

// ValidTag reports whether s belongs to the vocabulary.
func ValidTag(s string) bool {
	_, ok := tagLabels[Tag(s)]
	return ok
}

// Label returns the prompt wording for a tag, or the tag itself when unknown.
func (t Tag) Label() string {
	if l, ok := tagLabels[t]; ok {
		return l
	}
	return string(t)
}

// ParseTags splits a comma-separated query value, keeping caller order.
// Empty segments are dropped; unknown tags are an error.
func ParseTags(csv string) ([]string, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	var tags []string
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !ValidTag(part) {
			return nil, fmt.Errorf("unknown tag %q", part)
		}
		tags = append(tags, part)
	}
	return tags, nil
}
