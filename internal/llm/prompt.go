package llm

import (
	"fmt"
	"strings"
)

// DefaultLanguage is used when a request does not name one.
const DefaultLanguage = "Japanese"

// BuildPrompt creates the instruction shared by every backend.
func BuildPrompt(req Request) string {
	lang := req.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Role: a world-class travel journalist and economic analyst.\n")
	fmt.Fprintf(&b, "Objective: produce tourism, economy, history and payment data for %q.\n", req.Place)

	if req.Theme != "" {
		fmt.Fprintf(&b, `
CORE THEME: %[1]s
The reader wants to understand %[1]s in this place. Keep general information to
a minimum and prioritize %[1]s in these sections:
1. historicalTimeline: events about the origin, growth and turning points of %[1]s here.
2. deepDive.fullStory: a narrative of how %[1]s shaped the place and still shapes it.
3. travelPlan: a themed itinerary that visits the history and sites of %[1]s.
`, req.Theme)
	}

	fmt.Fprintf(&b, `
Strict language and icon rules:
1. Write every narrative field in %[1]s, in a polite standard register (no dialects, no slang).
2. Never translate icon fields. Use official Google Material Icons names in lower snake_case,
   e.g. "history_edu", "attach_money", "train". Not "Train", not translated words.

Data rules:
- deepDive.fullStory: a long report of at least 1000 characters covering history, economy,
  culture and people, lesser-known facts and the outlook for the future.
- Numbers: always concrete figures; estimates are fine, "unknown" is not.
- tourismInfo: accurate numeric latitude and longitude; currencyCode is a 3-letter ISO code
  such as USD; tourismInfo summary of about 300 characters.
- economicSnapshot.cityPulse: a short catch phrase for the current vibe of the place.
- Each insight: one sentence on how the figure affects a traveler's experience.
- livingCost: give a concrete coffee price to convey local price levels.
- payment: currency name, cash necessity, card acceptance, tipping culture and typical tipping rate.
- majorIndustries and historicalTimeline: give each item a color from
  Red, Blue, Green, Yellow, Purple, Orange, Teal, Pink.
`, lang)

	return b.String()
}
