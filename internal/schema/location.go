package schema

import "strings"

// Version identifies the Location schema. Bump it when fields change so
// cached entries and prompts can be told apart.
const Version = "location/v1"

var colorHint = "Color suggestion: " + strings.Join([]string{"Red", "Blue", "Green", "Yellow", "Purple", "Orange", "Teal", "Pink"}, ", ")

func metric(withCurrency, withGrowth bool) *Node {
	props := []Property{prop("value", str(""))}
	if withCurrency {
		props = append(props, prop("currency", str("")))
	}
	if withGrowth {
		props = append(props, prop("growth", str("")))
	}
	props = append(props,
		prop("comparison", str("")),
		prop("insight", str("One polite sentence on what the figure means for a traveler")),
	)
	return object("", props...)
}

// Location is the response schema for one LocationRecord, without the header
// image which the service resolves separately.
var Location = func() *Node {
	locationName := str("Canonical display name of the place")
	locationName.MinLength = 1
	locationName.Pattern = `\S`

	currencyCode := str("3-letter ISO 4217 currency code, e.g. USD")
	currencyCode.Pattern = `^[A-Z]{3}$`

	return object("Location data schema",
		prop("locationName", locationName),
		prop("englishLocationName", str("English name used for image search, e.g. 'Osaka'")),
		prop("subtitle", str("One-line descriptive summary")),
		prop("tags", array("", str(""))),
		prop("economicSnapshot", object("",
			prop("year", str("")),
			prop("dataScope", str("")),
			prop("cityPulse", str("A catchy phrase describing the place's current vibe")),
			prop("livingCost", object("",
				prop("index", enum("", "Low", "Medium", "High", "Very High")),
				prop("coffeePrice", str("Price of a latte")),
				prop("insight", str("Insight about living cost")),
			)),
			prop("gdp", metric(true, true)),
			prop("tradeVolume", metric(true, false)),
			prop("annualVisitors", metric(false, false)),
			prop("unemploymentRate", metric(false, false)),
			prop("inflationRate", metric(false, false)),
		)),
		prop("majorIndustries", array("", object("",
			prop("name", str("")),
			prop("icon", str("Material Icons name in snake_case")),
			prop("colorKey", str("")),
			prop("color", str(colorHint)),
		))),
		prop("historicalTimeline", array("", object("",
			prop("year", str("")),
			prop("title", str("")),
			prop("description", str("")),
			prop("icon", str("Material Icons name in snake_case")),
			prop("color", str(colorHint)),
		))),
		prop("travelPlan", object("",
			prop("title", str("")),
			prop("description", str("")),
			prop("itinerary", array("", object("",
				prop("time", str("")),
				prop("title", str("")),
				prop("description", str("")),
				prop("icon", str("Material Icons name in snake_case")),
				prop("historicalContext", str("")),
			))),
		)),
		prop("deepDive", object("",
			prop("title", str("")),
			prop("summary", str("")),
			prop("fullStory", str("Long-form report")),
			prop("source", object("",
				prop("name", str("")),
				prop("details", str("")),
			)),
		)),
		prop("tourismInfo", object("",
			prop("latitude", number("", -90, 90)),
			prop("longitude", number("", -180, 180)),
			prop("regionalCenter", str("")),
			prop("distanceFromCenter", str("")),
			prop("language", str("")),
			prop("currency", str("")),
			prop("currencyCode", currencyCode),
			prop("currencyRate", str("")),
			prop("area", str("")),
			prop("tourismInfo", str("Tourism summary, about 300 characters")),
		)),
		prop("payment", object("",
			prop("currency", str("Currency name, e.g. Euro")),
			prop("cashInfo", str("Short summary of cash necessity")),
			prop("cardInfo", str("Short summary of card acceptance")),
			prop("tipping", str("Short summary of tipping culture")),
			prop("tippingRate", str("e.g. '10-15%', 'Round up'")),
		)),
	)
}()
