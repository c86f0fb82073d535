// Package model defines the core data types for the location service.
// Struct tags map fields to the JSON contract shared with page renderers
// (`json:"..."`) and to SQLite columns (`db:"..."`).
package model

// LivingCostIndex is the coarse cost-of-living bucket for a place.
type LivingCostIndex string

const (
	LivingCostLow      LivingCostIndex = "Low"
	LivingCostMedium   LivingCostIndex = "Medium"
	LivingCostHigh     LivingCostIndex = "High"
	LivingCostVeryHigh LivingCostIndex = "Very High"
)

// LivingCostIndexes is the ordered list of valid indexes.
var LivingCostIndexes = []LivingCostIndex{LivingCostLow, LivingCostMedium, LivingCostHigh, LivingCostVeryHigh}

// Palette is the fixed set of color hints the generator may attach to
// industries and timeline events.
var Palette = []string{"Red", "Blue", "Green", "Yellow", "Purple", "Orange", "Teal", "Pink"}

// LocationRecord is the complete dashboard content for one place + tag set.
// A record is never modified after the service returns it.
type LocationRecord struct {
	LocationName        string           `json:"locationName"`
	EnglishLocationName string           `json:"englishLocationName,omitempty"`
	Subtitle            string           `json:"subtitle"`
	Tags                []string         `json:"tags"`
	HeaderImageURL      string           `json:"headerImageUrl"`
	EconomicSnapshot    EconomicSnapshot `json:"economicSnapshot"`
	MajorIndustries     []Industry       `json:"majorIndustries"`
	HistoricalTimeline  []TimelineEvent  `json:"historicalTimeline"`
	TravelPlan          TravelPlan       `json:"travelPlan"`
	DeepDive            DeepDive         `json:"deepDive"`
	TourismInfo         TourismInfo      `json:"tourismInfo"`
	Payment             PaymentInfo      `json:"payment"`
}

type EconomicSnapshot struct {
	Year             string         `json:"year"`
	DataScope        string         `json:"dataScope"`
	CityPulse        string         `json:"cityPulse"`
	LivingCost       LivingCost     `json:"livingCost"`
	GDP              EconomicMetric `json:"gdp"`
	TradeVolume      EconomicMetric `json:"tradeVolume"`
	AnnualVisitors   EconomicMetric `json:"annualVisitors"`
	UnemploymentRate EconomicMetric `json:"unemploymentRate"`
	InflationRate    EconomicMetric `json:"inflationRate"`
}

type LivingCost struct {
	Index       LivingCostIndex `json:"index"`
	CoffeePrice string          `json:"coffeePrice"`
	Insight     string          `json:"insight"`
}

// EconomicMetric is a display-ready figure. Currency and Growth are only
// present on the metrics that carry them (gdp, tradeVolume).
type EconomicMetric struct {
	Value      string `json:"value"`
	Currency   string `json:"currency,omitempty"`
	Growth     string `json:"growth,omitempty"`
	Comparison string `json:"comparison"`
	Insight    string `json:"insight"`
}

type Industry struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	ColorKey string `json:"colorKey"`
	Color    string `json:"color"`
}

type TimelineEvent struct {
	Year        string `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

type DeepDive struct {
	Title     string         `json:"title"`
	Summary   string         `json:"summary"`
	FullStory string         `json:"fullStory"`
	Source    DeepDiveSource `json:"source"`
}

type DeepDiveSource struct {
	Name    string `json:"name"`
	Details string `json:"details"`
}

type TravelPlan struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Itinerary   []ItineraryItem `json:"itinerary"`
}

type ItineraryItem struct {
	Time              string `json:"time"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Icon              string `json:"icon"`
	HistoricalContext string `json:"historicalContext"`
}

// TourismInfo holds the practical facts. Latitude and Longitude are the only
// numeric fields of the record.
type TourismInfo struct {
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	RegionalCenter     string  `json:"regionalCenter"`
	DistanceFromCenter string  `json:"distanceFromCenter"`
	Language           string  `json:"language"`
	Currency           string  `json:"currency"`
	CurrencyCode       string  `json:"currencyCode"`
	CurrencyRate       string  `json:"currencyRate"`
	Area               string  `json:"area"`
	TourismInfo        string  `json:"tourismInfo"`
}

type PaymentInfo struct {
	Currency    string `json:"currency"`
	CashInfo    string `json:"cashInfo"`
	CardInfo    string `json:"cardInfo"`
	Tipping     string `json:"tipping"`
	TippingRate string `json:"tippingRate"`
}

// WithHeaderImage returns a copy of the record with the header image set.
// The receiver is left untouched.
func (r LocationRecord) WithHeaderImage(url string) *LocationRecord {
	r.HeaderImageURL = url
	return &r
}
