// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"encoding/json"

	"github.com/fleveque/location-service/internal/model"
)

// SampleRecord returns a fully populated record as a generator would produce
// it, without a header image.
func SampleRecord(name string) model.LocationRecord {
	return model.LocationRecord{
		LocationName:        name,
		EnglishLocationName: name,
		Subtitle:            "千年の都と現代が交差する街",
		Tags:                []string{"歴史", "寺社"},
		EconomicSnapshot: model.EconomicSnapshot{
			Year:      "2024",
			DataScope: "市",
			CityPulse: "伝統と革新が共鳴する古都",
			LivingCost: model.LivingCost{
				Index:       model.LivingCostMedium,
				CoffeePrice: "550円",
				Insight:     "ランチは1000円前後が目安です。",
			},
			GDP: model.EconomicMetric{
				Value:      "6.5兆",
				Currency:   "円",
				Growth:     "+1.2%",
				Comparison: "全国平均並み",
				Insight:    "観光業が経済を支えています。",
			},
			TradeVolume: model.EconomicMetric{
				Value:      "1.1兆",
				Currency:   "円",
				Comparison: "関西で上位",
				Insight:    "伝統工芸品の輸出が盛んです。",
			},
			AnnualVisitors: model.EconomicMetric{
				Value:      "5000万人",
				Comparison: "国内有数",
				Insight:    "早朝の観光がおすすめです。",
			},
			UnemploymentRate: model.EconomicMetric{
				Value:      "2.4%",
				Comparison: "全国より低い",
				Insight:    "雇用は安定しています。",
			},
			InflationRate: model.EconomicMetric{
				Value:      "2.8%",
				Comparison: "全国並み",
				Insight:    "宿泊費は上昇傾向です。",
			},
		},
		MajorIndustries: []model.Industry{
			{Name: "観光", Icon: "travel_explore", ColorKey: "tourism", Color: "Orange"},
		},
		HistoricalTimeline: []model.TimelineEvent{
			{Year: "794", Title: "平安京遷都", Description: "都が置かれる。", Icon: "history_edu", Color: "Purple"},
		},
		TravelPlan: model.TravelPlan{
			Title:       "古都めぐり",
			Description: "一日で主要な寺社を巡ります。",
			Itinerary: []model.ItineraryItem{
				{Time: "09:00", Title: "清水寺", Description: "朝の参拝。", Icon: "temple_buddhist", HistoricalContext: "778年創建。"},
			},
		},
		DeepDive: model.DeepDive{
			Title:     "都の千年",
			Summary:   "概要",
			FullStory: "長編レポート",
			Source:    model.DeepDiveSource{Name: "市統計", Details: "2024年版"},
		},
		TourismInfo: model.TourismInfo{
			Latitude:           35.0116,
			Longitude:          135.7681,
			RegionalCenter:     "日本",
			DistanceFromCenter: "大阪から約50km",
			Language:           "日本語",
			Currency:           "日本円",
			CurrencyCode:       "JPY",
			CurrencyRate:       "1ドル=150円",
			Area:               "827.8km²",
			TourismInfo:        "寺社仏閣が集まる観光都市です。",
		},
		Payment: model.PaymentInfo{
			Currency:    "日本円",
			CashInfo:    "小さな店では必要",
			CardInfo:    "VISA/Masterは広く利用可",
			Tipping:     "不要",
			TippingRate: "なし",
		},
	}
}

// SampleJSON returns SampleRecord encoded the way a generation backend
// answers: no headerImageUrl property.
func SampleJSON(name string) []byte {
	rec := SampleRecord(name)
	raw, err := json.Marshal(rec)
	if err != nil {
		panic(err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		panic(err)
	}
	delete(doc, "headerImageUrl")
	out, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return out
}
