package weather

import "github.com/i474232898/whether/internal/calendar"

// WindowSummary condenses the hours shown on a card.
type WindowSummary struct {
	Count         int     `json:"count"`
	AvgTemp       float64 `json:"avgTemp"`
	AvgHumidity   float64 `json:"avgHumidity"`
	TotalPrecip   float64 `json:"totalPrecip"`
	MaxPrecipProb float64 `json:"maxPrecipProb"`
}

// SummarizeWindow averages temperature and humidity, sums precipitation and
// takes the highest precipitation probability over points.
func SummarizeWindow(points []calendar.AnchoredPoint) WindowSummary {
	if len(points) == 0 {
		return WindowSummary{}
	}

	var (
		sumTemp     float64
		sumHumidity float64
		sumPrecip   float64
		maxProb     float64
	)

	for _, p := range points {
		sumTemp += p.Temp
		sumHumidity += p.Humidity
		sumPrecip += p.Precip
		if p.PrecipProb > maxProb {
			maxProb = p.PrecipProb
		}
	}

	n := float64(len(points))

	return WindowSummary{
		Count:         len(points),
		AvgTemp:       sumTemp / n,
		AvgHumidity:   sumHumidity / n,
		TotalPrecip:   sumPrecip,
		MaxPrecipProb: maxProb,
	}
}
