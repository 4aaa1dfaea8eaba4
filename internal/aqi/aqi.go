// Package aqi normalizes raw pollutant concentrations onto the standardized
// 0–500 air-quality index using the US EPA PM2.5 breakpoint table.
package aqi

import (
	"math"

	"github.com/nmishr/geo-dashboard/internal/models"
)

type breakpoint struct {
	cLow, cHigh float64 // PM2.5 concentration bounds, µg/m³
	iLow, iHigh int     // index bounds
}

// The breakpoint table is fixed and not configurable.
var breakpoints = []breakpoint{
	{0.0, 12.0, 0, 50},
	{12.1, 35.4, 51, 100},
	{35.5, 55.4, 101, 150},
	{55.5, 150.4, 151, 200},
	{150.5, 250.4, 201, 300},
	{250.5, 350.4, 301, 400},
	{350.5, 500.4, 401, 500},
}

const maxIndex = 500

// dominantOrder lists the pollutants eligible for dominant-pollutant
// selection; nh3 and no are excluded. Order breaks ties.
var dominantOrder = []models.Pollutant{
	models.PollutantPM25,
	models.PollutantPM10,
	models.PollutantNO2,
	models.PollutantSO2,
	models.PollutantO3,
	models.PollutantCO,
}

// Compute derives the full assessment from a pollutant profile. A profile
// without pm2_5 yields a nil index, label, and tip — never a zero index.
func Compute(pollutants models.PollutantProfile) models.AirQualityAssessment {
	a := models.AirQualityAssessment{
		Pollutants:        pollutants,
		DominantPollutant: dominant(pollutants),
	}

	pm25, ok := pollutants[models.PollutantPM25]
	if !ok {
		return a
	}

	a.Index = indexFromPM25(pm25)
	if a.Index != nil {
		a.Label = models.StringPtr(labelFor(*a.Index))
		a.HealthTip = models.StringPtr(tipFor(*a.Index))
	}
	return a
}

// indexFromPM25 interpolates the index for a PM2.5 concentration. Values
// above the top breakpoint saturate at 500. Concentrations falling in the
// gaps between brackets (e.g. 12.05) have no defined index.
func indexFromPM25(c float64) *int {
	c = math.Max(0, c)
	if c > 500.4 {
		return models.IntPtr(maxIndex)
	}
	for _, bp := range breakpoints {
		if c >= bp.cLow && c <= bp.cHigh {
			idx := float64(bp.iHigh-bp.iLow)/(bp.cHigh-bp.cLow)*(c-bp.cLow) + float64(bp.iLow)
			return models.IntPtr(int(math.Round(idx)))
		}
	}
	return nil
}

func labelFor(index int) string {
	switch {
	case index <= 50:
		return "Good"
	case index <= 100:
		return "Satisfactory"
	case index <= 200:
		return "Moderate"
	case index <= 300:
		return "Poor"
	case index <= 400:
		return "Very Poor"
	default:
		return "Severe"
	}
}

func tipFor(index int) string {
	switch {
	case index <= 50:
		return "Air is good. Enjoy outdoor activities."
	case index <= 100:
		return "Acceptable. Sensitive people should monitor symptoms."
	case index <= 200:
		return "Limit long outdoor exertion if you feel discomfort."
	case index <= 300:
		return "Sensitive groups should avoid outdoor activities."
	case index <= 400:
		return "Avoid outdoor exertion. Consider wearing a mask outdoors."
	default:
		return "Severe: Stay indoors; use air purifier if available."
	}
}

// dominant picks the eligible pollutant with the largest concentration.
// Strict greater-than keeps the earlier key on ties.
func dominant(pollutants models.PollutantProfile) *models.Pollutant {
	var best *models.Pollutant
	var bestVal float64
	for _, key := range dominantOrder {
		v, ok := pollutants[key]
		if !ok {
			continue
		}
		if best == nil || v > bestVal {
			k := key
			best = &k
			bestVal = v
		}
	}
	return best
}
