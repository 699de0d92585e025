// internal/query/dispatch/summary.go
package dispatch

import (
	"fmt"
	"time"

	"github.com/aymanbm/rag-app-consommation/internal/models"
)

const (
	highDailyAverage     = 200
	moderateDailyAverage = 100

	strongVariability = 2.0
	lowVariability    = 0.5

	// Weekend totals 20% off the weekday baseline count as a pattern.
	weekendHighRatio = 1.2
	weekendLowRatio  = 0.8
)

// Summarize derives qualitative observations from a period's aggregate
// and daily profile for the summary answer.
func Summarize(agg models.Aggregate, daily models.DailyBreakdown) models.SummaryNotes {
	var notes models.SummaryNotes
	if agg.Count == 0 || len(daily) == 0 {
		return notes
	}

	dailyAvg := agg.Sum / float64(len(daily))
	switch {
	case dailyAvg > highDailyAverage:
		notes.Insights = append(notes.Insights,
			fmt.Sprintf("Volume quotidien élevé: %.0f unités/jour en moyenne", dailyAvg))
		notes.Recommendations = append(notes.Recommendations,
			"Étudier des pistes d'économie sur les journées les plus chargées")
	case dailyAvg > moderateDailyAverage:
		notes.Insights = append(notes.Insights,
			fmt.Sprintf("Volume quotidien modéré: %.0f unités/jour en moyenne", dailyAvg))
	}

	variability := agg.Variability()
	switch {
	case variability > strongVariability:
		notes.Insights = append(notes.Insights,
			"Forte variabilité des quantités sur la période")
		peak := peakDay(daily)
		notes.Recommendations = append(notes.Recommendations,
			fmt.Sprintf("Investiguer le pic du %s (%.2f unités)", peak.Date.Format("02/01/2006"), peak.Total))
	case variability < lowVariability:
		notes.Insights = append(notes.Insights,
			"Quantités très stables sur la période")
	}

	if line := weekendPattern(daily); line != "" {
		notes.Insights = append(notes.Insights, line)
	}

	return notes
}

func peakDay(daily models.DailyBreakdown) models.DailyEntry {
	peak := daily[0]
	for _, d := range daily[1:] {
		if d.Total > peak.Total {
			peak = d
		}
	}
	return peak
}

// weekendPattern compares weekend and weekday daily averages; an empty
// string means no marked difference or not enough of either kind of day.
func weekendPattern(daily models.DailyBreakdown) string {
	var weekendSum, weekdaySum float64
	var weekendDays, weekdayDays int
	for _, d := range daily {
		switch d.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekendSum += d.Total
			weekendDays++
		default:
			weekdaySum += d.Total
			weekdayDays++
		}
	}
	if weekendDays == 0 || weekdayDays == 0 {
		return ""
	}
	weekdayAvg := weekdaySum / float64(weekdayDays)
	if weekdayAvg <= 0 {
		return ""
	}
	ratio := (weekendSum / float64(weekendDays)) / weekdayAvg

	switch {
	case ratio > weekendHighRatio:
		return fmt.Sprintf("Volumes plus élevés le weekend (+%.0f%% vs semaine)", (ratio-1)*100)
	case ratio < weekendLowRatio:
		return fmt.Sprintf("Volumes plus faibles le weekend (-%.0f%% vs semaine)", (1-ratio)*100)
	}
	return ""
}
