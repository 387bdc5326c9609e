package main

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// trendWindowDays is the lookback for the smoothed weight trend. Daily scale
// weight is noisy (water, glycogen); a 7-day average is the usual smoothing.
const trendWindowDays = 7

// projectionResponse is the body for GET /api/projection.
type projectionResponse struct {
	CurrentWeightKG  *float64  `json:"current_weight_kg"`
	TrendWeightKG    *float64  `json:"trend_weight_kg"`
	ObservedKgPerWk  *float64  `json:"observed_kg_per_week"`
	TargetWeightKG   *float64  `json:"target_weight_kg"`
	KgRemaining      *float64  `json:"kg_remaining"`
	ProjectedDate    *DateOnly `json:"projected_date"`
	WeeksRemaining   *float64  `json:"weeks_remaining"`
}

// trendAverage returns the mean of the last n entries' weights, or ok=false
// when there are none.
func trendAverage(entries []weightEntry, n int) (float64, bool) {
	if len(entries) == 0 {
		return 0, false
	}
	start := len(entries) - n
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, e := range entries[start:] {
		sum += e.WeightKG
	}
	return sum / float64(len(entries)-start), true
}

// observedRate estimates the actual loss rate (kg/week) from the first and
// last entries of the window. Needs at least two entries on distinct dates.
func observedRate(entries []weightEntry) (float64, bool) {
	if len(entries) < 2 {
		return 0, false
	}
	first, last := entries[0], entries[len(entries)-1]
	days := last.Date.Sub(first.Date.Time).Hours() / 24
	if days <= 0 {
		return 0, false
	}
	return (first.WeightKG - last.WeightKG) / days * 7, true
}

// projectGoalDate computes when the target weight is reached at the chosen
// weekly rate. ok=false when the rate is non-positive or the goal is already
// met.
func projectGoalDate(currentKg, targetKg, weeklyRateKg float64, today time.Time) (time.Time, float64, bool) {
	remaining := currentKg - targetKg
	if weeklyRateKg <= 0 || remaining <= 0 {
		return time.Time{}, 0, false
	}
	weeks := remaining / weeklyRateKg
	days := int(math.Ceil(weeks * 7))
	return today.AddDate(0, 0, days), weeks, true
}

// getProjection returns the smoothed weight trend and the projected date of
// reaching the target weight at the profile's chosen weekly rate.
// GET /api/projection.
func (h *Handler) getProjection(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[profile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	// Recent weights, oldest first, covering two trend windows so the
	// observed rate has something to compare against.
	since := time.Now().AddDate(0, 0, -2*trendWindowDays)
	entries, err := queryMany[weightEntry](h.db, c,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @since
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "since": since.Format("2006-01-02")})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}

	var resp projectionResponse
	resp.TargetWeightKG = p.TargetWeightKG

	// Latest logged weight wins; fall back to the profile weight.
	current := p.WeightKG
	if len(entries) > 0 {
		current = &entries[len(entries)-1].WeightKG
	}
	resp.CurrentWeightKG = current

	if avg, ok := trendAverage(entries, trendWindowDays); ok {
		resp.TrendWeightKG = &avg
	}
	if rate, ok := observedRate(entries); ok {
		resp.ObservedKgPerWk = &rate
	}

	if current != nil && p.TargetWeightKG != nil {
		remaining := *current - *p.TargetWeightKG
		resp.KgRemaining = &remaining
		if p.WeeklyRateKG != nil {
			if when, weeks, ok := projectGoalDate(*current, *p.TargetWeightKG, *p.WeeklyRateKG, time.Now()); ok {
				d := DateOnly{when}
				resp.ProjectedDate = &d
				resp.WeeksRemaining = &weeks
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
