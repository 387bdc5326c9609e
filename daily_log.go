package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getDailyLogs returns daily metric rows within [start, end].
// GET /api/daily-logs?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
func (h *Handler) getDailyLogs(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	logs, err := queryMany[dailyLog](h.db, c,
		`SELECT * FROM daily_logs
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch daily logs")
		return
	}
	if logs == nil {
		logs = []dailyLog{}
	}

	c.JSON(http.StatusOK, logs)
}

// upsertDailyLog creates or updates the daily metrics row for the given date.
// POST /api/daily-logs. All metric fields are optional; omitted fields on an
// update keep their current values via COALESCE.
func (h *Handler) upsertDailyLog(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Date         string   `json:"date"`
		Steps        *int     `json:"steps"`
		ExerciseKcal *int     `json:"exercise_kcal"`
		WaterML      *int     `json:"water_ml"`
		SleepHours   *float64 `json:"sleep_hours"`
		Notes        *string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if body.Steps != nil && *body.Steps < 0 {
		apiError(c, http.StatusBadRequest, "steps must not be negative")
		return
	}
	if body.SleepHours != nil && (*body.SleepHours < 0 || *body.SleepHours > 24) {
		apiError(c, http.StatusBadRequest, "sleep_hours must be between 0 and 24")
		return
	}

	entry, err := queryOne[dailyLog](h.db, c,
		`INSERT INTO daily_logs (user_id, date, steps, exercise_kcal, water_ml, sleep_hours, notes)
		 VALUES (@userID, @date, @steps, @exerciseKcal, @waterML, @sleepHours, @notes)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			steps         = COALESCE(EXCLUDED.steps, daily_logs.steps),
			exercise_kcal = COALESCE(EXCLUDED.exercise_kcal, daily_logs.exercise_kcal),
			water_ml      = COALESCE(EXCLUDED.water_ml, daily_logs.water_ml),
			sleep_hours   = COALESCE(EXCLUDED.sleep_hours, daily_logs.sleep_hours),
			notes         = COALESCE(EXCLUDED.notes, daily_logs.notes),
			updated_at    = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": body.Date, "steps": body.Steps,
			"exerciseKcal": body.ExerciseKcal, "waterML": body.WaterML,
			"sleepHours": body.SleepHours, "notes": body.Notes,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to upsert daily log")
		return
	}

	c.JSON(http.StatusCreated, entry)
}
