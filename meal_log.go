package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validMealTypes is the set of allowed values for the meal_type enum.
// Reject unknown values with 400 rather than letting the DB return a cryptic 500.
var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// getDailySummary returns the meals and computed totals for a given date.
// GET /api/meals/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailySummary(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	// Validate date format before querying — an invalid value silently returns no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	meals, err := queryMany[mealEntry](h.db, c,
		`SELECT * FROM meal_log
		 WHERE user_id = @userID AND date = @date
		 ORDER BY created_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}
	// Ensure meals is an empty array (not null) in JSON
	if meals == nil {
		meals = []mealEntry{}
	}

	p, err := queryOne[profile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	populateComputedEnergy(&p)

	var calories int
	var proteinG, carbsG, fatG float64
	for _, m := range meals {
		calories += m.Calories
		if m.ProteinG != nil {
			proteinG += *m.ProteinG
		}
		if m.CarbsG != nil {
			carbsG += *m.CarbsG
		}
		if m.FatG != nil {
			fatG += *m.FatG
		}
	}

	// An incomplete profile has no computable target; report 0 for both the
	// target and the remainder rather than a misleading negative number.
	target, left := 0, 0
	if p.ComputedTarget != nil {
		target = *p.ComputedTarget
		left = target - calories
	}

	c.JSON(http.StatusOK, dailySummary{
		Date:         date,
		DailyTarget:  target,
		Calories:     calories,
		CaloriesLeft: left,
		ProteinG:     proteinG,
		CarbsG:       carbsG,
		FatG:         fatG,
		Meals:        meals,
		Profile:      p,
	})
}

// getMealRange returns per-day calorie totals and aggregate stats for an arbitrary
// date range. GET /api/meals/range?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params
// required. Only days with logged meals are returned (no gap-filling — the
// frontend handles that).
func (h *Handler) getMealRange(c *gin.Context) {
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

	p, err := queryOne[profile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	populateComputedEnergy(&p)
	target := 0
	if p.ComputedTarget != nil {
		target = *p.ComputedTarget
	}

	rows, err := queryMany[mealDayRow](h.db, c,
		`SELECT
			date,
			SUM(calories) AS calories,
			COALESCE(SUM(protein_g), 0) AS protein_g,
			COALESCE(SUM(carbs_g),   0) AS carbs_g,
			COALESCE(SUM(fat_g),     0) AS fat_g
		 FROM meal_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 GROUP BY date
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch range data")
		return
	}

	days := make([]daySummary, 0, len(rows))
	var stats rangeStats
	for _, row := range rows {
		left := 0
		if target > 0 {
			left = target - row.Calories
		}
		days = append(days, daySummary{
			Date:         row.Date,
			DailyTarget:  target,
			Calories:     row.Calories,
			CaloriesLeft: left,
			ProteinG:     row.ProteinG,
			CarbsG:       row.CarbsG,
			FatG:         row.FatG,
			HasData:      true,
		})
		stats.DaysTracked++
		if target > 0 && row.Calories <= target {
			stats.DaysOnTarget++
		}
		stats.AvgCalories += row.Calories
	}
	if stats.DaysTracked > 0 {
		stats.AvgCalories /= stats.DaysTracked
	}

	c.JSON(http.StatusOK, rangeResponse{Days: days, Stats: stats})
}

// createMeal inserts a new meal entry.
// POST /api/meals. Defaults date to today if omitted.
func (h *Handler) createMeal(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if body.MealType == "" {
		apiError(c, http.StatusBadRequest, "meal_type is required")
		return
	}
	// Validate type against the enum; prevents a cryptic 500 from the DB constraint.
	if !validMealTypes[body.MealType] {
		apiError(c, http.StatusBadRequest, "meal_type must be one of: breakfast, lunch, dinner, snack")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	}

	meal, err := queryOne[mealEntry](h.db, c,
		`INSERT INTO meal_log (user_id, date, meal_type, name, calories, protein_g, carbs_g, fat_g)
		 VALUES (@userID, @date, @mealType, @name, @calories, @proteinG, @carbsG, @fatG)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": body.Date, "mealType": body.MealType,
			"name": body.Name, "calories": body.Calories,
			"proteinG": body.ProteinG, "carbsG": body.CarbsG, "fatG": body.FatG,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create meal")
		return
	}

	c.JSON(http.StatusCreated, meal)
}

// updateMeal updates an existing meal entry.
// PUT /api/meals/:id. Uses COALESCE so omitted fields keep their current value.
func (h *Handler) updateMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		Date     *string  `json:"date"`
		MealType *string  `json:"meal_type"`
		Name     *string  `json:"name"`
		Calories *int     `json:"calories"`
		ProteinG *float64 `json:"protein_g"`
		CarbsG   *float64 `json:"carbs_g"`
		FatG     *float64 `json:"fat_g"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.MealType != nil && !validMealTypes[*body.MealType] {
		apiError(c, http.StatusBadRequest, "meal_type must be one of: breakfast, lunch, dinner, snack")
		return
	}

	meal, err := queryOne[mealEntry](h.db, c,
		`UPDATE meal_log SET
			date      = COALESCE(@date, date),
			meal_type = COALESCE(@mealType, meal_type),
			name      = COALESCE(@name, name),
			calories  = COALESCE(@calories, calories),
			protein_g = COALESCE(@proteinG, protein_g),
			carbs_g   = COALESCE(@carbsG, carbs_g),
			fat_g     = COALESCE(@fatG, fat_g),
			updated_at = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID,
			"date": body.Date, "mealType": body.MealType, "name": body.Name,
			"calories": body.Calories, "proteinG": body.ProteinG,
			"carbsG": body.CarbsG, "fatG": body.FatG,
		})
	if err != nil {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	c.JSON(http.StatusOK, meal)
}

// deleteMeal removes a meal entry. Returns 204 on success.
// DELETE /api/meals/:id.
func (h *Handler) deleteMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM meal_log WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	c.Status(http.StatusNoContent)
}
