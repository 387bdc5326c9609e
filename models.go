package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// profile maps to profiles. One row per user with the body stats and goal
// fields the energy calculator consumes. All profile fields are nullable —
// a fresh row with nothing filled in still works.
type profile struct {
	UserID         int       `json:"user_id"          db:"user_id"`
	Sex            *string   `json:"sex"              db:"sex"`
	DateOfBirth    *DateOnly `json:"date_of_birth"    db:"date_of_birth"`
	HeightCM       *int      `json:"height_cm"        db:"height_cm"`
	WeightKG       *float64  `json:"weight_kg"        db:"weight_kg"`
	ActivityLevel  *string   `json:"activity_level"   db:"activity_level"`
	TargetWeightKG *float64  `json:"target_weight_kg" db:"target_weight_kg"`
	WeeklyRateKG   *float64  `json:"weekly_rate_kg"   db:"weekly_rate_kg"`
	SetupComplete  bool      `json:"setup_complete"   db:"setup_complete"`

	// Computed fields — derived server-side from the profile on every read;
	// never stored. db:"-" tells RowToStructByName to skip these during scanning.
	ComputedBMR    *int `json:"computed_bmr,omitempty"          db:"-"`
	ComputedTDEE   *int `json:"computed_tdee,omitempty"         db:"-"`
	ComputedTarget *int `json:"computed_daily_target,omitempty" db:"-"`
	ProteinTargetG *int `json:"protein_target_g,omitempty"      db:"-"`
	CarbTargetG    *int `json:"carb_target_g,omitempty"         db:"-"`
	FatTargetG     *int `json:"fat_target_g,omitempty"          db:"-"`
}

// mealEntry maps to meal_log. Nullable macro fields use pointers so pgx can
// scan NULLs and JSON omits them naturally.
type mealEntry struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Date      DateOnly   `json:"date" db:"date"`
	MealType  string     `json:"meal_type" db:"meal_type"`
	Name      string     `json:"name" db:"name"`
	Calories  int        `json:"calories" db:"calories"`
	ProteinG  *float64   `json:"protein_g" db:"protein_g"`
	CarbsG    *float64   `json:"carbs_g" db:"carbs_g"`
	FatG      *float64   `json:"fat_g" db:"fat_g"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// weightEntry maps to weight_log. One entry per user per date, in kilograms.
type weightEntry struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Date      DateOnly   `json:"date" db:"date"`
	WeightKG  float64    `json:"weight_kg" db:"weight_kg"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// dailyLog maps to daily_logs. One row per user per date of daily metrics;
// every metric is optional.
type dailyLog struct {
	ID           int        `json:"id" db:"id"`
	UserID       int        `json:"user_id" db:"user_id"`
	Date         DateOnly   `json:"date" db:"date"`
	Steps        *int       `json:"steps" db:"steps"`
	ExerciseKcal *int       `json:"exercise_kcal" db:"exercise_kcal"`
	WaterML      *int       `json:"water_ml" db:"water_ml"`
	SleepHours   *float64   `json:"sleep_hours" db:"sleep_hours"`
	Notes        *string    `json:"notes" db:"notes"`
	CreatedAt    *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at" db:"updated_at"`
}

// mealDayRow is the shape of each row returned by the per-day GROUP BY query
// in getMealRange. Used only for scanning.
type mealDayRow struct {
	Date     DateOnly `db:"date"`
	Calories int      `db:"calories"`
	ProteinG float64  `db:"protein_g"`
	CarbsG   float64  `db:"carbs_g"`
	FatG     float64  `db:"fat_g"`
}

// daySummary is one day's entry in the GET /api/meals/range response.
// Days with no logged meals have HasData=false and zero calorie fields.
type daySummary struct {
	Date         DateOnly `json:"date"`
	DailyTarget  int      `json:"daily_target"`
	Calories     int      `json:"calories"`
	CaloriesLeft int      `json:"calories_left"`
	ProteinG     float64  `json:"protein_g"`
	CarbsG       float64  `json:"carbs_g"`
	FatG         float64  `json:"fat_g"`
	HasData      bool     `json:"has_data"`
}

// rangeStats aggregates the returned days for GET /api/meals/range.
type rangeStats struct {
	DaysTracked  int `json:"days_tracked"`
	DaysOnTarget int `json:"days_on_target"`
	AvgCalories  int `json:"avg_calories"`
}

// rangeResponse is the full GET /api/meals/range response body.
type rangeResponse struct {
	Days  []daySummary `json:"days"`
	Stats rangeStats   `json:"stats"`
}

// dailySummary is the response shape for GET /api/meals/daily.
// Includes the day's meals, the profile, and computed totals.
type dailySummary struct {
	Date         string      `json:"date"`
	DailyTarget  int         `json:"daily_target"`
	Calories     int         `json:"calories"`
	CaloriesLeft int         `json:"calories_left"`
	ProteinG     float64     `json:"protein_g"`
	CarbsG       float64     `json:"carbs_g"`
	FatG         float64     `json:"fat_g"`
	Meals        []mealEntry `json:"meals"`
	Profile      profile     `json:"profile"`
}

// createMealRequest is the request body for POST /api/meals.
type createMealRequest struct {
	Date     string   `json:"date"`
	MealType string   `json:"meal_type"`
	Name     string   `json:"name"`
	Calories int      `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
}

// patchProfileRequest is the request body for PATCH /api/profile.
// All fields are pointers — only non-nil fields get written to the database.
type patchProfileRequest struct {
	Sex            *string  `json:"sex"`
	DateOfBirth    *string  `json:"date_of_birth"` // YYYY-MM-DD string, stored as date
	HeightCM       *int     `json:"height_cm"`
	WeightKG       *float64 `json:"weight_kg"`
	ActivityLevel  *string  `json:"activity_level"`
	TargetWeightKG *float64 `json:"target_weight_kg"`
	WeeklyRateKG   *float64 `json:"weekly_rate_kg"`
	SetupComplete  *bool    `json:"setup_complete"`
}
