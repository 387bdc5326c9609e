package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinels bounding the context digest embedded in coach prompts. The coach
// system prompt tells the model to treat everything between them as data.
const (
	contextHeader = "=== USER CONTEXT (last 7 days) ==="
	contextFooter = "=== END CONTEXT ==="
)

// contextDays is the size of the lookback window for the coach digest.
const contextDays = 7

// contextStore is the read surface the context assembler needs. The Handler
// satisfies it with pgx queries; tests use an in-memory fake.
type contextStore interface {
	userProfile(ctx context.Context, userID int) (profile, error)
	weightsSince(ctx context.Context, userID int, since time.Time) ([]weightEntry, error)
	dailyLogsSince(ctx context.Context, userID int, since time.Time) ([]dailyLog, error)
	mealsSince(ctx context.Context, userID int, since time.Time) ([]mealEntry, error)
}

// buildUserContext assembles the bounded plain-text digest of the last 7 days
// of logged data, annotated with the computed daily target when the profile
// allows one. Reads run sequentially; the result is deterministic for fixed
// store contents and date. No network call happens here — callers embed the
// digest in a chat request themselves.
func buildUserContext(ctx context.Context, store contextStore, userID int, today time.Time) (string, error) {
	since := today.AddDate(0, 0, -(contextDays - 1))

	p, err := store.userProfile(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load profile: %w", err)
	}
	populateComputedEnergy(&p)

	weights, err := store.weightsSince(ctx, userID, since)
	if err != nil {
		return "", fmt.Errorf("load weights: %w", err)
	}
	logs, err := store.dailyLogsSince(ctx, userID, since)
	if err != nil {
		return "", fmt.Errorf("load daily logs: %w", err)
	}
	meals, err := store.mealsSince(ctx, userID, since)
	if err != nil {
		return "", fmt.Errorf("load meals: %w", err)
	}

	var b strings.Builder
	b.WriteString(contextHeader)
	b.WriteString("\n")
	writeProfileFacts(&b, &p)
	writeWeightLines(&b, weights)
	writeDailyLogLines(&b, logs)
	writeMealLines(&b, meals, p.ComputedTarget)
	b.WriteString(contextFooter)
	b.WriteString("\n")
	return b.String(), nil
}

// writeProfileFacts writes the goal/profile section. Absent fields are simply
// skipped; an incomplete profile still yields a useful digest.
func writeProfileFacts(b *strings.Builder, p *profile) {
	facts := []string{}
	if p.Sex != nil {
		facts = append(facts, *p.Sex)
	}
	if p.DateOfBirth != nil {
		if age, ok := ageFromDOB(p.DateOfBirth.Time); ok {
			facts = append(facts, fmt.Sprintf("%dy", age))
		}
	}
	if p.HeightCM != nil {
		facts = append(facts, fmt.Sprintf("%d cm", *p.HeightCM))
	}
	if p.WeightKG != nil {
		facts = append(facts, fmt.Sprintf("%.1f kg", *p.WeightKG))
	}
	if p.ActivityLevel != nil {
		facts = append(facts, "activity "+*p.ActivityLevel)
	}
	if len(facts) > 0 {
		b.WriteString("Profile: " + strings.Join(facts, ", ") + "\n")
	}

	if p.TargetWeightKG != nil && p.WeeklyRateKG != nil {
		b.WriteString(fmt.Sprintf("Goal: %.1f kg at %.2f kg/week\n", *p.TargetWeightKG, *p.WeeklyRateKG))
	}
	if p.ComputedTarget != nil {
		b.WriteString(fmt.Sprintf("Daily target: %d kcal (protein %dg / carbs %dg / fat %dg, 30/40/30 split)\n",
			*p.ComputedTarget, *p.ProteinTargetG, *p.CarbTargetG, *p.FatTargetG))
	} else {
		b.WriteString("Daily target: not computable (profile incomplete)\n")
	}
}

// writeWeightLines writes the weights section, most recent first.
func writeWeightLines(b *strings.Builder, weights []weightEntry) {
	b.WriteString("\nWeights:\n")
	if len(weights) == 0 {
		b.WriteString("  (none logged)\n")
		return
	}
	for i := len(weights) - 1; i >= 0; i-- {
		w := weights[i]
		b.WriteString(fmt.Sprintf("  %s: %.1f kg\n", w.Date.Format("2006-01-02"), w.WeightKG))
	}
}

// writeDailyLogLines writes the daily metrics section, most recent first,
// omitting fields that were never logged for that day.
func writeDailyLogLines(b *strings.Builder, logs []dailyLog) {
	b.WriteString("\nDaily logs:\n")
	if len(logs) == 0 {
		b.WriteString("  (none logged)\n")
		return
	}
	for i := len(logs) - 1; i >= 0; i-- {
		l := logs[i]
		parts := []string{}
		if l.Steps != nil {
			parts = append(parts, fmt.Sprintf("steps %d", *l.Steps))
		}
		if l.ExerciseKcal != nil {
			parts = append(parts, fmt.Sprintf("exercise %d kcal", *l.ExerciseKcal))
		}
		if l.WaterML != nil {
			parts = append(parts, fmt.Sprintf("water %d ml", *l.WaterML))
		}
		if l.SleepHours != nil {
			parts = append(parts, fmt.Sprintf("sleep %.1f h", *l.SleepHours))
		}
		if l.Notes != nil && *l.Notes != "" {
			parts = append(parts, "notes: "+*l.Notes)
		}
		if len(parts) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s: %s\n", l.Date.Format("2006-01-02"), strings.Join(parts, ", ")))
	}
}

// writeMealLines writes meals grouped by date, most recent date first, with
// per-meal and per-day percentage-of-target annotations when a target exists.
// The input is assumed ordered by (date, created_at) ascending, which is the
// order mealsSince returns.
func writeMealLines(b *strings.Builder, meals []mealEntry, target *int) {
	b.WriteString("\nMeals:\n")
	if len(meals) == 0 {
		b.WriteString("  (none logged)\n")
		return
	}

	// Group while preserving within-day order.
	dates := []string{}
	byDate := map[string][]mealEntry{}
	for _, m := range meals {
		key := m.Date.Format("2006-01-02")
		if _, seen := byDate[key]; !seen {
			dates = append(dates, key)
		}
		byDate[key] = append(byDate[key], m)
	}

	for i := len(dates) - 1; i >= 0; i-- {
		day := byDate[dates[i]]
		total := 0
		for _, m := range day {
			total += m.Calories
		}
		b.WriteString(fmt.Sprintf("  %s (total %d kcal%s):\n", dates[i], total, percentOfTarget(total, target)))
		for _, m := range day {
			b.WriteString(fmt.Sprintf("    - %s: %s, %d kcal%s\n",
				m.MealType, m.Name, m.Calories, percentOfTarget(m.Calories, target)))
		}
	}
}

// percentOfTarget formats ", NN% of target" or returns "" when no target is
// computable.
func percentOfTarget(kcal int, target *int) string {
	if target == nil || *target <= 0 {
		return ""
	}
	return fmt.Sprintf(", %d%% of target", kcal*100 / *target)
}

/* ─── pgx-backed store ────────────────────────────────────────────────── */

// pgContextStore satisfies contextStore against the shared pool. It reuses
// the same queries the route handlers run, just keyed by a lower-bound date.
type pgContextStore struct {
	db *pgxpool.Pool
}

func (s pgContextStore) userProfile(ctx context.Context, userID int) (profile, error) {
	rows, err := s.db.Query(ctx,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return profile{}, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[profile])
}

func (s pgContextStore) weightsSince(ctx context.Context, userID int, since time.Time) ([]weightEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @since
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "since": since.Format("2006-01-02")})
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[weightEntry])
}

func (s pgContextStore) dailyLogsSince(ctx context.Context, userID int, since time.Time) ([]dailyLog, error) {
	rows, err := s.db.Query(ctx,
		`SELECT * FROM daily_logs
		 WHERE user_id = @userID AND date >= @since
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "since": since.Format("2006-01-02")})
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[dailyLog])
}

func (s pgContextStore) mealsSince(ctx context.Context, userID int, since time.Time) ([]mealEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT * FROM meal_log
		 WHERE user_id = @userID AND date >= @since
		 ORDER BY date ASC, created_at ASC`,
		pgx.NamedArgs{"userID": userID, "since": since.Format("2006-01-02")})
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[mealEntry])
}
