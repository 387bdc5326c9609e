package main

import "math"

// activityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels — also used for
// input validation in patchProfile.
var activityMultipliers = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"active":    1.725,
}

// defaultActivityMultiplier is used when the stored activity level isn't in the
// table (e.g. written by an older client). Falls back to "light" rather than
// failing, so a stale profile still produces a usable target.
const defaultActivityMultiplier = 1.375

// Sex offsets for Mifflin-St Jeor. sexOffsetOther is the mean of the male and
// female offsets, used as a neutral fallback for any other stored value.
const (
	sexOffsetMale   = 5
	sexOffsetFemale = -161
	sexOffsetOther  = -78
)

// minDailyTarget is the hard safety floor on the daily calorie target. Large
// requested loss rates clamp here instead of producing a starvation budget.
const minDailyTarget = 1200

// kcalPerKgPerWeek converts a weekly loss rate (kg/week) into a daily deficit:
// ~7700 kcal per kg of fat mass spread over 7 days.
const kcalPerKgPerWeek = 1100

// Macro split: 30% protein / 40% carbs / 30% fat of target calories, converted
// with Atwater factors (4 kcal/g protein and carbs, 9 kcal/g fat).
const (
	proteinCalorieShare = 0.30
	carbCalorieShare    = 0.40
	fatCalorieShare     = 0.30
	kcalPerGramProtein  = 4
	kcalPerGramCarb     = 4
	kcalPerGramFat      = 9
)

// bmr computes Basal Metabolic Rate (kcal/day) via Mifflin-St Jeor, truncated
// toward zero. Unrecognised sex values get the neutral offset instead of an
// error — the function is total over its inputs.
func bmr(weightKg float64, heightCm, age int, sex string) int {
	base := 10*weightKg + 6.25*float64(heightCm) - 5*float64(age)
	switch sex {
	case "male":
		base += sexOffsetMale
	case "female":
		base += sexOffsetFemale
	default:
		base += sexOffsetOther
	}
	return int(base)
}

// tdee scales BMR by the activity multiplier, truncated toward zero. Unknown
// activity levels fall back to the "light" multiplier.
func tdee(weightKg float64, heightCm, age int, sex, activityLevel string) int {
	mult, ok := activityMultipliers[activityLevel]
	if !ok {
		mult = defaultActivityMultiplier
	}
	return int(float64(bmr(weightKg, heightCm, age, sex)) * mult)
}

// dailyTarget computes the daily calorie budget: TDEE minus the deficit implied
// by the requested weekly loss rate, clamped to the 1200 kcal safety floor.
func dailyTarget(weightKg float64, heightCm, age int, sex, activityLevel string, weeklyRateKg float64) int {
	deficit := int(math.Round(weeklyRateKg * kcalPerKgPerWeek))
	target := tdee(weightKg, heightCm, age, sex, activityLevel) - deficit
	if target < minDailyTarget {
		target = minDailyTarget
	}
	return target
}

// macroTargets splits a daily calorie target into protein/carb/fat grams.
// Each share is floored, so the grams slightly under-fill the target rather
// than overshooting it.
func macroTargets(dailyTargetKcal int) (proteinG, carbG, fatG int) {
	t := float64(dailyTargetKcal)
	proteinG = int(math.Floor(t * proteinCalorieShare / kcalPerGramProtein))
	carbG = int(math.Floor(t * carbCalorieShare / kcalPerGramCarb))
	fatG = int(math.Floor(t * fatCalorieShare / kcalPerGramFat))
	return proteinG, carbG, fatG
}
