package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// ageFromDOB derives age in whole years from a date of birth as of now.
// Returns ok=false for implausible ages (DOB in the future, or over 130
// years ago) so callers skip the energy computation instead of producing
// garbage targets.
func ageFromDOB(dob time.Time) (int, bool) {
	today := time.Now()
	age := today.Year() - dob.Year()
	if today.Before(dob.AddDate(age, 0, 0)) {
		age--
	}
	if age <= 0 || age > 130 {
		return 0, false
	}
	return age, true
}

// populateComputedEnergy fills the computed-only fields on p from the stored
// profile. The calculator functions are total — the only gate here is nil
// profile fields and an implausible derived age. Recomputed on every read;
// nothing is cached.
func populateComputedEnergy(p *profile) {
	if p.Sex == nil || p.DateOfBirth == nil || p.HeightCM == nil ||
		p.WeightKG == nil || p.ActivityLevel == nil || p.WeeklyRateKG == nil {
		return
	}
	age, ok := ageFromDOB(p.DateOfBirth.Time)
	if !ok {
		return
	}

	b := bmr(*p.WeightKG, *p.HeightCM, age, *p.Sex)
	t := tdee(*p.WeightKG, *p.HeightCM, age, *p.Sex, *p.ActivityLevel)
	target := dailyTarget(*p.WeightKG, *p.HeightCM, age, *p.Sex, *p.ActivityLevel, *p.WeeklyRateKG)
	proteinG, carbG, fatG := macroTargets(target)

	p.ComputedBMR = &b
	p.ComputedTDEE = &t
	p.ComputedTarget = &target
	p.ProteinTargetG = &proteinG
	p.CarbTargetG = &carbG
	p.FatTargetG = &fatG
}

// getProfile returns the profile for the authenticated user. Computed energy
// fields (bmr, tdee, daily target, macro grams) are populated when all
// profile fields are present.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[profile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	populateComputedEnergy(&p)

	c.JSON(http.StatusOK, p)
}

// patchProfile updates only the provided profile fields.
// PATCH /api/profile. Uses pointer fields in the request body to distinguish
// "not provided" from zero — only non-nil fields get updated.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate activity_level before saving. The calculator would silently
	// fall back to "light" for an unknown level, so reject typos at the API
	// edge where the client can still see them.
	if body.ActivityLevel != nil {
		if _, ok := activityMultipliers[*body.ActivityLevel]; !ok {
			apiError(c, http.StatusBadRequest, "activity_level must be one of: sedentary, light, moderate, active")
			return
		}
	}
	if body.DateOfBirth != nil {
		if _, err := time.Parse("2006-01-02", *body.DateOfBirth); err != nil {
			apiError(c, http.StatusBadRequest, "invalid date_of_birth, expected YYYY-MM-DD")
			return
		}
	}
	if body.HeightCM != nil && *body.HeightCM <= 0 {
		apiError(c, http.StatusBadRequest, "height_cm must be positive")
		return
	}
	if body.WeightKG != nil && (*body.WeightKG <= 0 || *body.WeightKG > 500) {
		apiError(c, http.StatusBadRequest, "weight_kg must be between 0 and 500")
		return
	}
	if body.WeeklyRateKG != nil && (*body.WeeklyRateKG < 0 || *body.WeeklyRateKG > 5) {
		apiError(c, http.StatusBadRequest, "weekly_rate_kg must be between 0 and 5")
		return
	}

	// Build SET clause dynamically — only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	if body.Sex != nil {
		setClauses = append(setClauses, "sex = @sex")
		args["sex"] = *body.Sex
	}
	if body.DateOfBirth != nil {
		setClauses = append(setClauses, "date_of_birth = @dateOfBirth")
		args["dateOfBirth"] = *body.DateOfBirth
	}
	if body.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = @heightCM")
		args["heightCM"] = *body.HeightCM
	}
	if body.WeightKG != nil {
		setClauses = append(setClauses, "weight_kg = @weightKG")
		args["weightKG"] = *body.WeightKG
	}
	if body.ActivityLevel != nil {
		setClauses = append(setClauses, "activity_level = @activityLevel")
		args["activityLevel"] = *body.ActivityLevel
	}
	if body.TargetWeightKG != nil {
		setClauses = append(setClauses, "target_weight_kg = @targetWeightKG")
		args["targetWeightKG"] = *body.TargetWeightKG
	}
	if body.WeeklyRateKG != nil {
		setClauses = append(setClauses, "weekly_rate_kg = @weeklyRateKG")
		args["weeklyRateKG"] = *body.WeeklyRateKG
	}
	if body.SetupComplete != nil {
		setClauses = append(setClauses, "setup_complete = @setupComplete")
		args["setupComplete"] = *body.SetupComplete
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE profiles SET " +
		strings.Join(setClauses, ", ") +
		" WHERE user_id = @userID RETURNING *"

	p, err := queryOne[profile](h.db, c, query, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	populateComputedEnergy(&p)

	c.JSON(http.StatusOK, p)
}
