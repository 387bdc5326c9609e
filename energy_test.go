package main

import "testing"

/* ─── BMR tests ──────────────────────────────────────────────────────── */

// TestBMR_SexOffsetDifference verifies the male/female offset gap: +5 vs -161
// means identical bodies differ by exactly 166 kcal.
func TestBMR_SexOffsetDifference(t *testing.T) {
	male := bmr(70, 175, 30, "male")
	female := bmr(70, 175, 30, "female")
	if male-female != 166 {
		t.Errorf("bmr male-female gap = %d, want 166", male-female)
	}
}

// TestBMR_KnownValues checks exact truncated results for both sexes.
// base = 10*70 + 6.25*175 - 5*30 = 1643.75; male 1648.75→1648, female 1482.75→1482.
func TestBMR_KnownValues(t *testing.T) {
	if got := bmr(70, 175, 30, "male"); got != 1648 {
		t.Errorf("male bmr = %d, want 1648", got)
	}
	if got := bmr(70, 175, 30, "female"); got != 1482 {
		t.Errorf("female bmr = %d, want 1482", got)
	}
}

// TestBMR_UnknownSexFallback verifies that any unrecognised sex string gets
// the neutral -78 offset rather than an error. base 1643.75 - 78 = 1565.75→1565.
func TestBMR_UnknownSexFallback(t *testing.T) {
	for _, sex := range []string{"nonbinary", "yes", ""} {
		if got := bmr(70, 175, 30, sex); got != 1565 {
			t.Errorf("bmr(sex=%q) = %d, want 1565", sex, got)
		}
	}
}

// TestBMR_Monotonicity verifies bmr increases with weight and height and
// decreases with age, holding everything else fixed.
func TestBMR_Monotonicity(t *testing.T) {
	base := bmr(70, 175, 30, "male")
	if !(bmr(71, 175, 30, "male") > base) {
		t.Error("bmr should increase with weight")
	}
	if !(bmr(70, 176, 30, "male") > base) {
		t.Error("bmr should increase with height")
	}
	if !(bmr(70, 175, 31, "male") < base) {
		t.Error("bmr should decrease with age")
	}
}

/* ─── TDEE tests ─────────────────────────────────────────────────────── */

// TestTDEE_MultiplierOrdering verifies the activity levels produce strictly
// increasing TDEE: 1.2 < 1.375 < 1.55 < 1.725.
func TestTDEE_MultiplierOrdering(t *testing.T) {
	levels := []string{"sedentary", "light", "moderate", "active"}
	prev := 0
	for _, lvl := range levels {
		got := tdee(70, 175, 30, "male", lvl)
		if got <= prev {
			t.Errorf("tdee(%q) = %d, want > %d", lvl, got, prev)
		}
		prev = got
	}
}

// TestTDEE_UnknownActivityFallsBackToLight verifies unrecognised activity
// levels use the light multiplier, not zero and not an error.
func TestTDEE_UnknownActivityFallsBackToLight(t *testing.T) {
	want := tdee(70, 175, 30, "male", "light")
	if got := tdee(70, 175, 30, "male", "couch-to-5k"); got != want {
		t.Errorf("tdee(unknown level) = %d, want light value %d", got, want)
	}
	if got := tdee(70, 175, 30, "male", "couch-to-5k"); got == 0 {
		t.Error("tdee(unknown level) must not be zero")
	}
}

/* ─── Daily target tests ─────────────────────────────────────────────── */

// TestDailyTarget_SafetyFloor verifies the 1200 kcal clamp holds even for an
// extreme requested rate: a small sedentary profile with 5 kg/week implies a
// 5500 kcal deficit and a hugely negative raw target.
func TestDailyTarget_SafetyFloor(t *testing.T) {
	if got := dailyTarget(50, 150, 70, "female", "sedentary", 5.0); got != 1200 {
		t.Errorf("dailyTarget = %d, want floor 1200", got)
	}
}

// TestDailyTarget_DeficitArithmetic checks the deficit conversion on a profile
// comfortably above the floor. tdee = int(1648*1.55) = 2554; deficit
// round(0.5*1100) = 550; target 2004.
func TestDailyTarget_DeficitArithmetic(t *testing.T) {
	if got := dailyTarget(70, 175, 30, "male", "moderate", 0.5); got != 2004 {
		t.Errorf("dailyTarget = %d, want 2004", got)
	}
}

// TestDailyTarget_ZeroRateEqualsTDEE verifies a zero weekly rate leaves the
// target at TDEE (no deficit).
func TestDailyTarget_ZeroRateEqualsTDEE(t *testing.T) {
	want := tdee(70, 175, 30, "male", "moderate")
	if got := dailyTarget(70, 175, 30, "male", "moderate", 0); got != want {
		t.Errorf("dailyTarget(rate=0) = %d, want tdee %d", got, want)
	}
}

// TestDailyTarget_Deterministic verifies repeated calls with identical inputs
// return identical output — pure function, no hidden state.
func TestDailyTarget_Deterministic(t *testing.T) {
	a := dailyTarget(82.5, 180, 41, "male", "moderate", 0.75)
	b := dailyTarget(82.5, 180, 41, "male", "moderate", 0.75)
	if a != b {
		t.Errorf("dailyTarget not deterministic: %d != %d", a, b)
	}
}

/* ─── Macro split tests ──────────────────────────────────────────────── */

// TestMacroTargets_2000 verifies the 30/40/30 split with 4/4/9 kcal/g factors
// and floor semantics: 600/4=150, 800/4=200, 600/9=66.67→66 (floored, not rounded).
func TestMacroTargets_2000(t *testing.T) {
	p, c, f := macroTargets(2000)
	if p != 150 || c != 200 || f != 66 {
		t.Errorf("macroTargets(2000) = (%d, %d, %d), want (150, 200, 66)", p, c, f)
	}
}

// TestMacroTargets_NeverOvershoot verifies the grams never exceed the calorie
// target when converted back, for a spread of targets.
func TestMacroTargets_NeverOvershoot(t *testing.T) {
	for _, target := range []int{1200, 1500, 1847, 2000, 2500, 3333} {
		p, c, f := macroTargets(target)
		back := p*kcalPerGramProtein + c*kcalPerGramCarb + f*kcalPerGramFat
		if back > target {
			t.Errorf("macroTargets(%d) converts back to %d kcal, exceeds target", target, back)
		}
	}
}
