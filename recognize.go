package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// recognizeRequest is the request body for POST /api/meals/recognize.
type recognizeRequest struct {
	Description string `json:"description"`
	MealType    string `json:"meal_type"`
}

// recognizedMeal is the structured nutrition data returned by the AI.
// Confidence is 1-5 indicating how accurate the estimate is.
type recognizedMeal struct {
	Name       string  `json:"name"`
	MealType   string  `json:"meal_type"`
	Calories   int     `json:"calories"`
	ProteinG   float64 `json:"protein_g"`
	CarbsG     float64 `json:"carbs_g"`
	FatG       float64 `json:"fat_g"`
	Confidence int     `json:"confidence"`
}

/* ─── OpenAI prompt constants ────────────────────────────────────────── */

const recognizeSystemPrompt = `You are a nutrition assistant. Parse the meal description and return a JSON object with:
- "name" (string, cleaned up title case)
- "meal_type" (one of: breakfast, lunch, dinner, snack)
- "calories" (integer, total for the full described portion)
- "protein_g" (number, grams, total for the full portion)
- "carbs_g" (number, grams, total for the full portion)
- "fat_g" (number, grams, total for the full portion)
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague items. Use your knowledge of similar foods to approximate. Only return {"error": "unrecognized"} if the input is not food at all (e.g. random characters, non-food objects).
Return only valid JSON, no explanation.`

/* ─── Handler ────────────────────────────────────────────────────────── */

// recognizeMeal handles POST /api/meals/recognize.
// Accepts a free-text meal description, calls OpenAI to parse it into
// structured nutrition data, and returns the recognized meal. The reply is
// fence-stripped before parsing; an unparseable or non-food reply surfaces as
// {"error":"unrecognized"} rather than a hard failure.
func (h *Handler) recognizeMeal(c *gin.Context) {
	var req recognizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}
	if req.MealType != "" && !validMealTypes[req.MealType] {
		apiError(c, http.StatusBadRequest, "meal_type must be one of: breakfast, lunch, dinner, snack")
		return
	}

	userContent := req.Description
	if req.MealType != "" {
		userContent = req.MealType + ": " + req.Description
	}
	messages := []openAIMessage{
		{Role: "system", Content: recognizeSystemPrompt},
		{Role: "user", Content: userContent},
	}

	content, err := callOpenAI(c.Request.Context(), messages, h.openAIBaseURL, true)
	if err != nil {
		log.Printf("[recognize] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	content = stripCodeFences(content)

	// Check if the AI returned an "unrecognized" error
	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		log.Printf("[recognize] Failed to parse OpenAI response: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	if errorResp.Error == "unrecognized" {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	// Parse the recognized meal
	var meal recognizedMeal
	if err := json.Unmarshal([]byte(content), &meal); err != nil {
		log.Printf("[recognize] Failed to parse meal JSON: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	// Validate that we got a usable response (at minimum, name and calories)
	if meal.Name == "" || meal.Calories == 0 {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}
	// The client asked for a specific slot; keep it over whatever the model guessed.
	if req.MealType != "" {
		meal.MealType = req.MealType
	}
	if !validMealTypes[meal.MealType] {
		meal.MealType = "snack"
	}

	c.JSON(http.StatusOK, meal)
}
