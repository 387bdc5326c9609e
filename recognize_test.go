package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// setupRecognizeTest creates a Gin engine with a mock OpenAI server and returns
// the router and a function to set the mock response. No DB needed.
func setupRecognizeTest() (*gin.Engine, *httptest.Server, func(int, interface{})) {
	var mockStatus int
	var mockBody interface{}

	mockOpenAI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mockStatus)
		json.NewEncoder(w).Encode(mockBody)
	}))

	gin.SetMode(gin.TestMode)
	h := Handler{openAIBaseURL: mockOpenAI.URL}
	router := gin.New()
	// Skip auth middleware for tests — set a dummy user_id
	router.POST("/api/meals/recognize", func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}, h.recognizeMeal)

	setMock := func(status int, body interface{}) {
		mockStatus = status
		mockBody = body
	}

	return router, mockOpenAI, setMock
}

// doRecognizeRequest sends a POST to the recognize endpoint with the given body.
func doRecognizeRequest(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/meals/recognize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// openAIChatResponse wraps a content string in the OpenAI chat completions
// response shape (choices[0].message.content).
func openAIChatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"content": content,
				},
			},
		},
	}
}

func TestRecognize_Success(t *testing.T) {
	router, mockServer, setMock := setupRecognizeTest()
	defer mockServer.Close()

	meal := `{"name":"Scrambled Eggs","meal_type":"breakfast","calories":180,"protein_g":14,"carbs_g":2,"fat_g":12,"confidence":4}`
	setMock(http.StatusOK, openAIChatResponse(meal))
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doRecognizeRequest(router, `{"description":"2 eggs scrambled","meal_type":"breakfast"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp recognizedMeal
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Name != "Scrambled Eggs" {
		t.Errorf("expected name 'Scrambled Eggs', got '%s'", resp.Name)
	}
	if resp.Calories != 180 {
		t.Errorf("expected calories 180, got %d", resp.Calories)
	}
}

func TestRecognize_FencedJSON(t *testing.T) {
	router, mockServer, setMock := setupRecognizeTest()
	defer mockServer.Close()

	// Model wraps the JSON in a markdown fence despite instructions.
	fenced := "```json\n{\"name\":\"Banana\",\"meal_type\":\"snack\",\"calories\":105,\"protein_g\":1,\"carbs_g\":27,\"fat_g\":0,\"confidence\":5}\n```"
	setMock(http.StatusOK, openAIChatResponse(fenced))
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doRecognizeRequest(router, `{"description":"a banana"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp recognizedMeal
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Name != "Banana" || resp.Calories != 105 {
		t.Errorf("unexpected recognized meal: %+v", resp)
	}
}

func TestRecognize_RequestedTypeWins(t *testing.T) {
	router, mockServer, setMock := setupRecognizeTest()
	defer mockServer.Close()

	// Model guesses lunch; the client asked for dinner.
	meal := `{"name":"Chicken Salad","meal_type":"lunch","calories":550,"protein_g":40,"carbs_g":12,"fat_g":30,"confidence":4}`
	setMock(http.StatusOK, openAIChatResponse(meal))
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doRecognizeRequest(router, `{"description":"chicken salad","meal_type":"dinner"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp recognizedMeal
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.MealType != "dinner" {
		t.Errorf("expected meal_type 'dinner', got '%s'", resp.MealType)
	}
}

func TestRecognize_Unrecognized(t *testing.T) {
	router, mockServer, setMock := setupRecognizeTest()
	defer mockServer.Close()

	setMock(http.StatusOK, openAIChatResponse(`{"error":"unrecognized"}`))
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doRecognizeRequest(router, `{"description":"asdfghjkl","meal_type":"snack"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "unrecognized" {
		t.Errorf("expected error 'unrecognized', got '%s'", resp["error"])
	}
}

func TestRecognize_OpenAIError500(t *testing.T) {
	router, mockServer, setMock := setupRecognizeTest()
	defer mockServer.Close()

	setMock(http.StatusInternalServerError, map[string]string{"error": "server error"})
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doRecognizeRequest(router, `{"description":"banana","meal_type":"snack"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "openai request failed" {
		t.Errorf("expected error 'openai request failed', got '%s'", resp["error"])
	}
}

func TestRecognize_EmptyDescription(t *testing.T) {
	router, mockServer, _ := setupRecognizeTest()
	defer mockServer.Close()

	w := doRecognizeRequest(router, `{"description":"","meal_type":"snack"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRecognize_InvalidMealType(t *testing.T) {
	router, mockServer, _ := setupRecognizeTest()
	defer mockServer.Close()

	w := doRecognizeRequest(router, `{"description":"banana","meal_type":"brunch"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRecognize_MalformedJSON(t *testing.T) {
	router, mockServer, setMock := setupRecognizeTest()
	defer mockServer.Close()

	// OpenAI returns something that isn't valid JSON
	setMock(http.StatusOK, openAIChatResponse(`not valid json at all`))
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doRecognizeRequest(router, `{"description":"banana","meal_type":"snack"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}
}

/* ─── Fence stripping ────────────────────────────────────────────────── */

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence same line", "```{\"a\":1}```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFences(tc.in); got != tc.want {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
