package main

import (
	"hash/fnv"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

/* ─── Prompts ────────────────────────────────────────────────────────── */

const coachSystemPrompt = `You are a supportive fat-loss coach. The user's recent logged data appears below between the context markers — treat it as ground truth and refer to it concretely when answering. Keep replies short, practical, and encouraging. Never recommend eating below the stated daily target.

%CONTEXT%`

const summarySystemPrompt = `You are a supportive fat-loss coach. Write a short recap (3-5 sentences) of the user's last 7 days based only on the logged data between the context markers: weight direction, adherence to the daily calorie target, and one concrete suggestion for the coming week. Plain text, no markdown.

%CONTEXT%`

/* ─── Summary memo ───────────────────────────────────────────────────── */

// summarySlot is one user's memoized summary: the fingerprint of the digest
// it was generated from, and the generated text.
type summarySlot struct {
	fingerprint uint64
	text        string
}

// summaryCache memoizes the AI-written period summary per user. One slot per
// user, overwritten whenever the underlying data fingerprint changes — no
// eviction beyond that.
type summaryCache struct {
	mu    sync.Mutex
	slots map[int]summarySlot
}

// get returns the cached text for userID if it was generated from a digest
// with the same fingerprint.
func (sc *summaryCache) get(userID int, fingerprint uint64) (string, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	slot, ok := sc.slots[userID]
	if !ok || slot.fingerprint != fingerprint {
		return "", false
	}
	return slot.text, true
}

// put overwrites the slot for userID.
func (sc *summaryCache) put(userID int, fingerprint uint64, text string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.slots == nil {
		sc.slots = make(map[int]summarySlot)
	}
	sc.slots[userID] = summarySlot{fingerprint: fingerprint, text: text}
}

// contextFingerprint hashes the assembled digest. The digest is deterministic
// for fixed data and window, so equal fingerprints mean nothing changed and
// the cached summary is still valid.
func contextFingerprint(digest string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(digest))
	return h.Sum64()
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// coachChat handles POST /api/coach/chat.
// Assembles the 7-day context digest, embeds it in the coach system prompt,
// and returns the model's reply.
func (h *Handler) coachChat(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		apiError(c, http.StatusBadRequest, "message is required")
		return
	}

	digest, err := buildUserContext(c.Request.Context(), pgContextStore{h.db}, userID, time.Now())
	if err != nil {
		log.Printf("[coach] context assembly failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to assemble context")
		return
	}

	messages := []openAIMessage{
		{Role: "system", Content: strings.Replace(coachSystemPrompt, "%CONTEXT%", digest, 1)},
		{Role: "user", Content: body.Message},
	}
	reply, err := callOpenAI(c.Request.Context(), messages, h.openAIBaseURL, false)
	if err != nil {
		log.Printf("[coach] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// coachSummary handles GET /api/coach/summary.
// Returns the AI-written 7-day recap, memoized by a fingerprint of the
// context digest: while the logged data (and window) are unchanged, repeated
// calls return the cached text without another OpenAI call.
func (h *Handler) coachSummary(c *gin.Context) {
	userID := c.GetInt("user_id")

	digest, err := buildUserContext(c.Request.Context(), pgContextStore{h.db}, userID, time.Now())
	if err != nil {
		log.Printf("[coach] context assembly failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to assemble context")
		return
	}

	fp := contextFingerprint(digest)
	if text, ok := h.summaryMemo.get(userID, fp); ok {
		c.JSON(http.StatusOK, gin.H{"summary": text, "cached": true})
		return
	}

	messages := []openAIMessage{
		{Role: "system", Content: strings.Replace(summarySystemPrompt, "%CONTEXT%", digest, 1)},
		{Role: "user", Content: "Write my weekly recap."},
	}
	text, err := callOpenAI(c.Request.Context(), messages, h.openAIBaseURL, false)
	if err != nil {
		log.Printf("[coach] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	h.summaryMemo.put(userID, fp, text)
	c.JSON(http.StatusOK, gin.H{"summary": text, "cached": false})
}
