package webserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/campus-assist/enquiry-relay/src/shared/ai"
)

type fakeProvider struct {
	name    string
	out     ai.Outcome
	err     error
	calls   int
	gotMsgs []ai.Message
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, messages []ai.Message) (ai.Outcome, error) {
	f.calls++
	f.gotMsgs = messages
	return f.out, f.err
}

type fakeLimiter struct {
	allowed bool
	wait    time.Duration
	calls   int
}

func (f *fakeLimiter) Allow(ctx context.Context, userID string) (bool, time.Duration, error) {
	f.calls++
	return f.allowed, f.wait, nil
}

var testSecret = []byte("unit-test-secret")

func newChatRouter(t *testing.T, chain *ai.Chain, limiter Limiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chatH := NewChat(chain, limiter, time.Second)
	r.POST("/v1/chat", RequireProviders(chain), JWTMiddleware(testSecret), chatH.Relay)
	return r
}

func bearerFor(t *testing.T, uid string) string {
	t.Helper()
	token, err := issueJWT(uid, testSecret)
	require.NoError(t, err)
	return "Bearer " + token
}

func doChat(r *gin.Engine, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestChatMissingBearerToken(t *testing.T) {
	primary := &fakeProvider{name: "openai", out: ai.Outcome{OK: true, Text: "hi"}}
	r := newChatRouter(t, ai.NewChain(ai.Primary(primary)), nil)

	w := doChat(r, "", `{"message":"hello"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, 0, primary.calls)
}

func TestChatInvalidToken(t *testing.T) {
	primary := &fakeProvider{name: "openai", out: ai.Outcome{OK: true, Text: "hi"}}
	r := newChatRouter(t, ai.NewChain(ai.Primary(primary)), nil)

	w := doChat(r, "Bearer not-a-token", `{"message":"hello"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, 0, primary.calls)
}

func TestChatRejectsBadMessage(t *testing.T) {
	cases := map[string]string{
		"absent":     `{}`,
		"null":       `{"message":null}`,
		"empty":      `{"message":""}`,
		"non-string": `{"message":42}`,
		"not json":   `message=hello`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			primary := &fakeProvider{name: "openai", out: ai.Outcome{OK: true, Text: "hi"}}
			r := newChatRouter(t, ai.NewChain(ai.Primary(primary)), nil)

			w := doChat(r, bearerFor(t, "user-1"), body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, 0, primary.calls)
		})
	}
}

func TestChatPrimarySuccess(t *testing.T) {
	primary := &fakeProvider{name: "openai", out: ai.Outcome{OK: true, Text: "The semester starts in August."}}
	secondary := &fakeProvider{name: "openrouter", out: ai.Outcome{OK: true, Text: "unused"}}
	r := newChatRouter(t, ai.NewChain(ai.Primary(primary), ai.Fallback(secondary)), nil)

	body := `{"message":"when does the semester start?","conversationHistory":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello!"}]}`
	w := doChat(r, bearerFor(t, "user-1"), body)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	require.Equal(t, "The semester starts in August.", resp["response"])
	require.Equal(t, "primary", resp["provider"])
	require.Equal(t, 0, secondary.calls)

	// system prompt first, history as-is, new message last
	require.Len(t, primary.gotMsgs, 4)
	require.Equal(t, "system", primary.gotMsgs[0].Role)
	require.Equal(t, ai.Message{Role: "user", Content: "hi"}, primary.gotMsgs[1])
	require.Equal(t, ai.Message{Role: "assistant", Content: "hello!"}, primary.gotMsgs[2])
	require.Equal(t, ai.Message{Role: "user", Content: "when does the semester start?"}, primary.gotMsgs[3])
}

func TestChatHardFailureEchoesUpstreamStatus(t *testing.T) {
	primary := &fakeProvider{name: "openai", out: ai.Outcome{Status: 401, Body: "invalid_api_key"}}
	secondary := &fakeProvider{name: "openrouter", out: ai.Outcome{OK: true, Text: "unused"}}
	r := newChatRouter(t, ai.NewChain(ai.Primary(primary), ai.Fallback(secondary)), nil)

	w := doChat(r, bearerFor(t, "user-1"), `{"message":"hello"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeBody(t, w)
	require.Equal(t, "AI provider error", resp["error"])
	require.Equal(t, "invalid_api_key", resp["details"])
	require.Equal(t, float64(401), resp["status"])
	require.Equal(t, 0, secondary.calls)
}

func TestChatFallbackSuccess(t *testing.T) {
	primary := &fakeProvider{name: "openai", out: ai.Outcome{Status: 429, Body: "limited"}}
	secondary := &fakeProvider{name: "openrouter", out: ai.Outcome{OK: true, Text: "Hello"}}
	r := newChatRouter(t, ai.NewChain(ai.Primary(primary), ai.Fallback(secondary)), nil)

	w := doChat(r, bearerFor(t, "user-1"), `{"message":"hello"}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	require.Equal(t, "Hello", resp["response"])
	require.Equal(t, "secondary", resp["provider"])
}

func TestChatFallbackRateLimited(t *testing.T) {
	primary := &fakeProvider{name: "openai", out: ai.Outcome{Status: 503, Body: "down"}}
	secondary := &fakeProvider{name: "openrouter", out: ai.Outcome{Status: 429, Body: "limited"}}
	r := newChatRouter(t, ai.NewChain(ai.Primary(primary), ai.Fallback(secondary)), nil)

	w := doChat(r, bearerFor(t, "user-1"), `{"message":"hello"}`)

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, decodeBody(t, w)["error"], "Rate limit")
}

func TestChatFallbackCreditsExhausted(t *testing.T) {
	primary := &fakeProvider{name: "openai", out: ai.Outcome{Status: 503, Body: "down"}}
	secondary := &fakeProvider{name: "openrouter", out: ai.Outcome{Status: 402, Body: "no credits"}}
	r := newChatRouter(t, ai.NewChain(ai.Primary(primary), ai.Fallback(secondary)), nil)

	w := doChat(r, bearerFor(t, "user-1"), `{"message":"hello"}`)

	require.Equal(t, http.StatusPaymentRequired, w.Code)
	require.Contains(t, decodeBody(t, w)["error"], "credits")
}

func TestChatAllProvidersFailed(t *testing.T) {
	primary := &fakeProvider{name: "openai", out: ai.Outcome{Status: 429, Body: "limited"}}
	r := newChatRouter(t, ai.NewChain(ai.Primary(primary)), nil)

	w := doChat(r, bearerFor(t, "user-1"), `{"message":"hello"}`)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestChatNotConfiguredCheckedBeforeAuth(t *testing.T) {
	r := newChatRouter(t, ai.NewChain(), nil)

	// No Authorization header at all: the misconfiguration still wins.
	w := doChat(r, "", `{"message":"hello"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, decodeBody(t, w)["error"], "not configured")
}

func TestChatCooldownRejectsBeforeProviderCall(t *testing.T) {
	primary := &fakeProvider{name: "openai", out: ai.Outcome{OK: true, Text: "hi"}}
	limiter := &fakeLimiter{allowed: false, wait: 2 * time.Second}
	r := newChatRouter(t, ai.NewChain(ai.Primary(primary)), limiter)

	w := doChat(r, bearerFor(t, "user-1"), `{"message":"hello"}`)

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, 1, limiter.calls)
	require.Equal(t, 0, primary.calls)
}

func TestChatMalformedSuccessBodyMapsToBadGateway(t *testing.T) {
	// Client fails closed on a 200 with an unusable body; the relay must not
	// echo 200 as an error status.
	primary := &fakeProvider{name: "openai", out: ai.Outcome{Status: 200, Body: `{"choices":[]}`}}
	r := newChatRouter(t, ai.NewChain(ai.Primary(primary)), nil)

	w := doChat(r, bearerFor(t, "user-1"), `{"message":"hello"}`)

	require.Equal(t, http.StatusBadGateway, w.Code)
}
