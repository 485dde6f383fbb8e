package scene

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venueops-sim/internal/config"
)

const (
	testScene  = "End of Day Summary"
	testState  = "day=2, cash=18700, reputation=58, team=[]"
	testAction = "Advanced to day 2; revenue=4000, payroll=3300, net=700"
	testStyle  = "clear style venue management sim"
)

func testConfig(baseURL string) config.Client {
	cfg := config.DefaultClient()
	cfg.BaseURL = baseURL
	cfg.Timeout = 2 * time.Second
	return cfg
}

func envelopeWithContent(content any) string {
	b, _ := json.Marshal(map[string]any{
		"model":   "openai-large-2025",
		"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}},
		"usage":   map[string]any{"prompt_tokens": 120, "completion_tokens": 48, "total_tokens": 168},
	})
	return string(b)
}

func staticServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateSceneSuccess(t *testing.T) {
	var gotBody map[string]any
	var gotHeaders http.Header
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = io.WriteString(w, envelopeWithContent(`{"scene_text":"  The office lights hum as the ledger closes.  ","image_prompt":" manager office at dusk, ledgers, monitor wall "}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.APIKey = "secret"
	out := NewClient(cfg).GenerateScene(context.Background(), testScene, testState, testAction, testStyle)

	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
	assert.Equal(t, "Bearer secret", gotHeaders.Get("Authorization"))

	assert.Equal(t, "openai-large", gotBody["model"])
	assert.InDelta(t, 0.8, gotBody["temperature"], 1e-9)
	assert.Equal(t, false, gotBody["stream"])
	assert.Equal(t, map[string]any{"type": "json_object"}, gotBody["response_format"])
	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	system := msgs[0].(map[string]any)
	user := msgs[1].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, SystemPrompt, system["content"])
	assert.Equal(t, "user", user["role"])
	assert.Contains(t, user["content"], testAction)

	assert.Equal(t, "The office lights hum as the ledger closes.", out.SceneText)
	assert.Equal(t, "manager office at dusk, ledgers, monitor wall", out.ImagePrompt)
	assert.Equal(t, "openai-large-2025", out.ModelUsed)
	assert.False(t, out.Fallback())
	assert.Equal(t, BuildImageURL(cfg, out.ImagePrompt, Unseeded), out.ImageURL)
}

func TestGenerateSceneOmitsAuthorizationWithoutKey(t *testing.T) {
	var auth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Values("Authorization")
		_, _ = io.WriteString(w, envelopeWithContent(`{"scene_text":"a","image_prompt":"b"}`))
	}))
	defer srv.Close()

	out := NewClient(testConfig(srv.URL)).GenerateScene(context.Background(), testScene, testState, testAction, testStyle)
	assert.Empty(t, auth)
	assert.False(t, out.Fallback())
}

func TestGenerateSceneContentParts(t *testing.T) {
	parts := []any{
		map[string]any{"type": "text", "text": `{"scene_text":"Rin walks the `},
		`corridor.","image_prompt":`,
		map[string]any{"type": "text", "text": `"security lead in corridor"}`},
	}
	srv := staticServer(t, http.StatusOK, envelopeWithContent(parts))

	out := NewClient(testConfig(srv.URL)).GenerateScene(context.Background(), testScene, testState, testAction, testStyle)
	require.False(t, out.Fallback(), out.ModelUsed)
	assert.Equal(t, "Rin walks the corridor.", out.SceneText)
	assert.Equal(t, "security lead in corridor", out.ImagePrompt)
}

func TestGenerateSceneDefaultsModelAndCoercesValues(t *testing.T) {
	body := `{"choices":[{"message":{"content":"{\"scene_text\":42,\"image_prompt\":\"wide shot\",\"mood\":\"calm\"}"}}]}`
	srv := staticServer(t, http.StatusOK, body)

	out := NewClient(testConfig(srv.URL)).GenerateScene(context.Background(), testScene, testState, testAction, testStyle)
	require.False(t, out.Fallback(), out.ModelUsed)
	assert.Equal(t, "42", out.SceneText)
	assert.Equal(t, "openai-large", out.ModelUsed)
}

func TestGenerateSceneFallbacks(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   FailureCategory
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, TransportFailure},
		{"unauthorized", http.StatusUnauthorized, `unauthorized`, TransportFailure},
		{"body not json", http.StatusOK, `<html>gateway</html>`, MalformedEnvelope},
		{"body is array", http.StatusOK, `[1,2,3]`, MalformedEnvelope},
		{"no choices", http.StatusOK, `{"model":"m","choices":[]}`, MalformedEnvelope},
		{"no message", http.StatusOK, `{"choices":[{}]}`, MalformedEnvelope},
		{"null content", http.StatusOK, envelopeWithContent(nil), MalformedEnvelope},
		{"numeric content", http.StatusOK, envelopeWithContent(7), MalformedEnvelope},
		{"object content", http.StatusOK, envelopeWithContent(map[string]any{"scene_text": "x"}), MalformedEnvelope},
		{"content not json", http.StatusOK, envelopeWithContent("The night was calm."), InvalidSceneJSON},
		{"content in code fence", http.StatusOK, envelopeWithContent("```json\n{\"scene_text\":\"a\",\"image_prompt\":\"b\"}\n```"), InvalidSceneJSON},
		{"content is json array", http.StatusOK, envelopeWithContent(`["a","b"]`), InvalidSceneJSON},
		{"blank scene text", http.StatusOK, envelopeWithContent(`{"scene_text":"   ","image_prompt":"b"}`), InvalidSceneJSON},
		{"missing image prompt", http.StatusOK, envelopeWithContent(`{"scene_text":"a"}`), InvalidSceneJSON},
		{"null image prompt", http.StatusOK, envelopeWithContent(`{"scene_text":"a","image_prompt":null}`), InvalidSceneJSON},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := staticServer(t, c.status, c.body)
			cfg := testConfig(srv.URL)
			out := NewClient(cfg).GenerateScene(context.Background(), testScene, testState, testAction, testStyle)
			assertFallback(t, cfg, out, c.want)
		})
	}
}

func TestGenerateSceneUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := testConfig(url)
	out := NewClient(cfg).GenerateScene(context.Background(), testScene, testState, testAction, testStyle)
	assertFallback(t, cfg, out, TransportFailure)
}

func TestGenerateSceneTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	start := time.Now()
	out := NewClient(cfg).GenerateScene(context.Background(), testScene, testState, testAction, testStyle)
	assert.Less(t, time.Since(start), time.Second)
	assertFallback(t, cfg, out, TransportFailure)
}

func assertFallback(t *testing.T, cfg config.Client, out Output, want FailureCategory) {
	t.Helper()
	assert.True(t, out.Fallback())
	assert.Equal(t, want, out.Failure)
	assert.Equal(t, fmt.Sprintf("fallback-local (%s)", want), out.ModelUsed)
	assert.Equal(t, "Fallback scene (End of Day Summary): "+testAction+". The staff watches operations closely while the venue atmosphere shifts through the evening.", out.SceneText)
	assert.True(t, strings.HasPrefix(out.ImagePrompt, "clear photorealistic interior of a managed venue, scene End of Day Summary"))
	assert.NotEmpty(t, out.ImageURL)
	assert.Equal(t, BuildImageURL(cfg, out.ImagePrompt, Unseeded), out.ImageURL)
}

func TestFallbackWithEmptyInputsIsNonEmpty(t *testing.T) {
	srv := staticServer(t, http.StatusBadGateway, "")
	out := NewClient(testConfig(srv.URL)).GenerateScene(context.Background(), "", "", "", "")
	assert.NotEmpty(t, out.SceneText)
	assert.NotEmpty(t, out.ImagePrompt)
}

func TestGenerateUsesSeedAndContext(t *testing.T) {
	var user string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		user = body.Messages[1].Content
		_, _ = io.WriteString(w, envelopeWithContent(`{"scene_text":"frame","image_prompt":"cctv still"}`))
	}))
	defer srv.Close()

	out := NewClient(testConfig(srv.URL)).Generate(context.Background(), Request{
		SceneName:     "Security Camera Stream",
		StateSummary:  testState,
		ActionSummary: "Camera Entrance frame 3: steady arrivals and ID checks",
		StyleGuide:    testStyle,
		MemoryContext: "Security channel Entrance. Frame 3.",
		Seed:          3,
	})
	assert.Contains(t, user, "Memory Context: Security channel Entrance. Frame 3.")
	assert.Contains(t, out.ImageURL, "&seed=3&")
}

func TestMetricsRecordOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ok := staticServer(t, http.StatusOK, envelopeWithContent(`{"scene_text":"a","image_prompt":"b"}`))
	bad := staticServer(t, http.StatusOK, envelopeWithContent("nope"))

	NewClient(testConfig(ok.URL), WithMetrics(m)).GenerateScene(context.Background(), testScene, testState, testAction, testStyle)
	NewClient(testConfig(bad.URL), WithMetrics(m)).GenerateScene(context.Background(), testScene, testState, testAction, testStyle)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(outcomeModel, "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(outcomeFallback, string(InvalidSceneJSON))))
	assert.Equal(t, 240.0, testutil.ToFloat64(m.tokens.WithLabelValues("prompt")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}
