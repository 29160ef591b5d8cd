package api

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"bazi-fengshui/advisor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const jpeg = "data:image/jpeg;base64,aGVsbG8="

func withAdvisor(t *testing.T, p *scriptedProvider) http.Handler {
	t.Helper()
	s := newTestServer(t)
	s.SetAdvisor(advisor.New(p, zap.NewNop()))
	return s.Handler()
}

func TestAdvisorRoutesDisabled(t *testing.T) {
	h := newTestServer(t).Handler()
	for _, path := range []string{"/api/outfit/analyze", "/api/workspace/360", "/api/speech-script"} {
		rec := do(t, h, http.MethodPost, path, `{}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}
}

func TestOutfitAnalyzeEndpoint(t *testing.T) {
	h := withAdvisor(t, &scriptedProvider{text: `{"analysis":"Nice","colorMatch":"good","detectedColors":["green"]}`})

	rec := do(t, h, http.MethodPost, "/api/outfit/analyze",
		fmt.Sprintf(`{"image":%q,"luckyColors":[{"color":"Green"}]}`, jpeg))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "good", body["colorMatch"])
	assert.Equal(t, []interface{}{"green"}, body["detectedColors"])
}

func TestOutfitAnalyzeValidation(t *testing.T) {
	h := withAdvisor(t, &scriptedProvider{text: "{}"})

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "no image", body: `{"luckyColors":["Green"]}`, code: http.StatusBadRequest},
		{name: "bad image", body: `{"image":"data:text/plain;base64,aGk="}`, code: http.StatusBadRequest},
		{name: "bad birth date", body: fmt.Sprintf(`{"image":%q,"birthDate":"yesterday"}`, jpeg), code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/outfit/analyze", tt.body)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestOutfitReportProviderFailure(t *testing.T) {
	h := withAdvisor(t, &scriptedProvider{err: errors.New("upstream 500")})

	rec := do(t, h, http.MethodPost, "/api/outfit/report", fmt.Sprintf(`{"image":%q}`, jpeg))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to generate report", decode(t, rec)["error"])
}

func TestWorkspaceAnalyzeFallback(t *testing.T) {
	h := withAdvisor(t, &scriptedProvider{text: "No JSON today"})

	rec := do(t, h, http.MethodPost, "/api/workspace/analyze",
		fmt.Sprintf(`{"image":%q,"birthDate":"1990-01-15"}`, jpeg))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "No JSON today", body["analysis"])
	assert.Equal(t, "Mixed elements detected", body["elementAlignment"])
}

func TestWorkspaceStreamEndpoint(t *testing.T) {
	h := withAdvisor(t, &scriptedProvider{chunks: []string{"Your desk ", "faces East"}})

	rec := do(t, h, http.MethodPost, "/api/workspace/stream", fmt.Sprintf(`{"image":%q}`, jpeg))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	var events []string
	sc := bufio.NewScanner(strings.NewReader(rec.Body.String()))
	for sc.Scan() {
		if line := sc.Text(); strings.HasPrefix(line, "data: ") {
			events = append(events, strings.TrimPrefix(line, "data: "))
		}
	}
	assert.Equal(t, []string{`{"text":"Your desk "}`, `{"text":"faces East"}`, `{"done":true}`}, events)
}

func TestWorkspaceStreamFailure(t *testing.T) {
	h := withAdvisor(t, &scriptedProvider{chunks: []string{"partial"}, err: errors.New("cut off")})

	rec := do(t, h, http.MethodPost, "/api/workspace/stream", fmt.Sprintf(`{"image":%q}`, jpeg))
	assert.Contains(t, rec.Body.String(), `data: {"error":"Stream failed"}`)
	assert.NotContains(t, rec.Body.String(), `"done"`)
}

func viewsJSON(dirs ...string) string {
	parts := make([]string, len(dirs))
	for i, d := range dirs {
		parts[i] = fmt.Sprintf(`{"direction":%q,"image":%q}`, d, jpeg)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestWorkspace360Endpoint(t *testing.T) {
	h := withAdvisor(t, &scriptedProvider{text: `{"overallScore":"good","overallAnalysis":["tidy"]}`})

	rec := do(t, h, http.MethodPost, "/api/workspace/360", `{"images":`+viewsJSON("S", "N", "W", "E")+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "good", body["overallScore"])
	assert.Equal(t, []interface{}{"tidy"}, body["overallAnalysis"])
	assert.Equal(t, []interface{}{}, body["directionBreakdown"])

	rec = do(t, h, http.MethodPost, "/api/workspace/360", `{"images":`+viewsJSON("N", "E", "S")+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "exactly 4 directional images")
}

func TestWorkspaceReportEndpoint(t *testing.T) {
	h := withAdvisor(t, &scriptedProvider{text: "## Workspace Report"})

	rec := do(t, h, http.MethodPost, "/api/workspace/report", fmt.Sprintf(`{"singleImage":%q}`, jpeg))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "## Workspace Report", decode(t, rec)["report"])

	rec = do(t, h, http.MethodPost, "/api/workspace/report", `{"is360Mode":true,"images":`+viewsJSON("N", "E", "S", "W")+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/workspace/report", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSpeechScriptEndpoint(t *testing.T) {
	h := withAdvisor(t, &scriptedProvider{text: "Wah, steady lah!"})

	rec := do(t, h, http.MethodPost, "/api/speech-script", `{"report":"## Report","type":"workspace"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Wah, steady lah!", body["script"])
	assert.Equal(t, "none", body["audioSource"])
	assert.NotContains(t, body, "audioBase64")

	rec = do(t, h, http.MethodPost, "/api/speech-script", `{"type":"outfit"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
