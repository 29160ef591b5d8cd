package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bazi-fengshui/cache"
	"bazi-fengshui/config"
	"bazi-fengshui/realtime"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:    "0",
		AnalysisModel: "rich",
		AI: config.AIConfig{
			Provider: "openai",
			Endpoint: "http://localhost:1/v1",
			Model:    "test-model",
		},
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.AnalysisModel = "deep"

	_, err := New(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYSIS_MODEL")

	cfg = testConfig()
	cfg.AI.Enabled = true
	cfg.AI.Provider = "local"
	_, err = New(cfg, nil)
	assert.Error(t, err)
}

func TestBuildProvider(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig().AI

	p, err := buildProvider(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "openai:test-model", p.Name())

	cfg.Provider = "gemini"
	cfg.GeminiAPIKey = "test-key"
	cfg.GeminiModel = "gemini-2.5-flash"
	p, err = buildProvider(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "gemini:gemini-2.5-flash", p.Name())

	cfg.GeminiAPIKey = ""
	_, err = buildProvider(ctx, cfg, nil)
	assert.Error(t, err)

	cfg.Provider = "other"
	_, err = buildProvider(ctx, cfg, nil)
	assert.Error(t, err)
}

func TestServerWiring(t *testing.T) {
	cfg := testConfig()
	a, err := New(cfg, nil)
	require.NoError(t, err)

	provider, err := buildProvider(context.Background(), cfg.AI, nil)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisClient := cache.WrapClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { redisClient.Close() })

	a.advisor = newAdvisor(provider, redisClient, cfg.AI, nil)
	a.broker = realtime.NewBroker(nil, nil)
	a.setupHandlers()
	assert.Equal(t, []string{"outfit", "workspace"}, a.handlerManager.ListHandlers())

	srv := httptest.NewServer(a.buildServer().Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "rich", health["model"])
	assert.Equal(t, true, health["ai"])
	assert.Equal(t, false, health["readings"])
	assert.Equal(t, "openai:test-model", health["provider"])
}

func TestAdvisorWithoutRedis(t *testing.T) {
	provider, err := buildProvider(context.Background(), testConfig().AI, nil)
	require.NoError(t, err)

	adv := newAdvisor(provider, nil, testConfig().AI, nil)
	assert.Equal(t, "openai:test-model", adv.Provider())
}

func TestWebhooksFromConfig(t *testing.T) {
	hooks := webhooks(config.WebhookConfig{
		URLs:       []string{"https://a.example/hook", "https://b.example/hook"},
		AuthHeader: "X-Api-Key",
		AuthValue:  "k1",
		Retries:    2,
	})
	require.Len(t, hooks, 2)
	assert.Equal(t, "https://b.example/hook", hooks[1].URL)
	assert.Equal(t, "X-Api-Key", hooks[1].AuthHeader)
	assert.Equal(t, 2, hooks[0].RetryCount)
}
