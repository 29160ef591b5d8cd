package notifications

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"bazi-fengshui/cache"
	"bazi-fengshui/database"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// sentTTL bounds how long a delivered reading is remembered per hook
const sentTTL = 24 * time.Hour

// Webhook is one delivery target
type Webhook struct {
	URL        string
	Method     string // POST when empty
	AuthHeader string // "Authorization" sends AuthValue as a bearer token
	AuthValue  string
	RetryCount int
	RetryDelay time.Duration
}

// WebhookManager posts stored readings to the configured webhooks
type WebhookManager struct {
	hooks  []Webhook
	redis  *cache.RedisClient
	client *resty.Client
	logger *zap.Logger
	wg     sync.WaitGroup
}

// WebhookPayload represents the JSON payload sent to webhooks
type WebhookPayload struct {
	Event           string    `json:"event"`
	ReadingID       string    `json:"reading_id"`
	CreatedAt       time.Time `json:"created_at"`
	BirthDate       string    `json:"birth_date"`
	Model           string    `json:"model"`
	DayMaster       string    `json:"day_master"`
	Strength        string    `json:"strength"`
	LuckyElements   []string  `json:"lucky_elements"`
	UnluckyElements []string  `json:"unlucky_elements"`
	Message         string    `json:"message"`
}

// NewWebhookManager creates a new webhook manager. redis may be nil, which
// disables duplicate suppression.
func NewWebhookManager(hooks []Webhook, redis *cache.RedisClient, logger *zap.Logger) *WebhookManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookManager{
		hooks: hooks,
		redis: redis,
		client: resty.New().
			SetTimeout(10*time.Second).
			SetHeader("Content-Type", "application/json").
			SetHeader("User-Agent", "bazi-fengshui-webhook/1.0"),
		logger: logger,
	}
}

// SendReading delivers the reading to every hook in the background
func (wm *WebhookManager) SendReading(reading *database.Reading) {
	if reading == nil || len(wm.hooks) == 0 {
		return
	}
	payload := CreatePayload(reading)
	for _, hook := range wm.hooks {
		hook := hook
		wm.wg.Add(1)
		go func() {
			defer wm.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := wm.deliver(ctx, hook, payload); err != nil {
				wm.logger.Warn("Webhook delivery failed",
					zap.String("url", hook.URL),
					zap.String("reading_id", payload.ReadingID),
					zap.Error(err))
			}
		}()
	}
}

// Wait blocks until in-flight deliveries finish or ctx is done
func (wm *WebhookManager) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		wm.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CreatePayload generates the webhook payload from a reading
func CreatePayload(r *database.Reading) WebhookPayload {
	lucky := []string(r.LuckyElements)
	message := fmt.Sprintf("New reading: %s day master (%s, %s)", r.DayMaster, r.DayMasterElement, r.Strength)
	if len(lucky) > 0 {
		message += " | Lucky: " + strings.Join(lucky, ", ")
	}

	return WebhookPayload{
		Event:           "reading.created",
		ReadingID:       r.ID.String(),
		CreatedAt:       r.CreatedAt,
		BirthDate:       r.BirthDate,
		Model:           r.Model,
		DayMaster:       r.DayMaster,
		Strength:        r.Strength,
		LuckyElements:   lucky,
		UnluckyElements: []string(r.UnluckyElements),
		Message:         message,
	}
}

func (wm *WebhookManager) deliver(ctx context.Context, hook Webhook, payload WebhookPayload) error {
	if wm.redis != nil {
		first, err := wm.redis.SetNX(ctx, sentKey(hook.URL, payload.ReadingID), 1, sentTTL)
		if err == nil && !first {
			return nil
		}
	}

	method := hook.Method
	if method == "" {
		method = http.MethodPost
	}

	attempts := hook.RetryCount
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		wm.logger.Debug("Sending webhook",
			zap.String("url", hook.URL),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts))

		resp, err := wm.request(ctx, hook, payload).Execute(method, hook.URL)
		switch {
		case err != nil:
			lastErr = err
		case resp.IsSuccess():
			return nil
		default:
			lastErr = fmt.Errorf("webhook returned status %d", resp.StatusCode())
			if resp.StatusCode() < 500 {
				wm.forget(hook.URL, payload.ReadingID)
				return lastErr
			}
		}

		if attempt < attempts {
			select {
			case <-time.After(hook.RetryDelay):
			case <-ctx.Done():
				wm.forget(hook.URL, payload.ReadingID)
				return ctx.Err()
			}
		}
	}

	wm.forget(hook.URL, payload.ReadingID)
	return lastErr
}

func (wm *WebhookManager) request(ctx context.Context, hook Webhook, payload WebhookPayload) *resty.Request {
	req := wm.client.R().
		SetContext(ctx).
		SetBody(payload)
	switch {
	case strings.EqualFold(hook.AuthHeader, "Authorization"):
		req.SetAuthToken(hook.AuthValue)
	case hook.AuthHeader != "":
		req.SetHeader(hook.AuthHeader, hook.AuthValue)
	}
	return req
}

// forget drops the sent marker so a later retry of the same reading can go out
func (wm *WebhookManager) forget(url, readingID string) {
	if wm.redis != nil {
		_ = wm.redis.Delete(context.Background(), sentKey(url, readingID))
	}
}

func sentKey(url, readingID string) string {
	return fmt.Sprintf("webhook:sent:%s:%s", cache.GenerateDataHash(url), readingID)
}
