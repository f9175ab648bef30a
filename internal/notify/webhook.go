package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/cache"
	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var ErrThrottled = errors.New("webhook notification throttled")

const maxCooldownKeys = 10000

type ChatIDLookup interface {
	ChatIDFor(owner string) string
}

type webhookText struct {
	Text string `json:"text"`
}

type webhookMessage struct {
	Timestamp string      `json:"timestamp,omitempty"`
	Sign      string      `json:"sign,omitempty"`
	MsgType   string      `json:"msg_type"`
	Content   webhookText `json:"content"`
}

type webhookResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Webhook posts signed text messages to a chat bot webhook.
// P0 tickets bypass throttling; everything else is limited per hour and per key.
type Webhook struct {
	http      *resty.Client
	url       string
	secret    string
	atUserIDs []string
	chatIDs   ChatIDLookup
	hourly    *rate.Limiter
	now       func() time.Time

	mu sync.Mutex
	// cooldowns holds keys sent within the min interval; nil when there is none.
	cooldowns *cache.Sharded[time.Time]
}

func NewWebhook(cfg config.Webhook, chatIDs ChatIDLookup) *Webhook {
	perHour := cfg.MaxMessagesPerHour
	if perHour <= 0 {
		perHour = 50
	}
	var cooldowns *cache.Sharded[time.Time]
	if cfg.MinInterval > 0 {
		cooldowns = cache.New[time.Time](cfg.MinInterval, maxCooldownKeys, cache.DefaultShards)
	}
	return &Webhook{
		http: resty.New().
			SetTimeout(cfg.Timeout).
			SetRetryCount(cfg.RetryCount).
			SetRetryWaitTime(500 * time.Millisecond).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= 500
			}),
		url:       cfg.URL,
		secret:    cfg.Secret,
		atUserIDs: cfg.AtUserIDs,
		chatIDs:   chatIDs,
		hourly:    rate.NewLimiter(rate.Every(time.Hour/time.Duration(perHour)), perHour),
		now:       time.Now,
		cooldowns: cooldowns,
	}
}

// Start runs the cooldown expiry sweepers until Stop is called.
func (w *Webhook) Start() {
	if w.cooldowns != nil {
		w.cooldowns.Start()
	}
}

func (w *Webhook) Stop() {
	if w.cooldowns != nil {
		w.cooldowns.Stop()
	}
}

// Sign computes base64(hmac_sha256(timestamp + "\n" + secret, "")).
func Sign(timestamp int64, secret string) string {
	key := strconv.FormatInt(timestamp, 10) + "\n" + secret
	mac := hmac.New(sha256.New, []byte(key))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (w *Webhook) allow(key string, urgent bool) bool {
	if urgent {
		return true
	}
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cooldowns != nil {
		if _, ok := w.cooldowns.Get(key); ok {
			return false
		}
	}
	if !w.hourly.AllowN(now, 1) {
		return false
	}
	if w.cooldowns != nil {
		w.cooldowns.Set(key, now)
	}
	return true
}

func (w *Webhook) mentions(t *domain.Ticket) string {
	var ids []string
	switch t.Severity {
	case domain.SeverityP0:
		ids = []string{"all"}
	case domain.SeverityP1:
		if w.chatIDs != nil {
			if id := w.chatIDs.ChatIDFor(t.Owner); id != "" {
				ids = append(ids, id)
			}
		}
		ids = append(ids, w.atUserIDs...)
	}

	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, `<at user_id="%s"></at> `, id)
	}
	return b.String()
}

func (w *Webhook) NotifyTicket(ctx context.Context, t *domain.Ticket, rec *domain.ExceptionRecord) error {
	if !w.allow(t.Fingerprint, t.Severity == domain.SeverityP0) {
		return ErrThrottled
	}
	return w.send(ctx, w.mentions(t)+renderTicket(t, rec))
}

func (w *Webhook) NotifyTrend(ctx context.Context, alert *domain.TrendAlert) error {
	if !w.allow("trend:"+alert.ServiceName, alert.Level == domain.AlertLevelCritical) {
		return ErrThrottled
	}
	return w.send(ctx, renderTrend(alert))
}

func (w *Webhook) send(ctx context.Context, text string) error {
	msg := webhookMessage{MsgType: "text", Content: webhookText{Text: text}}
	if w.secret != "" {
		ts := w.now().Unix()
		msg.Timestamp = strconv.FormatInt(ts, 10)
		msg.Sign = Sign(ts, w.secret)
	}

	var out webhookResponse
	resp, err := w.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		SetResult(&out).
		Post(w.url)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	if resp.IsError() {
		return errorsUtils.WrapPathErr(fmt.Errorf("webhook HTTP %d", resp.StatusCode()))
	}
	if out.Code != 0 {
		return errorsUtils.WrapPathErr(fmt.Errorf("webhook rejected message: code=%d msg=%s", out.Code, out.Msg))
	}

	log.WithField("length", len(text)).Debug("Webhook message sent")
	return nil
}
