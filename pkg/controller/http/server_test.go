package http_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/slackline-io/slackline/pkg/controller/http"
	"github.com/slackline-io/slackline/pkg/repository/memory"
	"github.com/slackline-io/slackline/pkg/service/hostchat"
	"github.com/slackline-io/slackline/pkg/service/slackapi"
	"github.com/slackline-io/slackline/pkg/usecase"
)

func newTestServer(t *testing.T, opts ...httpctrl.Options) *httpctrl.Server {
	t.Helper()

	uc := usecase.New(memory.New(), hostchat.NewMemory(), &slackapi.Authorization{
		ClientID:     "123.456",
		ClientSecret: "shh",
	})
	return httpctrl.New(uc, opts...)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	gt.Number(t, rec.Code).Equal(http.StatusOK)
}

func TestURLVerification(t *testing.T) {
	srv := newTestServer(t)

	body := `{"type":"url_verification","token":"t","challenge":"abc123"}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hooks/slack/event", strings.NewReader(body)))

	gt.Number(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, strings.Contains(rec.Body.String(), `"challenge":"abc123"`)).Equal(true)
}

func TestEventWithInvalidPayload(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hooks/slack/event", strings.NewReader("not json")))

	gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestCallbackEventIsAccepted(t *testing.T) {
	srv := newTestServer(t)

	body := `{"type":"event_callback","team_id":"T001","authed_users":["U001"],
		"event":{"type":"message","channel":"D001","user":"U002","text":"hi","ts":"1565297097.000100"}}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hooks/slack/event", strings.NewReader(body)))

	gt.Number(t, rec.Code).Equal(http.StatusOK)
}

func signBody(secret string, ts int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%d:%s", ts, body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func TestSignatureVerification(t *testing.T) {
	const secret = "signing-secret"
	srv := newTestServer(t, httpctrl.WithSigningSecret(secret))

	body := []byte(`{"type":"url_verification","challenge":"abc123"}`)

	t.Run("valid signature passes", func(t *testing.T) {
		ts := time.Now().Unix()
		req := httptest.NewRequest(http.MethodPost, "/hooks/slack/event", bytes.NewReader(body))
		req.Header.Set("X-Slack-Request-Timestamp", fmt.Sprintf("%d", ts))
		req.Header.Set("X-Slack-Signature", signBody(secret, ts, body))

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("missing signature is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hooks/slack/event", bytes.NewReader(body)))
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("wrong signature is rejected", func(t *testing.T) {
		ts := time.Now().Unix()
		req := httptest.NewRequest(http.MethodPost, "/hooks/slack/event", bytes.NewReader(body))
		req.Header.Set("X-Slack-Request-Timestamp", fmt.Sprintf("%d", ts))
		req.Header.Set("X-Slack-Signature", "v0=deadbeef")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("stale timestamp is rejected", func(t *testing.T) {
		ts := time.Now().Add(-10 * time.Minute).Unix()
		req := httptest.NewRequest(http.MethodPost, "/hooks/slack/event", bytes.NewReader(body))
		req.Header.Set("X-Slack-Request-Timestamp", fmt.Sprintf("%d", ts))
		req.Header.Set("X-Slack-Signature", signBody(secret, ts, body))

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})
}

func TestOAuthCallbackValidation(t *testing.T) {
	srv := newTestServer(t)

	t.Run("missing parameters", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth/callback", nil))
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
		gt.Value(t, strings.Contains(rec.Body.String(), "Invalid link")).Equal(true)
	})

	t.Run("unknown state", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth/callback?state=AAAABBBBCCCC&code=xyz", nil))
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
		gt.Value(t, strings.Contains(rec.Body.String(), "Invalid link")).Equal(true)
	})
}

func TestCommandHook(t *testing.T) {
	srv := newTestServer(t)

	t.Run("help text for unknown verbs", func(t *testing.T) {
		body := `{"user_id":"host-alice","room_id":"R001","text":"wat"}`
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hooks/command", strings.NewReader(body)))

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, strings.Contains(rec.Body.String(), "Usage:")).Equal(true)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hooks/command", strings.NewReader(`{"text":"login"}`)))
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestCommandHookToken(t *testing.T) {
	srv := newTestServer(t, httpctrl.WithCommandToken("hook-token"))

	body := `{"user_id":"host-alice","room_id":"R001","text":"help"}`

	t.Run("without token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hooks/command", strings.NewReader(body)))
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("with token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/hooks/command", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer hook-token")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
	})
}
