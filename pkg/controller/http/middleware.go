package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/utils/errutil"
	"github.com/slackline-io/slackline/pkg/utils/safe"
)

// verifySlackSignature checks the v0 HMAC request signature and rejects
// requests older than the 5 minute replay window
func verifySlackSignature(signingSecret, timestamp, signature string, body []byte) error {
	if timestamp == "" {
		return goerr.New("missing timestamp")
	}
	if signature == "" {
		return goerr.New("missing signature")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}

	now := time.Now().Unix()
	if now-ts > 60*5 {
		return goerr.New("timestamp too old", goerr.V("timestamp", timestamp), goerr.V("now", now))
	}

	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	mac := hmac.New(sha256.New, []byte(signingSecret))
	if _, err := mac.Write([]byte(baseString)); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// SlackSignatureMiddleware verifies request signatures on the event hook
func SlackSignatureMiddleware(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}
			defer safe.Close(ctx, r.Body)

			timestamp := r.Header.Get("X-Slack-Request-Timestamp")
			signature := r.Header.Get("X-Slack-Signature")

			if err := verifySlackSignature(signingSecret, timestamp, signature, body); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "signature verification failed"), http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewBuffer(body))
			next.ServeHTTP(w, r)
		})
	}
}
