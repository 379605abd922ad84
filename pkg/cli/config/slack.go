package config

import (
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/service/slackapi"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the OAuth app credentials and webhook
// verification
type Slack struct {
	clientID      string
	clientSecret  string
	signingSecret string
	redirectURI   string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-client-id",
			Usage:       "Slack OAuth client ID",
			Category:    "Slack",
			Destination: &x.clientID,
			Sources:     cli.EnvVars("SLACKLINE_SLACK_CLIENT_ID"),
		},
		&cli.StringFlag{
			Name:        "slack-client-secret",
			Usage:       "Slack OAuth client secret",
			Category:    "Slack",
			Destination: &x.clientSecret,
			Sources:     cli.EnvVars("SLACKLINE_SLACK_CLIENT_SECRET"),
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack signing secret for webhook verification (optional)",
			Category:    "Slack",
			Destination: &x.signingSecret,
			Sources:     cli.EnvVars("SLACKLINE_SLACK_SIGNING_SECRET"),
		},
		&cli.StringFlag{
			Name:        "slack-redirect-uri",
			Usage:       "OAuth redirect URI, defaults to <base-url>/oauth/callback",
			Category:    "Slack",
			Destination: &x.redirectURI,
			Sources:     cli.EnvVars("SLACKLINE_SLACK_REDIRECT_URI"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("client-id", x.clientID),
		slog.Int("client-secret.len", len(x.clientSecret)),
		slog.Int("signing-secret.len", len(x.signingSecret)),
		slog.String("redirect-uri", x.redirectURI),
	)
}

// SigningSecret returns the webhook signing secret, empty when verification
// is disabled
func (x *Slack) SigningSecret() string {
	return x.signingSecret
}

// Configure builds the OAuth authorization client
func (x *Slack) Configure(baseURL string) (*slackapi.Authorization, error) {
	if x.clientID == "" || x.clientSecret == "" {
		return nil, goerr.New("slack-client-id and slack-client-secret are required")
	}

	redirectURI := x.redirectURI
	if redirectURI == "" && baseURL != "" {
		redirectURI = strings.TrimRight(baseURL, "/") + "/oauth/callback"
	}

	return &slackapi.Authorization{
		ClientID:     x.clientID,
		ClientSecret: x.clientSecret,
		RedirectURI:  redirectURI,
	}, nil
}
