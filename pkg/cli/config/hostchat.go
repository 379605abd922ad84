package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/service/hostchat"
	"github.com/slackline-io/slackline/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// HostChat holds CLI flags for the destination chat platform API
type HostChat struct {
	baseURL      string
	authToken    string
	commandToken string
}

func (x *HostChat) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "chat-base-url",
			Usage:       "Base URL of the destination chat platform API",
			Category:    "Chat",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("SLACKLINE_CHAT_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "chat-auth-token",
			Usage:       "API token for the destination chat platform",
			Category:    "Chat",
			Destination: &x.authToken,
			Sources:     cli.EnvVars("SLACKLINE_CHAT_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "chat-command-token",
			Usage:       "Bearer token required on the command hook (optional)",
			Category:    "Chat",
			Destination: &x.commandToken,
			Sources:     cli.EnvVars("SLACKLINE_CHAT_COMMAND_TOKEN"),
		},
	}
}

func (x HostChat) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base-url", x.baseURL),
		slog.Int("auth-token.len", len(x.authToken)),
		slog.Int("command-token.len", len(x.commandToken)),
	)
}

// CommandToken returns the bearer token for the command hook, empty when
// authentication is disabled
func (x *HostChat) CommandToken() string {
	return x.commandToken
}

// Configure builds the chat platform client. Without a base URL it falls back
// to the in-memory service for local development.
func (x *HostChat) Configure() (hostchat.Service, error) {
	if x.baseURL == "" {
		logging.Default().Warn("chat-base-url is not set, using in-memory chat service")
		return hostchat.NewMemory(), nil
	}
	if x.authToken == "" {
		return nil, goerr.New("chat-auth-token is required when chat-base-url is set")
	}

	return hostchat.New(x.baseURL, x.authToken)
}
