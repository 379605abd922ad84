package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/slackline-io/slackline/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func runFlags(t *testing.T, flags []cli.Flag, args []string) error {
	t.Helper()

	cmd := &cli.Command{
		Name:  "test",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return nil
		},
	}
	return cmd.Run(context.Background(), append([]string{"test"}, args...))
}

func TestLoggerConfigure(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg config.Logger
		gt.NoError(t, runFlags(t, cfg.Flags(), nil))

		closer, err := cfg.Configure()
		gt.NoError(t, err)
		closer()
	})

	t.Run("invalid level", func(t *testing.T) {
		var cfg config.Logger
		gt.NoError(t, runFlags(t, cfg.Flags(), []string{"--log-level", "loud"}))

		_, err := cfg.Configure()
		gt.Value(t, err != nil).Equal(true)
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "slackline.log")
		var cfg config.Logger
		gt.NoError(t, runFlags(t, cfg.Flags(), []string{"--log-output", path, "--log-format", "json"}))

		closer, err := cfg.Configure()
		gt.NoError(t, err)
		closer()

		_, statErr := os.Stat(path)
		gt.NoError(t, statErr)
	})
}

func TestSlackConfigure(t *testing.T) {
	t.Run("requires credentials", func(t *testing.T) {
		var cfg config.Slack
		gt.NoError(t, runFlags(t, cfg.Flags(), nil))

		_, err := cfg.Configure("https://bridge.example.com")
		gt.Value(t, err != nil).Equal(true)
	})

	t.Run("derives redirect URI from base URL", func(t *testing.T) {
		var cfg config.Slack
		gt.NoError(t, runFlags(t, cfg.Flags(), []string{
			"--slack-client-id", "123.456",
			"--slack-client-secret", "shh",
		}))

		authz, err := cfg.Configure("https://bridge.example.com/")
		gt.NoError(t, err)
		gt.Value(t, authz.RedirectURI).Equal("https://bridge.example.com/oauth/callback")
	})

	t.Run("explicit redirect URI wins", func(t *testing.T) {
		var cfg config.Slack
		gt.NoError(t, runFlags(t, cfg.Flags(), []string{
			"--slack-client-id", "123.456",
			"--slack-client-secret", "shh",
			"--slack-redirect-uri", "https://other.example.com/cb",
		}))

		authz, err := cfg.Configure("https://bridge.example.com")
		gt.NoError(t, err)
		gt.Value(t, authz.RedirectURI).Equal("https://other.example.com/cb")
	})
}

func TestRepositoryConfigure(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		var cfg config.Repository
		gt.NoError(t, runFlags(t, cfg.Flags(), []string{"--repository-backend", "memory"}))

		repo, err := cfg.Configure(context.Background())
		gt.NoError(t, err)
		gt.NoError(t, repo.Close())
	})

	t.Run("firestore requires project ID", func(t *testing.T) {
		var cfg config.Repository
		gt.NoError(t, runFlags(t, cfg.Flags(), nil))

		_, err := cfg.Configure(context.Background())
		gt.Value(t, err != nil).Equal(true)
	})

	t.Run("unknown backend", func(t *testing.T) {
		var cfg config.Repository
		gt.NoError(t, runFlags(t, cfg.Flags(), []string{"--repository-backend", "redis"}))

		_, err := cfg.Configure(context.Background())
		gt.Value(t, err != nil).Equal(true)
	})
}

func TestMappingConfigure(t *testing.T) {
	t.Run("no file configured", func(t *testing.T) {
		var cfg config.Mapping
		gt.NoError(t, runFlags(t, cfg.Flags(), nil))

		mapping, err := cfg.Configure()
		gt.NoError(t, err)
		gt.Value(t, mapping == nil).Equal(true)
	})

	t.Run("loads rooms and users", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mapping.toml")
		content := `
[rooms]
"R001" = "C0123456789"

[users]
"host-alice" = "U0123456789"
`
		gt.NoError(t, os.WriteFile(path, []byte(content), 0600))

		var cfg config.Mapping
		gt.NoError(t, runFlags(t, cfg.Flags(), []string{"--mapping-file", path}))

		mapping, err := cfg.Configure()
		gt.NoError(t, err)
		gt.Value(t, string(mapping.Rooms["R001"])).Equal("C0123456789")
		gt.Value(t, string(mapping.Users["host-alice"])).Equal("U0123456789")
	})

	t.Run("missing file", func(t *testing.T) {
		var cfg config.Mapping
		gt.NoError(t, runFlags(t, cfg.Flags(), []string{"--mapping-file", "/no/such/file.toml"}))

		_, err := cfg.Configure()
		gt.Value(t, err != nil).Equal(true)
	})
}

func TestHostChatConfigure(t *testing.T) {
	t.Run("falls back to memory service", func(t *testing.T) {
		var cfg config.HostChat
		gt.NoError(t, runFlags(t, cfg.Flags(), nil))

		svc, err := cfg.Configure()
		gt.NoError(t, err)
		gt.Value(t, svc != nil).Equal(true)
	})

	t.Run("requires token with base URL", func(t *testing.T) {
		var cfg config.HostChat
		gt.NoError(t, runFlags(t, cfg.Flags(), []string{"--chat-base-url", "https://chat.example.com"}))

		_, err := cfg.Configure()
		gt.Value(t, err != nil).Equal(true)
	})

	t.Run("builds REST client", func(t *testing.T) {
		var cfg config.HostChat
		gt.NoError(t, runFlags(t, cfg.Flags(), []string{
			"--chat-base-url", "https://chat.example.com",
			"--chat-auth-token", "token",
		}))

		svc, err := cfg.Configure()
		gt.NoError(t, err)
		gt.Value(t, svc != nil).Equal(true)
	})
}
