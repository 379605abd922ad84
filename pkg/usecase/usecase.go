package usecase

import (
	"github.com/slackline-io/slackline/pkg/domain/interfaces"
	"github.com/slackline-io/slackline/pkg/domain/model"
	"github.com/slackline-io/slackline/pkg/service/archive"
	"github.com/slackline-io/slackline/pkg/service/hostchat"
	"github.com/slackline-io/slackline/pkg/service/slackapi"
)

// SlackClientFactory builds a token-scoped API client. Injected so tests
// can point the client at a fake endpoint.
type SlackClientFactory func(token string) (slackapi.Service, error)

type UseCases struct {
	repo    interfaces.Repository
	chat    hostchat.Service
	authz   *slackapi.Authorization
	archive archive.Service
	mapping *model.Mapping

	newSlackClient    SlackClientFactory
	importConcurrency int
}

type Option func(*UseCases)

// WithArchive stores import run reports in the given archive
func WithArchive(a archive.Service) Option {
	return func(uc *UseCases) {
		uc.archive = a
	}
}

// WithMapping applies operator-provided resolution overrides
func WithMapping(m *model.Mapping) Option {
	return func(uc *UseCases) {
		uc.mapping = m
	}
}

// WithSlackClientFactory overrides how token-scoped API clients are built
func WithSlackClientFactory(f SlackClientFactory) Option {
	return func(uc *UseCases) {
		uc.newSlackClient = f
	}
}

// WithImportConcurrency bounds the import fan-out
func WithImportConcurrency(n int) Option {
	return func(uc *UseCases) {
		if n > 0 {
			uc.importConcurrency = n
		}
	}
}

func New(repo interfaces.Repository, chat hostchat.Service, authz *slackapi.Authorization, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:              repo,
		chat:              chat,
		authz:             authz,
		archive:           archive.Discard{},
		newSlackClient:    func(token string) (slackapi.Service, error) { return slackapi.New(token) },
		importConcurrency: 4,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
