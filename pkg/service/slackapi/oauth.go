package slackapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	api "github.com/slack-go/slack"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

const authorizeBaseURL = "https://slack.com/oauth/authorize"

// OAuthScopes are the user-token scopes requested during authorization.
// They cover reading and writing private channels, group DMs and DMs, plus
// user directory lookups.
var OAuthScopes = []string{
	"groups:history",
	"groups:read",
	"im:history",
	"im:read",
	"im:write",
	"groups:write",
	"mpim:history",
	"users:read",
	"mpim:read",
	"mpim:write",
}

// Authorization holds the OAuth app credentials of the bridge
type Authorization struct {
	ClientID     string
	ClientSecret string `masq:"secret"`
	RedirectURI  string
	HTTPClient   *http.Client
}

// Grant is the outcome of a successful code exchange
type Grant struct {
	AccessToken string `masq:"secret"`
	SlackUserID types.SlackUserID
	TeamID      string
	Scope       string
}

// AuthorizeURL builds the URL a user visits to grant the bridge access to
// their workspace identity. The state parameter carries the login ID so the
// callback can be correlated with the pending session.
func (x *Authorization) AuthorizeURL(state types.LoginID) string {
	v := url.Values{}
	v.Set("client_id", x.ClientID)
	v.Set("scope", strings.Join(OAuthScopes, ","))
	v.Set("state", state.String())
	if x.RedirectURI != "" {
		v.Set("redirect_uri", x.RedirectURI)
	}
	return authorizeBaseURL + "?" + v.Encode()
}

// ExchangeCode redeems an authorization code for a user access token
func (x *Authorization) ExchangeCode(ctx context.Context, code string) (*Grant, error) {
	if code == "" {
		return nil, goerr.New("authorization code is required")
	}

	httpClient := x.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := api.GetOAuthResponseContext(ctx, httpClient, x.ClientID, x.ClientSecret, code, x.RedirectURI)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange authorization code")
	}
	if resp.AccessToken == "" {
		return nil, goerr.New("oauth.access returned no access token")
	}

	return &Grant{
		AccessToken: resp.AccessToken,
		SlackUserID: types.SlackUserID(resp.UserID),
		TeamID:      resp.TeamID,
		Scope:       resp.Scope,
	}, nil
}
