package slack

import (
	api "github.com/slack-go/slack"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

// User is the subset of a workspace user profile the bridge cares about
type User struct {
	ID          types.SlackUserID
	Name        string
	DisplayName string
}

// NewUser converts a Web API user object
func NewUser(u *api.User) *User {
	return &User{
		ID:          types.SlackUserID(u.ID),
		Name:        u.Name,
		DisplayName: u.RealName,
	}
}
