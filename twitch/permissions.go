package twitch

import (
	"slices"
	"strings"

	"github.com/havce/cmdblock"
)

// User is a chatter issuing a command.
type User struct {
	Login  string
	Badges map[string]int
}

func (u User) PrincipalID() string {
	return u.Login
}

// Authorizer grants permissions by login name. The broadcaster and channel
// moderators hold every permission.
type Authorizer struct {
	Users map[string][]string
}

// Ensure Authorizer implements interface.
var _ cmdblock.PermissionChecker = (*Authorizer)(nil)

func (a *Authorizer) HasPermission(p cmdblock.Principal, permission string) bool {
	u, ok := p.(User)
	if !ok {
		return false
	}

	if u.Badges["broadcaster"] == 1 || u.Badges["moderator"] == 1 {
		return true
	}

	return slices.ContainsFunc(a.Users[permission], func(login string) bool {
		return strings.EqualFold(login, u.Login)
	})
}
