package discord

import (
	"slices"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/havce/cmdblock"
)

// Member is a guild member issuing a command.
type Member struct {
	UserID      snowflake.ID
	RoleIDs     []snowflake.ID
	Permissions discord.Permissions

	// The guild owner holds every permission.
	Owner bool
}

func (m Member) PrincipalID() string {
	return m.UserID.String()
}

// Authorizer maps permission names onto guild roles. The guild owner and
// administrators hold every permission.
type Authorizer struct {
	Roles map[string][]snowflake.ID
}

// Ensure Authorizer implements interface.
var _ cmdblock.PermissionChecker = (*Authorizer)(nil)

func (a *Authorizer) HasPermission(p cmdblock.Principal, permission string) bool {
	m, ok := p.(Member)
	if !ok {
		return false
	}

	if m.Owner || m.Permissions.Has(discord.PermissionAdministrator) {
		return true
	}

	for _, id := range a.Roles[permission] {
		if slices.Contains(m.RoleIDs, id) {
			return true
		}
	}
	return false
}

// ParseRoles parses role IDs as found in the configuration file.
func ParseRoles(ids []string) ([]snowflake.ID, error) {
	roles := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		role, err := snowflake.Parse(id)
		if err != nil {
			return nil, cmdblock.Errorf(cmdblock.EINVALID, "Invalid role ID %q.", id)
		}
		roles = append(roles, role)
	}
	return roles, nil
}
