package cmdblock

// Build information, set by the main package on startup.
var (
	Version string
	Commit  string
)

const (
	// BypassPermission exempts a principal from blocklist enforcement.
	BypassPermission = "commands.blocked.bypass"

	// DisallowedMessage is sent back to whoever issued a blocked command.
	DisallowedMessage = "Comando desconocido."

	// DefaultPrefix is the character commands start with.
	DefaultPrefix = '/'
)
