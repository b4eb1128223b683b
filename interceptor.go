package cmdblock

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Principal is whoever issued a command. Host adapters provide their own
// implementation (a guild member, a chat user).
type Principal interface {
	PrincipalID() string
}

// PermissionChecker answers authorization questions on behalf of the host.
type PermissionChecker interface {
	HasPermission(p Principal, permission string) bool
}

// The PermissionCheckerFunc type is an adapter to allow the use of ordinary
// functions as permission checkers.
type PermissionCheckerFunc func(p Principal, permission string) bool

// HasPermission calls f(p, permission).
func (f PermissionCheckerFunc) HasPermission(p Principal, permission string) bool {
	return f(p, permission)
}

// Event is a command about to be executed by the host.
type Event struct {
	// Raw command as typed, e.g. "/ban Steve".
	Message string
	Issuer  Principal

	// Set when an earlier handler already suppressed the command.
	Cancelled bool
}

// Decision is what the host should do with an Event.
type Decision struct {
	Cancel bool

	// Sent to the issuer when not empty.
	Message string
}

// Interceptor decides whether commands may run.
type Interceptor struct {
	blocklist  *Blocklist
	perms      PermissionChecker
	prefix     rune
	message    string
	permission string
}

// InterceptorOption configures an Interceptor.
type InterceptorOption func(*Interceptor)

// WithPrefix sets the character commands start with. Defaults to '/'.
func WithPrefix(prefix rune) InterceptorOption {
	return func(i *Interceptor) {
		i.prefix = prefix
	}
}

// WithMessage overrides the text sent when a command is blocked.
func WithMessage(message string) InterceptorOption {
	return func(i *Interceptor) {
		i.message = message
	}
}

// WithPermission overrides the bypass permission name.
func WithPermission(permission string) InterceptorOption {
	return func(i *Interceptor) {
		i.permission = permission
	}
}

// NewInterceptor returns an Interceptor enforcing blocklist. A nil perms
// means nobody can bypass it.
func NewInterceptor(blocklist *Blocklist, perms PermissionChecker, opts ...InterceptorOption) *Interceptor {
	i := &Interceptor{
		blocklist:  blocklist,
		perms:      perms,
		prefix:     DefaultPrefix,
		message:    DisallowedMessage,
		permission: BypassPermission,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Blocklist returns the blocklist being enforced.
func (i *Interceptor) Blocklist() *Blocklist {
	return i.blocklist
}

// Prefix returns the command prefix in use.
func (i *Interceptor) Prefix() rune {
	return i.prefix
}

// Handle decides what to do with e. The zero Decision lets the command run.
func (i *Interceptor) Handle(e Event) Decision {
	if e.Cancelled {
		return Decision{}
	}

	if i.perms != nil && e.Issuer != nil && i.perms.HasPermission(e.Issuer, i.permission) {
		return Decision{}
	}

	label, ok := Label(e.Message, i.prefix)
	if !ok || !i.blocklist.Contains(label) {
		return Decision{}
	}

	return Decision{Cancel: true, Message: i.message}
}

// Label extracts the command label from message: the first whitespace
// separated token with the prefix removed, lowercased. It reports false when
// message is not a command, i.e. it doesn't start with prefix or nothing
// follows the prefix.
func Label(message string, prefix rune) (string, bool) {
	token := message
	if n := strings.IndexFunc(message, unicode.IsSpace); n >= 0 {
		token = message[:n]
	}

	r, size := utf8.DecodeRuneInString(token)
	if size == 0 || r != prefix {
		return "", false
	}

	label := strings.ToLower(token[size:])
	return label, label != ""
}
