package cmdblock_test

import (
	"testing"

	"github.com/havce/cmdblock"
)

type player string

func (p player) PrincipalID() string { return string(p) }

// permissions grants each principal the listed permissions.
func permissions(grants map[string][]string) cmdblock.PermissionChecker {
	return cmdblock.PermissionCheckerFunc(func(p cmdblock.Principal, permission string) bool {
		for _, g := range grants[p.PrincipalID()] {
			if g == permission {
				return true
			}
		}
		return false
	})
}

func TestInterceptor_Handle(t *testing.T) {
	t.Parallel()

	perms := permissions(map[string][]string{
		"admin": {cmdblock.BypassPermission},
		"mod":   {"commands.other"},
	})

	cases := []struct {
		name    string
		blocked []string
		message string
		issuer  string
		cancel  bool
	}{
		{"blocked with arguments", []string{"ban", "kick"}, "/ban Steve", "steve", true},
		{"bypass permission", []string{"ban"}, "/ban Steve", "admin", false},
		{"not blocked", []string{"ban"}, "/spawn", "steve", false},
		{"upper case", []string{"ban"}, "/BAN", "steve", true},
		{"mixed case config", []string{"BaN"}, "/bAn x", "steve", true},
		{"no arguments", []string{"kick"}, "/kick", "steve", true},
		{"unrelated permission", []string{"ban"}, "/ban", "mod", true},
		{"empty blocklist", nil, "/ban Steve", "steve", false},
		{"empty message", []string{"ban"}, "", "steve", false},
		{"bare prefix", []string{"ban"}, "/", "steve", false},
		{"no prefix", []string{"ban"}, "ban Steve", "steve", false},
		{"prefix of blocked name", []string{"ban"}, "/bank", "steve", false},
		{"tab separated", []string{"ban"}, "/ban\tSteve", "steve", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			i := cmdblock.NewInterceptor(cmdblock.NewBlocklist(tc.blocked...), perms)

			d := i.Handle(cmdblock.Event{Message: tc.message, Issuer: player(tc.issuer)})
			if d.Cancel != tc.cancel {
				t.Fatalf("Handle(%q).Cancel = %v, want %v", tc.message, d.Cancel, tc.cancel)
			}

			want := ""
			if tc.cancel {
				want = cmdblock.DisallowedMessage
			}
			if d.Message != want {
				t.Errorf("Handle(%q).Message = %q, want %q", tc.message, d.Message, want)
			}
		})
	}
}

func TestInterceptor_Handle_BypassAlwaysWins(t *testing.T) {
	t.Parallel()

	i := cmdblock.NewInterceptor(
		cmdblock.NewBlocklist("ban", "kick", "op", "stop"),
		cmdblock.PermissionCheckerFunc(func(cmdblock.Principal, string) bool { return true }),
	)

	for _, msg := range []string{"/ban", "/KICK a b", "/op me", "/stop", "/spawn"} {
		if d := i.Handle(cmdblock.Event{Message: msg, Issuer: player("admin")}); d != (cmdblock.Decision{}) {
			t.Errorf("Handle(%q) = %+v, want zero decision", msg, d)
		}
	}
}

func TestInterceptor_Handle_PermissionName(t *testing.T) {
	t.Parallel()

	var asked []string
	perms := cmdblock.PermissionCheckerFunc(func(_ cmdblock.Principal, permission string) bool {
		asked = append(asked, permission)
		return false
	})

	i := cmdblock.NewInterceptor(cmdblock.NewBlocklist("ban"), perms)
	i.Handle(cmdblock.Event{Message: "/ban", Issuer: player("steve")})

	if len(asked) != 1 || asked[0] != "commands.blocked.bypass" {
		t.Fatalf("permissions asked = %v, want [commands.blocked.bypass]", asked)
	}
}

func TestInterceptor_Handle_Cancelled(t *testing.T) {
	t.Parallel()

	i := cmdblock.NewInterceptor(cmdblock.NewBlocklist("ban"), nil)

	d := i.Handle(cmdblock.Event{Message: "/ban", Issuer: player("steve"), Cancelled: true})
	if d.Cancel || d.Message != "" {
		t.Fatalf("Handle on cancelled event = %+v, want zero decision", d)
	}
}

func TestInterceptor_Handle_NoPermissionChecker(t *testing.T) {
	t.Parallel()

	i := cmdblock.NewInterceptor(cmdblock.NewBlocklist("ban"), nil)

	if d := i.Handle(cmdblock.Event{Message: "/ban"}); !d.Cancel {
		t.Fatalf("Handle without checker or issuer = %+v, want cancel", d)
	}
}

func TestInterceptor_Options(t *testing.T) {
	t.Parallel()

	i := cmdblock.NewInterceptor(
		cmdblock.NewBlocklist("ban"),
		permissions(map[string][]string{"vip": {"custom.bypass"}}),
		cmdblock.WithPrefix('!'),
		cmdblock.WithMessage("Unknown command."),
		cmdblock.WithPermission("custom.bypass"),
	)

	if i.Prefix() != '!' {
		t.Fatalf("Prefix() = %q, want '!'", i.Prefix())
	}

	if d := i.Handle(cmdblock.Event{Message: "/ban", Issuer: player("steve")}); d.Cancel {
		t.Errorf("slash prefix should not match when prefix is '!'")
	}

	d := i.Handle(cmdblock.Event{Message: "!ban someone", Issuer: player("steve")})
	if !d.Cancel || d.Message != "Unknown command." {
		t.Errorf("Handle(!ban) = %+v, want cancel with custom message", d)
	}

	if d := i.Handle(cmdblock.Event{Message: "!ban", Issuer: player("vip")}); d.Cancel {
		t.Errorf("custom bypass permission was not honoured")
	}
}

func TestLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		message string
		prefix  rune
		label   string
		ok      bool
	}{
		{"/ban Steve", '/', "ban", true},
		{"/BAN", '/', "ban", true},
		{"/ban", '/', "ban", true},
		{"/ban  two  spaces", '/', "ban", true},
		{"!kick x", '!', "kick", true},
		{"/kick x", '!', "", false},
		{"/", '/', "", false},
		{"/ ban", '/', "", false},
		{"", '/', "", false},
		{" /ban", '/', "", false},
		{"§ßpawn", '§', "ßpawn", true},
	}

	for _, tc := range cases {
		label, ok := cmdblock.Label(tc.message, tc.prefix)
		if label != tc.label || ok != tc.ok {
			t.Errorf("Label(%q, %q) = (%q, %v), want (%q, %v)", tc.message, tc.prefix, label, ok, tc.label, tc.ok)
		}
	}
}
