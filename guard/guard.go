package guard

import (
	"path"
	"strings"

	"github.com/octabyte/bm-talentportal/enums"
)

type Action int

const (
	Render Action = iota
	Wait
	Redirect
)

func (a Action) String() string {
	switch a {
	case Render:
		return "render"
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

type PathKind int

const (
	Public PathKind = iota
	Auth
	Protected
)

const DefaultLoginPath = "/login"

var (
	authPaths         = []string{"/login", "/register"}
	protectedPrefixes = []string{"/admin", "/api"}
)

// Decision is the outcome for one navigation. Location is set for Redirect.
type Decision struct {
	Action   Action
	Location string
}

// Guard decides navigations against a session state. The zero value
// redirects to DefaultLoginPath.
type Guard struct {
	LoginPath string
}

func New(loginPath string) Guard {
	return Guard{LoginPath: loginPath}
}

// Decide is Guard{}.Decide.
func Decide(state enums.SessionState, p string) Decision {
	return Guard{}.Decide(state, p)
}

// Decide never redirects an auth path, never renders a protected path while
// the session is loading, and sends unauthenticated protected navigations to
// the login path.
func (g Guard) Decide(state enums.SessionState, p string) Decision {
	switch Classify(p) {
	case Auth, Public:
		return Decision{Action: Render}
	}

	switch state {
	case enums.SessionStateAuthenticated:
		return Decision{Action: Render}
	case enums.SessionStateUnauthenticated:
		return Decision{Action: Redirect, Location: g.loginPath()}
	default:
		return Decision{Action: Wait}
	}
}

func (g Guard) loginPath() string {
	if g.LoginPath == "" {
		return DefaultLoginPath
	}
	return g.LoginPath
}

// Classify reports whether p is an auth, protected or public path. Matching
// is on whole path segments after cleaning.
func Classify(p string) PathKind {
	p = normalize(p)
	for _, a := range authPaths {
		if hasSegmentPrefix(p, a) {
			return Auth
		}
	}
	for _, prefix := range protectedPrefixes {
		if hasSegmentPrefix(p, prefix) {
			return Protected
		}
	}
	return Public
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.ToLower(path.Clean(p))
}

func hasSegmentPrefix(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
