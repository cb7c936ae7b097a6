package enums

type SessionState string

const (
	SessionStateLoading         SessionState = "loading"
	SessionStateUnauthenticated SessionState = "unauthenticated"
	SessionStateAuthenticated   SessionState = "authenticated"
)
