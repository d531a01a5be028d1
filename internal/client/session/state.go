// Package session keeps the cached login (user + bearer token) in the local
// metadata store and models its lifecycle as a small state machine.
//
// The cached copy is advisory only: the backend profile endpoint is
// authoritative and overwrites or clears it on every check.
package session

// State is where the client believes the session stands.
type State string

const (
	StateUnknown          State = "unknown"
	StateCachedUnverified State = "cached-unverified"
	StateAuthenticated    State = "authenticated"
	StateUnauthenticated  State = "unauthenticated"
)

// Event drives State transitions.
type Event int

const (
	EventHydrateCached Event = iota
	EventHydrateEmpty
	EventProfileActive
	EventProfileInactive
	EventProfileFailed
	EventLogin
	EventLogout
)

func (e Event) String() string {
	switch e {
	case EventHydrateCached:
		return "hydrate-cached"
	case EventHydrateEmpty:
		return "hydrate-empty"
	case EventProfileActive:
		return "profile-active"
	case EventProfileInactive:
		return "profile-inactive"
	case EventProfileFailed:
		return "profile-failed"
	case EventLogin:
		return "login"
	case EventLogout:
		return "logout"
	}
	return "unknown"
}

// Next returns the state reached from s on e. Events that do not apply to s
// leave it unchanged.
func (s State) Next(e Event) State {
	switch e {
	case EventHydrateCached:
		if s == StateUnknown {
			return StateCachedUnverified
		}
	case EventHydrateEmpty:
		if s == StateUnknown {
			return StateUnauthenticated
		}
	case EventProfileActive, EventLogin:
		return StateAuthenticated
	case EventProfileInactive, EventLogout:
		return StateUnauthenticated
	case EventProfileFailed:
		if s == StateCachedUnverified || s == StateAuthenticated || s == StateUnknown {
			return StateUnauthenticated
		}
	}
	return s
}

// Authenticated reports whether s grants access to protected commands.
func (s State) Authenticated() bool {
	return s == StateAuthenticated
}
