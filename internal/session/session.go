// Package session owns the authentication state: whether the user is
// signed in and which credential to attach to remote API calls.
package session

// State is the authentication lifecycle state.
type State int

const (
	// StateRestoring is the initial state while the persisted token is
	// being read. The UI renders a neutral splash until it resolves, so
	// a valid stored token never flashes the login screen.
	StateRestoring State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// TokenStore is the persistence collaborator. Load reports a missing
// token as an error; any load failure is treated as "no token".
type TokenStore interface {
	Load() (string, error)
	Clear() error
}
