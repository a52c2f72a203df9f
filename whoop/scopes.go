package whoop

import (
	"sort"
	"strings"
)

// Scope represents an OAuth2 scope required to access specific WHOOP API endpoints.
type Scope string

const (
	// ScopeReadRecovery allows reading the user's recovery data.
	ScopeReadRecovery Scope = "read:recovery"

	// ScopeReadCycles allows reading the user's physiological cycles.
	ScopeReadCycles Scope = "read:cycles"

	// ScopeReadWorkout allows reading the user's workout data.
	ScopeReadWorkout Scope = "read:workout"

	// ScopeReadSleep allows reading the user's sleep data.
	ScopeReadSleep Scope = "read:sleep"

	// ScopeReadProfile allows reading the user's basic profile.
	ScopeReadProfile Scope = "read:profile"

	// ScopeReadBodyMeasurement allows reading the user's body measurements.
	ScopeReadBodyMeasurement Scope = "read:body_measurement"

	// ScopeOffline asks the token endpoint to issue a refresh token.
	ScopeOffline Scope = "offline"
)

var knownScopes = map[string]Scope{
	string(ScopeReadRecovery):        ScopeReadRecovery,
	string(ScopeReadCycles):          ScopeReadCycles,
	string(ScopeReadWorkout):         ScopeReadWorkout,
	string(ScopeReadSleep):           ScopeReadSleep,
	string(ScopeReadProfile):         ScopeReadProfile,
	string(ScopeReadBodyMeasurement): ScopeReadBodyMeasurement,
	string(ScopeOffline):             ScopeOffline,
}

// String returns the wire representation of the scope.
func (s Scope) String() string {
	return string(s)
}

// ParseScope returns the Scope for its wire representation.
// The second result is false if s is not a known scope.
func ParseScope(s string) (Scope, bool) {
	scope, ok := knownScopes[s]
	return scope, ok
}

// ScopeSet is an unordered set of scopes.
type ScopeSet map[Scope]struct{}

// NewScopeSet returns a set holding the given scopes.
func NewScopeSet(scopes ...Scope) ScopeSet {
	set := make(ScopeSet, len(scopes))
	for _, s := range scopes {
		set[s] = struct{}{}
	}
	return set
}

// AllScopes returns a set with every read scope plus offline access.
func AllScopes() ScopeSet {
	return NewScopeSet(
		ScopeReadRecovery,
		ScopeReadCycles,
		ScopeReadWorkout,
		ScopeReadSleep,
		ScopeReadProfile,
		ScopeReadBodyMeasurement,
		ScopeOffline,
	)
}

// Add inserts scopes into the set.
func (ss ScopeSet) Add(scopes ...Scope) {
	for _, s := range scopes {
		ss[s] = struct{}{}
	}
}

// Has reports whether the set contains s.
func (ss ScopeSet) Has(s Scope) bool {
	_, ok := ss[s]
	return ok
}

// Strings returns the scope values sorted lexically.
func (ss ScopeSet) Strings() []string {
	out := make([]string, 0, len(ss))
	for s := range ss {
		out = append(out, string(s))
	}
	sort.Strings(out)
	return out
}

// String renders the set in the space-separated OAuth format.
func (ss ScopeSet) String() string {
	return strings.Join(ss.Strings(), " ")
}

// ParseScopeSet parses a space-separated scope string, such as the scope field of
// a token response. Unknown scope values are skipped.
func ParseScopeSet(s string) ScopeSet {
	set := ScopeSet{}
	for _, field := range strings.Fields(s) {
		if scope, ok := ParseScope(field); ok {
			set[scope] = struct{}{}
		}
	}
	return set
}
