// Package profile defines the canonical user profile record exchanged
// between pipeline stages, and the validation boundary that admits raw
// producer output into session state.
package profile

// UnknownID is the sentinel identifier used when a lookup resolves nothing.
const UnknownID = "UNKNOWN"

// Profile is the fixed-shape record handed from the fetch stage to the
// present stage. Every field is required; a producer that cannot populate a
// field supplies the sentinel defaults instead of omitting it.
type Profile struct {
	UserID     string   `json:"user_id" yaml:"user_id"`
	Name       string   `json:"name" yaml:"name"`
	Email      string   `json:"email" yaml:"email"`
	Role       string   `json:"role" yaml:"role"`
	Department string   `json:"department" yaml:"department"`
	Skills     []string `json:"skills" yaml:"skills"`
	Projects   []string `json:"projects" yaml:"projects"`
	Status     string   `json:"status" yaml:"status"`
	JoinedDate string   `json:"joined_date" yaml:"joined_date"`
	LastLogin  string   `json:"last_login" yaml:"last_login"`
}

// Unknown returns the sentinel profile produced when no record matches a
// lookup: UNKNOWN identifier, empty strings, empty lists.
func Unknown() Profile {
	return Profile{
		UserID:   UnknownID,
		Skills:   []string{},
		Projects: []string{},
	}
}

// IsUnknown reports whether the profile is the not-found sentinel.
func (p Profile) IsUnknown() bool {
	return p.UserID == UnknownID
}
