package domain

import "time"

// Group represents a shared-expense group. The member roster keeps
// insertion order; that order is the deterministic enumeration order for
// balance listings and the tie-break order for debt simplification.
type Group struct {
	ID        string
	Name      string
	Creator   Address
	Members   []Address
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates a group at creation time.
func (g *Group) Validate() error {
	if err := ValidateGroupName(g.Name); err != nil {
		return err
	}
	if len(g.Members) == 0 {
		return ErrEmptyRoster
	}
	seen := make(map[Address]bool, len(g.Members))
	for _, m := range g.Members {
		if m.IsZero() {
			return ErrInvalidAddress
		}
		if seen[m] {
			return ErrMemberExists
		}
		seen[m] = true
	}
	if !seen[g.Creator] {
		return ErrNotAGroupMember
	}
	return nil
}

// HasMember reports whether addr is on the roster.
func (g *Group) HasMember(addr Address) bool {
	for _, m := range g.Members {
		if m == addr {
			return true
		}
	}
	return false
}

// MemberIndex returns addr's roster position, or -1.
func (g *Group) MemberIndex(addr Address) int {
	for i, m := range g.Members {
		if m == addr {
			return i
		}
	}
	return -1
}
