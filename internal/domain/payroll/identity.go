package payroll

import "strings"

// EmployeeIdentity is the set of identifiers an employee may be referenced by
// in leave records. It is resolved once by the employee directory.
type EmployeeIdentity struct {
	PrimaryID string
	Aliases   map[string]struct{}
}

func NewEmployeeIdentity(primaryID string, aliases ...string) EmployeeIdentity {
	id := EmployeeIdentity{PrimaryID: strings.TrimSpace(primaryID), Aliases: map[string]struct{}{}}
	if id.PrimaryID != "" {
		id.Aliases[id.PrimaryID] = struct{}{}
	}
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		id.Aliases[alias] = struct{}{}
	}
	return id
}

func (id EmployeeIdentity) Matches(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	if ref == id.PrimaryID {
		return true
	}
	_, ok := id.Aliases[ref]
	return ok
}

// IDs returns every known identifier, primary first.
func (id EmployeeIdentity) IDs() []string {
	out := make([]string, 0, len(id.Aliases)+1)
	if id.PrimaryID != "" {
		out = append(out, id.PrimaryID)
	}
	for alias := range id.Aliases {
		if alias != id.PrimaryID {
			out = append(out, alias)
		}
	}
	return out
}
