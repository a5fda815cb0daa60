package hub

import "strings"

// HasRole reports whether c carries role.
func (c Contributor) HasRole(role string) bool {
	for _, r := range c.ContributorRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsPerson reports whether c is a Person.
func (c Contributor) IsPerson() bool {
	return c.Type == Person
}

// DisplayName returns "Given Family" for people and Name otherwise.
func (c Contributor) DisplayName() string {
	if c.FamilyName != "" {
		if c.GivenName != "" {
			return c.GivenName + " " + c.FamilyName
		}
		return c.FamilyName
	}
	return c.Name
}

// InvertedName returns "Family, Given" for people and Name otherwise.
func (c Contributor) InvertedName() string {
	if c.FamilyName != "" {
		if c.GivenName != "" {
			return c.FamilyName + ", " + c.GivenName
		}
		return c.FamilyName
	}
	return c.Name
}

// ORCID returns the bare ORCID iD of a person, or "".
func (c Contributor) ORCID() string {
	if !strings.Contains(c.ID, "orcid.org/") {
		return ""
	}
	return c.ID[strings.LastIndex(c.ID, "/")+1:]
}

// AffiliationNames returns the names of all affiliations.
func (c Contributor) AffiliationNames() []string {
	var names []string
	for _, a := range c.Affiliations {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}
