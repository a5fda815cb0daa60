package hub

import "strings"

// Compact enforces the presence discipline on a record built by a reader:
// blank entries are dropped, empty lists and empty structs collapse to nil,
// contributors get the default role and a missing type becomes Other.
// Compact returns m for chaining.
func Compact(m *Metadata) *Metadata {
	if m == nil {
		return nil
	}
	m.ID = strings.TrimSpace(m.ID)
	m.URL = strings.TrimSpace(m.URL)
	if strings.TrimSpace(m.Type) == "" {
		m.Type = TypeOther
	}
	if m.AdditionalType == m.Type {
		m.AdditionalType = ""
	}

	m.Titles = compactTitles(m.Titles)
	m.Contributors = compactContributors(m.Contributors)
	m.Descriptions = compactDescriptions(m.Descriptions)
	m.Subjects = compactSubjects(m.Subjects)
	m.References = compactReferences(m.References)
	m.Relations = compactRelations(m.Relations)
	m.FundingReferences = compactFunding(m.FundingReferences)
	m.Files = compactFiles(m.Files)
	m.Identifiers = compactIdentifiers(m.Identifiers)

	if m.Publisher != nil && m.Publisher.Name == "" && m.Publisher.ID == "" {
		m.Publisher = nil
	}
	if m.License != nil && m.License.ID == "" && m.License.URL == "" {
		m.License = nil
	}
	if m.Container != nil && *m.Container == (Container{}) {
		m.Container = nil
	}
	if m.Extra != nil && len(m.Extra.Fields) == 0 {
		m.Extra = nil
	}
	return m
}

func compactTitles(in []Title) []Title {
	var out []Title
	for _, t := range in {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title != "" {
			out = append(out, t)
		}
	}
	return out
}

func compactContributors(in []Contributor) []Contributor {
	var out []Contributor
	for _, c := range in {
		c.GivenName = strings.TrimSpace(c.GivenName)
		c.FamilyName = strings.TrimSpace(c.FamilyName)
		c.Name = strings.TrimSpace(c.Name)
		if c.GivenName == "" && c.FamilyName == "" && c.Name == "" && c.ID == "" {
			continue
		}
		if c.Type == "" {
			c.Type = Person
			if c.FamilyName == "" && c.GivenName == "" {
				c.Type = Organization
			}
		}
		var roles []string
		for _, r := range c.ContributorRoles {
			if r != "" && !contains(roles, r) {
				roles = append(roles, r)
			}
		}
		if len(roles) == 0 {
			roles = []string{RoleAuthor}
		}
		c.ContributorRoles = roles
		var affs []Affiliation
		for _, a := range c.Affiliations {
			a.Name = strings.TrimSpace(a.Name)
			if a.Name != "" || a.ID != "" {
				affs = append(affs, a)
			}
		}
		c.Affiliations = affs
		out = append(out, c)
	}
	return out
}

func compactDescriptions(in []Description) []Description {
	var out []Description
	for _, d := range in {
		d.Description = strings.TrimSpace(d.Description)
		if d.Description == "" {
			continue
		}
		if d.Type == "" {
			d.Type = "Other"
		}
		out = append(out, d)
	}
	return out
}

func compactSubjects(in []Subject) []Subject {
	var out []Subject
	seen := map[Subject]bool{}
	for _, s := range in {
		s.Subject = strings.TrimSpace(s.Subject)
		if s.Subject == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func compactReferences(in []Reference) []Reference {
	var out []Reference
	for _, r := range in {
		if r == (Reference{Key: r.Key}) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func compactRelations(in []Relation) []Relation {
	var out []Relation
	seen := map[Relation]bool{}
	for _, r := range in {
		if r.ID == "" || r.Type == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

func compactFunding(in []FundingReference) []FundingReference {
	var out []FundingReference
	for _, f := range in {
		if f == (FundingReference{}) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func compactFiles(in []File) []File {
	var out []File
	for _, f := range in {
		if f.URL != "" {
			out = append(out, f)
		}
	}
	return out
}

func compactIdentifiers(in []Identifier) []Identifier {
	var out []Identifier
	seen := map[Identifier]bool{}
	for _, id := range in {
		id.Identifier = strings.TrimSpace(id.Identifier)
		if id.Identifier == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
