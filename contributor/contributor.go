// Package contributor turns the many shapes a creator takes in source
// records into hub.Contributor values.
//
// Accepted shapes: a bare name string, a {given, family} pair in any of the
// usual spellings, a {name} singleton, a citeproc person, a schema.org
// Person or Organization, a DataCite creator, a CFF or CodeMeta author and
// an InvenioRDM person_or_org entry.
package contributor

import (
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/value"
)

var (
	givenKeys  = []string{"given", "givenName", "given-names", "given_name", "first_name"}
	familyKeys = []string{"family", "familyName", "family-names", "family_name", "last_name"}
	nameKeys   = []string{"name", "literal", "creatorName", "contributorName"}
)

// Words that mark a name as an organization's.
var organizationWords = []string{
	"association", "center", "centre", "college", "committee", "consortium",
	"council", "department", "foundation", "group", "inc", "institut",
	"institute", "laboratory", "library", "ltd", "network", "project",
	"society", "team", "university",
}

// Option configures Normalize.
type Option func(*config)

type config struct {
	roles     []string
	roleTable string
}

// WithRole assigns a fixed role, overriding anything in the source.
func WithRole(role string) Option {
	return func(c *config) {
		c.roles = []string{role}
	}
}

// WithRoleTable names the crosswalk table that translates a source role
// (contributorType, role) into the commonmeta role vocabulary.
func WithRoleTable(table string) Option {
	return func(c *config) {
		c.roleTable = table
	}
}

// Normalize converts one source contributor. The second result is false
// when v carries neither a name nor an identifier.
func Normalize(v value.Value, opts ...Option) (hub.Contributor, bool) {
	cfg := config{roleTable: "datacite_role_commonmeta"}
	for _, o := range opts {
		o(&cfg)
	}

	v = v.First()
	var c hub.Contributor
	switch v.Kind() {
	case value.Scalar:
		c = FromName(v.Text())
	case value.Mapping:
		c = fromMapping(v, cfg)
	default:
		return hub.Contributor{}, false
	}
	if c.Name == "" && c.FamilyName == "" && c.GivenName == "" && c.ID == "" {
		return hub.Contributor{}, false
	}

	if len(cfg.roles) > 0 {
		c.ContributorRoles = cfg.roles
	}
	if len(c.ContributorRoles) == 0 {
		c.ContributorRoles = []string{hub.RoleAuthor}
	}
	return c, true
}

// NormalizeAll converts every item of v, dropping empty entries. The result
// is nil when nothing remains.
func NormalizeAll(v value.Value, opts ...Option) []hub.Contributor {
	var out []hub.Contributor
	for _, item := range v.Items() {
		if c, ok := Normalize(item, opts...); ok {
			out = append(out, c)
		}
	}
	return out
}

// FromName builds a contributor from a bare name string.
func FromName(name string) hub.Contributor {
	name = helpers.NormalizeWhitespace(name)
	if name == "" {
		return hub.Contributor{}
	}
	if looksLikeOrganization(name) {
		return hub.Contributor{Type: hub.Organization, Name: name}
	}
	p := helpers.ParseName(helpers.ReformatInitials(name))
	c := hub.Contributor{Type: hub.Person, GivenName: p.Given, FamilyName: p.Family}
	if c.GivenName == "" {
		// a lone token that survived the organization check
		c.FamilyName = ""
		c.Name = name
	}
	return c
}

// looksLikeOrganization is a best-effort guess for names without any
// other signal: a single token without a comma, or a name containing a
// word commonly found in organization names.
func looksLikeOrganization(name string) bool {
	if !strings.Contains(name, ",") && len(strings.Fields(name)) == 1 {
		return true
	}
	for _, w := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '(' || r == ')'
	}) {
		for _, ow := range organizationWords {
			if w == ow {
				return true
			}
		}
	}
	return false
}

func fromMapping(v value.Value, cfg config) hub.Contributor {
	// InvenioRDM nests the person under person_or_org
	person := v
	if p := v.Get("person_or_org"); !p.IsAbsent() {
		person = p
	}

	c := hub.Contributor{
		GivenName:  firstText(person, givenKeys),
		FamilyName: firstText(person, familyKeys),
		Name:       helpers.NormalizeWhitespace(firstText(person, nameKeys)),
	}

	ids := identifiers(person)
	c.Type = explicitType(person)
	if c.Type == "" {
		switch {
		case c.GivenName != "" || c.FamilyName != "":
			c.Type = hub.Person
		case ids.orcid != "":
			c.Type = hub.Person
		case ids.organization != "":
			c.Type = hub.Organization
		case c.Name != "":
			c.Type = FromName(c.Name).Type
		}
	}

	switch c.Type {
	case hub.Person:
		c.ID = ids.orcid
		if c.ID == "" {
			c.ID = ids.other
		}
		if c.GivenName == "" && c.FamilyName == "" && c.Name != "" {
			p := helpers.ParseName(helpers.ReformatInitials(c.Name))
			c.GivenName, c.FamilyName = p.Given, p.Family
		}
		if c.FamilyName != "" {
			c.Name = ""
		}
	case hub.Organization:
		c.ID = ids.organization
		if c.ID == "" {
			c.ID = ids.other
		}
		if c.Name == "" {
			c.Name = strings.TrimSpace(c.GivenName + " " + c.FamilyName)
		}
		c.GivenName, c.FamilyName = "", ""
	}

	c.Affiliations = Affiliations(firstPresent(v, "affiliation", "affiliations"))
	c.ContributorRoles = roles(v, cfg)
	return c
}

func explicitType(v value.Value) string {
	for _, key := range []string{"@type", "nameType", "type"} {
		switch strings.ToLower(v.Get(key).Text()) {
		case "person", "personal":
			return hub.Person
		case "organization", "organizational", "organisation":
			return hub.Organization
		}
	}
	return ""
}

type idSet struct {
	orcid        string
	organization string
	other        string
}

func identifiers(v value.Value) idSet {
	var ids idSet
	add := func(id, scheme, schemeURI string) {
		id = strings.TrimSpace(id)
		if id == "" {
			return
		}
		switch strings.ToLower(scheme) {
		case "orcid":
			if o := hub.NormalizeORCID(id); o != "" && ids.orcid == "" {
				ids.orcid = o
			}
			return
		case "ror":
			if r := hub.NormalizeROR(id); r != "" && ids.organization == "" {
				ids.organization = r
			}
			return
		case "isni":
			if ids.organization == "" {
				ids.organization = "https://isni.org/isni/" + strings.ReplaceAll(strings.TrimPrefix(id, "https://isni.org/isni/"), " ", "")
			}
			return
		case "grid":
			if ids.organization == "" {
				ids.organization = hub.NormalizeIDWithScheme(id, "https://grid.ac/institutes/")
			}
			return
		}
		n := hub.NormalizeIDWithScheme(id, schemeURI)
		switch {
		case n == "":
		case strings.HasPrefix(n, "https://orcid.org/"):
			if ids.orcid == "" {
				ids.orcid = n
			}
		case strings.HasPrefix(n, "https://ror.org/"), strings.Contains(n, "isni.org/"), strings.Contains(n, "grid.ac/"):
			if ids.organization == "" {
				ids.organization = n
			}
		default:
			if ids.other == "" {
				ids.other = n
			}
		}
	}

	for _, key := range []string{"ORCID", "orcid", "authenticated-orcid"} {
		add(v.Get(key).Text(), "orcid", "")
	}
	for _, ni := range v.Get("nameIdentifiers").Items() {
		if ni.Kind() == value.Scalar {
			add(ni.Text(), "", "")
			continue
		}
		add(ni.Get("nameIdentifier").Text(), ni.Get("nameIdentifierScheme").Text(), firstText(ni, []string{"schemeUri", "schemeURI"}))
	}
	for _, ni := range v.Get("identifiers").Items() {
		add(ni.Get("identifier").Text(), ni.Get("scheme").Text(), "")
	}
	for _, key := range []string{"@id", "id"} {
		add(v.Get(key).Text(), "", "")
	}
	// a homepage is not an identifier, but an ORCID or ROR URL is
	links := append([]string{v.Get("url").Text()}, v.Get("sameAs").Texts()...)
	for _, u := range links {
		if ids.orcid != "" || ids.organization != "" {
			break
		}
		if o := hub.NormalizeORCID(u); o != "" && strings.Contains(u, "orcid.org") {
			ids.orcid = o
		} else if r := hub.NormalizeROR(u); r != "" && strings.Contains(u, "ror.org") {
			ids.organization = r
		}
	}
	return ids
}

// Affiliations converts a source affiliation list. Each entry may be a bare
// name or an object carrying a name and an identifier, which is resolved
// to an absolute URI.
func Affiliations(v value.Value) []hub.Affiliation {
	var out []hub.Affiliation
	for _, item := range v.Items() {
		var a hub.Affiliation
		switch item.Kind() {
		case value.Scalar:
			a.Name = helpers.NormalizeWhitespace(item.Text())
		case value.Mapping:
			a.Name = helpers.NormalizeWhitespace(firstText(item, []string{"name", "affiliation"}))
			a.ID = affiliationID(item)
		}
		if a.Name == "" && a.ID == "" {
			continue
		}
		if !containsAffiliation(out, a) {
			out = append(out, a)
		}
	}
	return out
}

func affiliationID(v value.Value) string {
	if id := v.Get("affiliationIdentifier").Text(); id != "" {
		scheme := firstText(v, []string{"schemeURI", "schemeUri"})
		if scheme == "" && strings.EqualFold(v.Get("affiliationIdentifierScheme").Text(), "ROR") {
			scheme = "https://ror.org/"
		}
		return hub.NormalizeIDWithScheme(id, scheme)
	}
	// Crossref: "id": [{"id": "https://ror.org/...", "id-type": "ROR"}]
	idv := v.Get("id")
	if idv.Kind() == value.Mapping || (idv.Kind() == value.Sequence && idv.First().Kind() == value.Mapping) {
		for _, item := range idv.Items() {
			scheme := ""
			if strings.EqualFold(item.Get("id-type").Text(), "ROR") {
				scheme = "https://ror.org/"
			}
			if n := hub.NormalizeIDWithScheme(item.Get("id").Text(), scheme); n != "" {
				return n
			}
		}
		return ""
	}
	for _, key := range []string{"@id", "id"} {
		if n := hub.NormalizeIDWithScheme(v.Get(key).Text(), ""); n != "" {
			return n
		}
		if n := hub.NormalizeROR(v.Get(key).Text()); n != "" {
			return n
		}
	}
	return ""
}

func containsAffiliation(list []hub.Affiliation, a hub.Affiliation) bool {
	for _, x := range list {
		if x == a {
			return true
		}
	}
	return false
}

func roles(v value.Value, cfg config) []string {
	var out []string
	add := func(r string) {
		if r == "" {
			return
		}
		for _, x := range out {
			if x == r {
				return
			}
		}
		out = append(out, r)
	}
	for _, r := range v.Get("contributorRoles").Texts() {
		if crosswalk.InVocabulary("commonmeta_role", r) {
			add(r)
		}
	}
	for _, key := range []string{"contributorType", "role"} {
		for _, r := range v.Get(key).Texts() {
			if crosswalk.InVocabulary("commonmeta_role", r) {
				add(r)
				continue
			}
			add(crosswalk.Translate(cfg.roleTable, r))
		}
	}
	// InvenioRDM: "role": {"id": "editor"}
	if r := v.Path("role", "id").Text(); r != "" {
		add(crosswalk.Translate("crossref_role_commonmeta", r))
	}
	return out
}

func firstText(v value.Value, keys []string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(v.Get(k).Text()); s != "" {
			return s
		}
	}
	return ""
}

func firstPresent(v value.Value, keys ...string) value.Value {
	for _, k := range keys {
		if x := v.Get(k); !x.IsAbsent() {
			return x
		}
	}
	return value.Value{}
}
