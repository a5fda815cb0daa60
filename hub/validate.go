package hub

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// ValidationError represents a validation failure with context.
type ValidationError struct {
	Field   string // Field path (e.g., "contributors[0].contributorRoles")
	Code    string // Error code (e.g., "required", "empty_list")
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains all validation errors for a record.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Error returns a combined error message, or nil if valid.
func (r *ValidationResult) Error() error {
	if r.IsValid() {
		return nil
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

func (r *ValidationResult) add(field, code, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field, code, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

// ValidationOptions configures validation behavior.
type ValidationOptions struct {
	RequireTitle       bool
	RequireID          bool
	RequireContributor bool
	// ValidateIdentifiers checks that ID, contributor IDs and DOI-valued
	// relations are absolute and well formed.
	ValidateIdentifiers bool
	ValidateDates       bool
}

// DefaultValidationOptions checks the record invariants only.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		ValidateIdentifiers: true,
		ValidateDates:       true,
	}
}

// StrictValidationOptions additionally requires the fields registration
// agencies insist on.
func StrictValidationOptions() ValidationOptions {
	return ValidationOptions{
		RequireTitle:        true,
		RequireID:           true,
		RequireContributor:  true,
		ValidateIdentifiers: true,
		ValidateDates:       true,
	}
}

// Validate checks a record against the model invariants: a type is always
// set, optional lists are nil or non-empty, every contributor has a name
// and at least one role, and dates are ISO partial dates.
func Validate(m *Metadata, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{}
	if m == nil {
		result.add("", "required", "record is nil")
		return result
	}

	if m.Type == "" {
		result.add("type", "required", "type is required")
	}
	if opts.RequireTitle && m.Title() == "" {
		result.add("titles", "required", "title is required")
	}
	if opts.RequireID && m.ID == "" {
		result.add("id", "required", "id is required")
	}
	if opts.RequireContributor && len(m.Contributors) == 0 {
		result.add("contributors", "required", "at least one contributor is required")
	}

	checkPresence(m, result)

	for i, c := range m.Contributors {
		field := fmt.Sprintf("contributors[%d]", i)
		if c.FamilyName == "" && c.GivenName == "" && c.Name == "" {
			result.add(field, "required", "contributor must have a name")
		}
		if len(c.ContributorRoles) == 0 {
			result.add(field+".contributorRoles", "empty_list", "contributor roles must not be empty")
		}
		if c.Type != Person && c.Type != Organization {
			result.add(field+".type", "invalid_value", "contributor type %q is not Person or Organization", c.Type)
		}
		if opts.ValidateIdentifiers && c.ID != "" && NormalizeID(c.ID) == "" {
			result.add(field+".id", "invalid_format", "contributor id %q is not an absolute identifier", c.ID)
		}
	}

	if opts.ValidateIdentifiers {
		if m.ID != "" && NormalizeID(m.ID) == "" && DetectIdentifierType(m.ID) == IdentifierOther {
			result.add("id", "invalid_format", "id %q is not an absolute identifier", m.ID)
		}
		for i, r := range m.Relations {
			if strings.Contains(r.ID, "doi.org/") && NormalizeDOI(r.ID) == "" {
				result.add(fmt.Sprintf("relations[%d].id", i), "invalid_format", "invalid DOI %q", r.ID)
			}
		}
	}

	if opts.ValidateDates {
		for role, d := range dateRoles(m.Date) {
			if d == "" {
				continue
			}
			iso := d
			if i := strings.IndexAny(iso, "T "); i >= 0 {
				iso = iso[:i]
			}
			if PartsFromISO(iso).ISO() != iso {
				result.add("date."+role, "invalid_format", "date %q is not an ISO 8601 partial date", d)
			}
		}
	}

	if m.Extra != nil {
		checkExtras(m.Extra, result)
	}
	return result
}

// CheckPresence returns an error naming every optional list that is
// present but empty.
func CheckPresence(m *Metadata) error {
	result := &ValidationResult{}
	checkPresence(m, result)
	return result.Error()
}

func checkPresence(m *Metadata, result *ValidationResult) {
	lists := []struct {
		field string
		isNil bool
		n     int
	}{
		{"titles", m.Titles == nil, len(m.Titles)},
		{"contributors", m.Contributors == nil, len(m.Contributors)},
		{"descriptions", m.Descriptions == nil, len(m.Descriptions)},
		{"subjects", m.Subjects == nil, len(m.Subjects)},
		{"references", m.References == nil, len(m.References)},
		{"relations", m.Relations == nil, len(m.Relations)},
		{"funding_references", m.FundingReferences == nil, len(m.FundingReferences)},
		{"files", m.Files == nil, len(m.Files)},
		{"identifiers", m.Identifiers == nil, len(m.Identifiers)},
	}
	for _, l := range lists {
		if !l.isNil && l.n == 0 {
			result.add(l.field, "empty_list", "empty list must be absent")
		}
	}
	for i, c := range m.Contributors {
		if c.Affiliations != nil && len(c.Affiliations) == 0 {
			result.add(fmt.Sprintf("contributors[%d].affiliations", i), "empty_list", "empty list must be absent")
		}
	}
}

func dateRoles(d Date) map[string]string {
	return map[string]string{
		"published": d.Published,
		"created":   d.Created,
		"updated":   d.Updated,
		"submitted": d.Submitted,
		"available": d.Available,
		"accepted":  d.Accepted,
		"withdrawn": d.Withdrawn,
	}
}

// Keys readers commonly leave in Extra that have a first-class home.
var promotionCandidates = map[string]string{
	"volume":    "container.volume",
	"issue":     "container.issue",
	"pages":     "container.firstPage",
	"funding":   "funding_references",
	"funder":    "funding_references",
	"license":   "license",
	"abstract":  "descriptions",
	"keywords":  "subjects",
	"publisher": "publisher",
}

func checkExtras(extra *structpb.Struct, result *ValidationResult) {
	for key := range extra.Fields {
		normalized := strings.ToLower(strings.ReplaceAll(key, "-", "_"))
		if target, ok := promotionCandidates[normalized]; ok {
			result.warn("extra."+key, "promotion_candidate", "value belongs in %s", target)
		}
	}
}
