package hub

import "testing"

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.7554/eLife.01567", "10.7554/elife.01567"},
		{"doi:10.7554/elife.01567", "10.7554/elife.01567"},
		{"https://doi.org/10.7554/elife.01567", "10.7554/elife.01567"},
		{"http://dx.doi.org/10.7554/elife.01567", "10.7554/elife.01567"},
		{"https://handle.stage.datacite.org/10.5438/4k3m-nyvg", "10.5438/4k3m-nyvg"},
		{"https://handle.test.datacite.org/10.5438/4K3M-NYVG", "10.5438/4k3m-nyvg"},
		{"https://doi.org/10.1371%2Fjournal.pone.0000030", "10.1371/journal.pone.0000030"},
		{"https://doi.org/10.1234/a%2541", "10.1234/a%41"},
		{"10.1234/a%41", "10.1234/a%41"},
		{"https://example.org/10.7554/elife.01567", ""},
		{"10.1/abc", ""},
		{"", ""},
		{"not a doi", ""},
	}
	for _, tt := range tests {
		if got := NormalizeDOI(tt.in); got != tt.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDOIIdempotent(t *testing.T) {
	inputs := []string{
		"10.7554/eLife.01567",
		"https://doi.org/10.5061/DRYAD.8515",
		"doi:10.1101/097196",
		"10.1234/a%2541",
		"10.1234/abc%2520",
		"10.1234/a%41",
		"https://doi.org/10.1234/a%2541",
		"doi:10.1234/a%2Fb",
		"garbage",
		"",
	}
	for _, in := range inputs {
		once := NormalizeDOI(in)
		if twice := NormalizeDOI(once); twice != once {
			t.Errorf("NormalizeDOI not idempotent for %q: %q then %q", in, once, twice)
		}
		if once == "" {
			continue
		}
		if back := NormalizeDOI(DOIAsURL(once)); back != once {
			t.Errorf("NormalizeDOI(DOIAsURL(%q)) = %q", once, back)
		}
	}
}

func TestDOIPrefix(t *testing.T) {
	if got := DOIPrefix("https://doi.org/10.7554/elife.01567"); got != "10.7554" {
		t.Errorf("got %q, want %q", got, "10.7554")
	}
	if got := DOIPrefix("nope"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestNormalizeORCID(t *testing.T) {
	want := "https://orcid.org/0000-0002-1394-3097"
	for _, in := range []string{
		"0000-0002-1394-3097",
		"0000 0002 1394 3097",
		"0000000213943097",
		"http://orcid.org/0000-0002-1394-3097",
		"https://www.orcid.org/0000-0002-1394-3097/",
		"https://sandbox.orcid.org/0000-0002-1394-3097",
	} {
		if got := NormalizeORCID(in); got != want {
			t.Errorf("NormalizeORCID(%q) = %q, want %q", in, got, want)
		}
	}
	if got := NormalizeORCID("0000-0001-5727-212X"); got != "https://orcid.org/0000-0001-5727-212X" {
		t.Errorf("check digit X: got %q", got)
	}
	for _, in := range []string{"0000-0002-1394-309", "", "https://orcid.org/", "abcd-0002-1394-3097"} {
		if got := NormalizeORCID(in); got != "" {
			t.Errorf("NormalizeORCID(%q) = %q, want empty", in, got)
		}
	}
}

func TestNormalizeROR(t *testing.T) {
	tests := map[string]string{
		"https://ror.org/04wxnsj81": "https://ror.org/04wxnsj81",
		"ror.org/04wxnsj81":         "https://ror.org/04wxnsj81",
		"04wxnsj81":                 "https://ror.org/04wxnsj81",
		"https://ror.org/":          "",
	}
	for in, want := range tests {
		if got := NormalizeROR(in); got != want {
			t.Errorf("NormalizeROR(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"http://elifesciences.org/content/3/e01567/": "https://elifesciences.org/content/3/e01567",
		"https://Example.ORG/path":                   "https://example.org/path",
		"ftp://example.org/file":                     "",
		"not a url":                                  "",
		"":                                           "",
	}
	for in, want := range tests {
		if got := NormalizeURL(in); got != want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeIDWithScheme(t *testing.T) {
	tests := []struct {
		id, scheme, want string
	}{
		{"0000-0002-1394-3097", "https://orcid.org", "https://orcid.org/0000-0002-1394-3097"},
		{"04wxnsj81", "https://ror.org/", "https://ror.org/04wxnsj81"},
		{"https://ror.org/04wxnsj81", "", "https://ror.org/04wxnsj81"},
		{"0000000121729498", "http://isni.org/isni/", "https://isni.org/isni/0000000121729498"},
		{"10.13039/501100001711", "", "https://doi.org/10.13039/501100001711"},
		{"local-id", "", ""},
	}
	for _, tt := range tests {
		if got := NormalizeIDWithScheme(tt.id, tt.scheme); got != tt.want {
			t.Errorf("NormalizeIDWithScheme(%q, %q) = %q, want %q", tt.id, tt.scheme, got, tt.want)
		}
	}
}

func TestDetectIdentifierType(t *testing.T) {
	tests := map[string]string{
		"10.7554/elife.01567":                   IdentifierDOI,
		"https://orcid.org/0000-0002-1394-3097": IdentifierORCID,
		"https://ror.org/04wxnsj81":             IdentifierROR,
		"arXiv:2101.00001":                      IdentifierArXiv,
		"https://hdl.handle.net/2027/mdp.39015": IdentifierHandle,
		"https://example.org":                   IdentifierURL,
		"2050-084X":                             IdentifierISSN,
		"978-3-16-148410-0":                     IdentifierISBN,
		"123e4567-e89b-12d3-a456-426614174000":  IdentifierUUID,
		"something":                             IdentifierOther,
	}
	for in, want := range tests {
		if got := DetectIdentifierType(in); got != want {
			t.Errorf("DetectIdentifierType(%q) = %q, want %q", in, got, want)
		}
	}
}
