package helpers

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want ParsedName
	}{
		{"John Smith", ParsedName{Given: "John", Family: "Smith"}},
		{"Smith, John", ParsedName{Given: "John", Family: "Smith"}},
		{"Ludwig van Beethoven", ParsedName{Given: "Ludwig", Family: "van Beethoven"}},
		{"Martin Luther King Jr.", ParsedName{Given: "Martin Luther", Family: "King", Suffix: "Jr."}},
		{"King, Jr., Martin Luther", ParsedName{Given: "Martin Luther", Family: "King", Suffix: "Jr."}},
		{"Madonna", ParsedName{Family: "Madonna"}},
		{"  ", ParsedName{}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParseName(tt.in)); diff != "" {
			t.Errorf("ParseName(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestReformatInitials(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Smith J.", "Smith, J."},
		{"Smith J.K.", "Smith, J.K."},
		{"Smith J. K.", "Smith, J. K."},
		{"Smith, John K.", "Smith, John K."},
		{"John Smith", "John Smith"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ReformatInitials(tt.in); got != tt.want {
			t.Errorf("ReformatInitials(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInitials(t *testing.T) {
	if got, want := Initials("John Ronald-reuel"), "J. R. R."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFoldASCII(t *testing.T) {
	tests := map[string]string{
		"Müller":   "Muller",
		"José":     "Jose",
		"Ångström": "Angstrom",
		"plain":    "plain",
	}
	for in, want := range tests {
		if got := FoldASCII(in); got != want {
			t.Errorf("FoldASCII(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Smith, J.; Doe, J.", []string{"Smith, J.", "Doe, J."}},
		{"John Smith and Jane Doe", []string{"John Smith", "Jane Doe"}},
		{"a | b |", []string{"a", "b"}},
		{"Single Name", []string{"Single Name"}},
		{"", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitNames(tt.in)); diff != "" {
			t.Errorf("SplitNames(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestCaseConversion(t *testing.T) {
	tests := []struct {
		kebab, pascal string
	}{
		{"journal-article", "JournalArticle"},
		{"book-chapter", "BookChapter"},
		{"dataset", "Dataset"},
		{"peer-review", "PeerReview"},
	}
	for _, tt := range tests {
		if got := PascalCase(tt.kebab); got != tt.pascal {
			t.Errorf("PascalCase(%q) = %q, want %q", tt.kebab, got, tt.pascal)
		}
		if got := KebabCase(tt.pascal); got != tt.kebab {
			t.Errorf("KebabCase(%q) = %q, want %q", tt.pascal, got, tt.kebab)
		}
	}
	if got := PascalCase("book_chapter"); got != "BookChapter" {
		t.Errorf("got %q, want %q", got, "BookChapter")
	}
}
