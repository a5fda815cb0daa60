package helpers

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<p>One</p><p>Two</p>", "One Two"},
		{"line<br/>break", "line break"},
		{"<!-- hidden -->Tom &amp; Jerry", "Tom & Jerry"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripHTML(tt.in); got != tt.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text",
			in:   "  Tom &amp; Jerry\n ride again ",
			want: "Tom & Jerry ride again",
		},
		{
			name: "attributes and scripts dropped",
			in:   `<p>a <b class="x">bold</b> move<script>alert(1)</script></p>`,
			want: "a <b>bold</b> move",
		},
		{
			name: "jats abstract",
			in:   "<jats:title>Abstract</jats:title><jats:p>Cells <jats:italic>in vivo</jats:italic> divide.</jats:p>",
			want: "Cells <i>in vivo</i> divide.",
		},
		{
			name: "disallowed inline unwrapped",
			in:   `<p>see <a href="https://example.org">this</a> and H<sub>2</sub>O</p>`,
			want: "see this and H<sub>2</sub>O",
		},
		{
			name: "blocks separated",
			in:   "<div>one</div><div>two</div>",
			want: "one two",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeHTML(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeHTMLCustomTags(t *testing.T) {
	got := SanitizeHTML("<p><i>x</i> <b>y</b></p>", "i")
	if want := "<i>x</i> y"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
