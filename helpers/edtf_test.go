package helpers

import "testing"

func TestParseEDTF(t *testing.T) {
	tests := []struct {
		in        string
		start     string
		end       string
		qualifier string
		ok        bool
	}{
		{"1978", "1978", "", "", true},
		{"1978-03", "1978-03", "", "", true},
		{"1978-03-15", "1978-03-15", "", "", true},
		{"1978-03~", "1978-03", "", QualifierApproximate, true},
		{"1978?", "1978", "", QualifierUncertain, true},
		{"1978%", "1978", "", QualifierBoth, true},
		{"197X", "1970", "", QualifierApproximate, true},
		{"1970s", "1970", "", QualifierApproximate, true},
		{"19XX", "1900", "", QualifierApproximate, true},
		{"2004-06/2006-08", "2004-06", "2006-08", "", true},
		{"../2006", "", "2006", "", true},
		{"2004/..", "2004", "", "", true},
		{"2024-12-13T22:43:14+00:00", "2024-12-13", "", "", true},
		{"2024-12-13 22:43:14", "2024-12-13", "", "", true},
		{"someday", "", "", "", false},
		{"", "", "", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseEDTF(tt.in)
		if ok != tt.ok || got.Start != tt.start || got.End != tt.end || got.Qualifier != tt.qualifier {
			t.Errorf("ParseEDTF(%q) = %+v, %v; want start %q end %q qualifier %q, %v",
				tt.in, got, ok, tt.start, tt.end, tt.qualifier, tt.ok)
		}
	}
}

func TestFormatEDTF(t *testing.T) {
	tests := []struct {
		start, end, want string
	}{
		{"2020", "", "2020"},
		{"2020-01", "2021", "2020-01/2021"},
		{"", "2021", "../2021"},
	}
	for _, tt := range tests {
		if got := FormatEDTF(tt.start, tt.end); got != tt.want {
			t.Errorf("FormatEDTF(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}
