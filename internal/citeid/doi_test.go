package citeid

import "testing"

func TestNormalizeDOI(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"10.1234/test.", "10.1234/test"},
		{"10.1234/test,", "10.1234/test"},
		{"10.1234/test)", "10.1234/test"},
		{"10.1234/test],", "10.1234/test"},
		{"10.1234%2Ftest", "10.1234/test"},
		{"10.1234/TEST", "10.1234/test"},
		{"10.1234/Example-A,", "10.1234/example-a"},
	}
	for _, tc := range testCases {
		if got := NormalizeDOI(tc.in); got != tc.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDOIIdempotent(t *testing.T) {
	inputs := []string{"10.1234/Test.", "10.1234%2Ftest", "10.5555/ABCD"}
	for _, in := range inputs {
		once := NormalizeDOI(in)
		twice := NormalizeDOI(once)
		if once != twice {
			t.Errorf("NormalizeDOI not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestExtractDOIsBare(t *testing.T) {
	matches := ExtractDOIs("See 10.1234/example.paper for details")
	if len(matches) != 1 || matches[0].DOI != "10.1234/example.paper" {
		t.Fatalf("got %+v", matches)
	}
}

func TestExtractDOIsWithPrefix(t *testing.T) {
	matches := ExtractDOIs("doi:10.1234/example")
	if len(matches) != 1 || matches[0].DOI != "10.1234/example" {
		t.Fatalf("got %+v", matches)
	}
}

func TestExtractDOIsURL(t *testing.T) {
	matches := ExtractDOIs("https://doi.org/10.1234/example")
	if len(matches) != 1 || matches[0].DOI != "10.1234/example" {
		t.Fatalf("got %+v", matches)
	}
}

func TestExtractDOIsDxURL(t *testing.T) {
	matches := ExtractDOIs("http://dx.doi.org/10.1234/example")
	if len(matches) != 1 || matches[0].DOI != "10.1234/example" {
		t.Fatalf("got %+v", matches)
	}
}

func TestExtractDOIsDeduplicates(t *testing.T) {
	matches := ExtractDOIs("10.1234/test and also 10.1234/TEST")
	if len(matches) != 1 {
		t.Fatalf("want 1 dedup'd match, got %d: %+v", len(matches), matches)
	}
}

func TestExtractDOIsMultiple(t *testing.T) {
	matches := ExtractDOIs("See 10.1234/first and 10.5678/second")
	if len(matches) != 2 {
		t.Fatalf("want 2 matches, got %d", len(matches))
	}
}

// S1 from the citation evidence scenarios: a bare DOI embedded in free
// text, with trailing punctuation stripped from the raw match.
func TestExtractDOIsScenarioBareInText(t *testing.T) {
	matches := ExtractDOIs("See 10.1234/Example-A, thanks")
	if len(matches) != 1 {
		t.Fatalf("want 1 match, got %d", len(matches))
	}
	if matches[0].DOI != "10.1234/example-a" {
		t.Errorf("DOI = %q, want 10.1234/example-a", matches[0].DOI)
	}
	// The capture class excludes ',' so the match itself already stops
	// short of the trailing comma; NormalizeDOI's punctuation trim
	// covers separators the class does admit, like '.'.
	if matches[0].Raw != "10.1234/Example-A" {
		t.Errorf("Raw = %q, want %q", matches[0].Raw, "10.1234/Example-A")
	}
}

func TestDOIPrefix(t *testing.T) {
	testCases := []struct {
		doi  string
		want string
	}{
		{"10.1234/example", "10.1234"},
		{"10.48550/arXiv.2403.12345", "10.48550"},
		{"invalid", ""},
	}
	for _, tc := range testCases {
		if got := DOIPrefix(tc.doi); got != tc.want {
			t.Errorf("DOIPrefix(%q) = %q, want %q", tc.doi, got, tc.want)
		}
	}
}
