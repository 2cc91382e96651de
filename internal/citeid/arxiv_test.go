package citeid

import "testing"

func TestExtractArxivModernFormat(t *testing.T) {
	matches := ExtractArxivIDs("arXiv:2403.03542")
	if len(matches) != 1 {
		t.Fatalf("got %d matches", len(matches))
	}
	if matches[0].ID != "2403.03542" {
		t.Errorf("ID = %q", matches[0].ID)
	}
	if matches[0].ArxivDOI != "10.48550/arXiv.2403.03542" {
		t.Errorf("ArxivDOI = %q", matches[0].ArxivDOI)
	}
}

func TestExtractArxivWithVersion(t *testing.T) {
	matches := ExtractArxivIDs("arXiv:2403.03542v2")
	if len(matches) != 1 || matches[0].ID != "2403.03542" {
		t.Fatalf("got %+v", matches)
	}
}

func TestExtractArxivOldFormat(t *testing.T) {
	matches := ExtractArxivIDs("arXiv:hep-ph/9901234")
	if len(matches) != 1 || matches[0].ID != "hep-ph/9901234" {
		t.Fatalf("got %+v", matches)
	}
}

func TestExtractArxivOldFormatWithDots(t *testing.T) {
	matches := ExtractArxivIDs("arXiv:cs.DM/9910013")
	if len(matches) != 1 || matches[0].ID != "cs.dm/9910013" {
		t.Fatalf("got %+v", matches)
	}
}

func TestExtractArxivOldFormatWithSpace(t *testing.T) {
	matches := ExtractArxivIDs("arXiv:cs.DM/ 9910013")
	if len(matches) != 1 || matches[0].ID != "cs.dm/9910013" {
		t.Fatalf("got %+v", matches)
	}
}

func TestExtractArxivSixDigitDecimal(t *testing.T) {
	matches := ExtractArxivIDs("ArXiv. 2206.153252")
	if len(matches) != 1 || matches[0].ID != "2206.153252" {
		t.Fatalf("got %+v", matches)
	}
}

func TestExtractArxivFromDOI(t *testing.T) {
	matches := ExtractArxivIDs("10.48550/arXiv.2403.03542")
	if len(matches) != 1 || matches[0].ID != "2403.03542" {
		t.Fatalf("got %+v", matches)
	}
}

func TestExtractArxivFromURL(t *testing.T) {
	matches := ExtractArxivIDs("https://arxiv.org/abs/2403.03542")
	if len(matches) != 1 || matches[0].ID != "2403.03542" {
		t.Fatalf("got %+v", matches)
	}
}

// S4: arXiv extraction is gated on the literal "arxiv" appearing in the
// search text; a bare number that merely looks like a modern arXiv ID
// must not match.
func TestExtractArxivScenarioGating(t *testing.T) {
	if matches := ExtractArxivIDs("value is 2403.03542"); len(matches) != 0 {
		t.Fatalf("want no matches without arxiv context, got %+v", matches)
	}
	matches := ExtractArxivIDs("see arXiv:2403.03542v3")
	if len(matches) != 1 || matches[0].ID != "2403.03542" {
		t.Fatalf("got %+v", matches)
	}
}

func TestNormalizeArxivID(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"2403.03542", "2403.03542"},
		{"2403.03542v2", "2403.03542"},
		{"CS.DM/9910013", "cs.dm/9910013"},
		{"cs.DM/ 9910013", "cs.dm/9910013"},
	}
	for _, tc := range testCases {
		if got := NormalizeArxivID(tc.in); got != tc.want {
			t.Errorf("NormalizeArxivID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestArxivDOIConstruction(t *testing.T) {
	if got := ArxivDOI("2403.03542"); got != "10.48550/arXiv.2403.03542" {
		t.Errorf("ArxivDOI = %q", got)
	}
}
