package citeid

import "testing"

func TestProvenanceOrdering(t *testing.T) {
	if !(Publisher > Crossref) {
		t.Fatal("want Publisher > Crossref")
	}
	if !(Crossref > Mined) {
		t.Fatal("want Crossref > Mined")
	}
}

func TestProvenanceString(t *testing.T) {
	testCases := []struct {
		p    Provenance
		want string
	}{
		{Publisher, "publisher"},
		{Crossref, "crossref"},
		{Mined, "mined"},
	}
	for _, tc := range testCases {
		if got := tc.p.String(); got != tc.want {
			t.Errorf("String() = %s, want %s", got, tc.want)
		}
	}
}

func TestProvenanceIsAsserted(t *testing.T) {
	if !Publisher.IsAsserted() {
		t.Error("want Publisher asserted")
	}
	if !Crossref.IsAsserted() {
		t.Error("want Crossref asserted")
	}
	if Mined.IsAsserted() {
		t.Error("want Mined not asserted")
	}
}

func TestFromAssertionTag(t *testing.T) {
	testCases := []struct {
		tag  string
		want Provenance
	}{
		{"publisher", Publisher},
		{"crossref", Crossref},
		{"", Mined},
		{"something-else", Mined},
	}
	for _, tc := range testCases {
		if got := FromAssertionTag(tc.tag); got != tc.want {
			t.Errorf("FromAssertionTag(%q) = %v, want %v", tc.tag, got, tc.want)
		}
	}
}

func TestMax(t *testing.T) {
	if Max(Mined, Publisher) != Publisher {
		t.Error("want Publisher")
	}
	if Max(Crossref, Mined) != Crossref {
		t.Error("want Crossref")
	}
}
