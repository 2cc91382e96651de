package partition

import "testing"

func TestKeyArxivModern(t *testing.T) {
	testCases := map[string]string{
		"2403.12345": "2403",
		"2312.00001": "2312",
		"0704.0001":  "0704",
	}
	for in, want := range testCases {
		if got := Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeyArxivLegacy(t *testing.T) {
	testCases := map[string]string{
		"hep-ph/9901234":  "hep-",
		"cs.dm/9910013":   "cs.d",
		"astro-ph/0001001": "astr",
		"cs/9901234":       "cs_9",
		"q-bio/0401001":    "q-bi",
	}
	for in, want := range testCases {
		if got := Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeyShortID(t *testing.T) {
	if got := Key("abc"); got != "abc" {
		t.Errorf("Key(abc) = %q", got)
	}
	if got := Key("a"); got != "a" {
		t.Errorf("Key(a) = %q", got)
	}
}

func TestKeyDOI(t *testing.T) {
	testCases := map[string]string{
		"10.1234/example":           "10.1234",
		"10.5555/abcd.1234":         "10.5555",
		"10.48550/arxiv.2403.12345": "10.48550",
	}
	for in, want := range testCases {
		if got := Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeyDOINoSlash(t *testing.T) {
	if got := Key("10.1"); got != "10.1" {
		t.Errorf("Key(10.1) = %q, want 10.1", got)
	}
}

// Universal property 5: every row in partition file K has
// Key(row.CitedID) == K.
func TestKeyIsPartitionInvariant(t *testing.T) {
	ids := []string{"10.1234/x", "2403.12345", "hep-ph/9901234"}
	for _, id := range ids {
		k := Key(id)
		if Key(id) != k {
			t.Errorf("Key not stable for %q", id)
		}
	}
}
