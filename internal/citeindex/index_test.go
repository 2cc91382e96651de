package citeindex

import "testing"

func TestInsertAndContains(t *testing.T) {
	idx := New()
	idx.Insert("10.1234/Found")

	if !idx.Contains("10.1234/found") {
		t.Error("want contains lowercase form")
	}
	if !idx.Contains("10.1234/Found") {
		t.Error("want contains original form (case-insensitive)")
	}
	if idx.Contains("10.1234/notfound") {
		t.Error("want not contains")
	}
}

func TestHasPrefix(t *testing.T) {
	idx := New()
	idx.Insert("10.1234/example")
	idx.Insert("10.48550/arXiv.2403.12345")

	if !idx.HasPrefix("10.1234") {
		t.Error("want has prefix 10.1234")
	}
	if !idx.HasPrefix("10.48550") {
		t.Error("want has prefix 10.48550")
	}
	if idx.HasPrefix("10.9999") {
		t.Error("want not has prefix 10.9999")
	}
}

func TestLenAndPrefixCount(t *testing.T) {
	idx := New()
	idx.Insert("10.1234/a")
	idx.Insert("10.1234/b")
	idx.Insert("10.5678/c")

	if idx.Len() != 3 {
		t.Errorf("Len() = %d, want 3", idx.Len())
	}
	if idx.PrefixCount() != 2 {
		t.Errorf("PrefixCount() = %d, want 2", idx.PrefixCount())
	}
}

func TestMerge(t *testing.T) {
	a := New()
	a.Insert("10.1234/a")
	b := New()
	b.Insert("10.5678/b")

	a.Merge(b)
	if !a.Contains("10.5678/b") {
		t.Error("want merged identifier present")
	}
	if !a.HasPrefix("10.5678") {
		t.Error("want merged prefix present")
	}
}
