package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cometadata/crossref-citation-extraction/internal/invert"
)

func TestValidateLocalMatchRoutesToValid(t *testing.T) {
	records := []invert.Record{{CitedID: "10.1/x"}, {CitedID: "10.1/y"}}
	idx := Indexes{External: buildIndex("10.1/x")}

	results, err := Validate(context.Background(), records, Options{Indexes: idx, Mode: ModeDatacite})
	if err != nil {
		t.Fatal(err)
	}
	valid, failed := SplitValidFailed(results)
	if len(valid) != 1 || valid[0].CitedID != "10.1/x" {
		t.Errorf("valid = %+v", valid)
	}
	if len(failed) != 1 || failed[0].CitedID != "10.1/y" {
		t.Errorf("failed = %+v", failed)
	}
}

func TestValidateWithoutHTTPFallbackFailsUnmatched(t *testing.T) {
	records := []invert.Record{{CitedID: "10.1/z"}}
	results, err := Validate(context.Background(), records, Options{Indexes: Indexes{}, Mode: ModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Outcome != OutcomeNotFound {
		t.Errorf("outcome = %v, want NotFound", results[0].Outcome)
	}
}

func TestValidateHTTPFallbackResolvesOverNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resolver := NewResolver(2*time.Second, 0)
	resolver.baseURL = srv.URL

	records := []invert.Record{{CitedID: "10.1/unmatched"}}
	opts := Options{
		Indexes:     Indexes{},
		Mode:        ModeAll,
		HTTPEnabled: true,
		Resolver:    resolver,
		Concurrency: 2,
	}

	results, err := Validate(context.Background(), records, opts)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Outcome != OutcomeResolvedOverNetwork {
		t.Errorf("outcome = %v, want ResolvedOverNetwork", results[0].Outcome)
	}
}

func TestResolverTreatsNonSuccessAsUnresolved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	resolver := NewResolver(2*time.Second, 0)
	resolver.baseURL = srv.URL

	if resolver.Resolves(context.Background(), "10.1/missing") {
		t.Error("404 should not count as resolved")
	}
}

func TestResolverTreatsRedirectAsResolved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://example.org/target", http.StatusFound)
	}))
	defer srv.Close()

	resolver := NewResolver(2*time.Second, 0)
	resolver.baseURL = srv.URL

	if !resolver.Resolves(context.Background(), "10.1/redirected") {
		t.Error("a 3xx redirect should count as resolved")
	}
}

func TestValidateHTTPEnabledWithoutResolverErrors(t *testing.T) {
	records := []invert.Record{{CitedID: "10.1/z"}}
	_, err := Validate(context.Background(), records, Options{HTTPEnabled: true})
	if err == nil {
		t.Fatal("expected an error when HTTP fallback is enabled without a resolver")
	}
}
