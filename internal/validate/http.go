package validate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sethgrid/pester"
	"golang.org/x/time/rate"
)

// Resolver issues HTTP HEAD requests against a DOI resolver to settle
// identifiers absent from every local index, mirroring the redirect
// policy and status-code contract of the phase 2 HTTP fallback.
type Resolver struct {
	client  *pester.Client
	timeout time.Duration
	limiter *rate.Limiter
	baseURL string
}

// NewResolver builds a Resolver with the given per-request timeout. A
// non-zero requestsPerSecond adds a politeness throttle ahead of the
// concurrency pool; zero disables throttling.
func NewResolver(timeout time.Duration, requestsPerSecond float64) *Resolver {
	hc := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	client := pester.NewExtendedClient(hc)
	client.MaxRetries = 0

	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}

	return &Resolver{client: client, timeout: timeout, limiter: limiter, baseURL: "https://doi.org"}
}

// Resolves reports whether id resolves over the network: a 2xx or 3xx
// HEAD response is success, anything else (including a transport error
// or timeout) is failure.
func (r *Resolver) Resolves(ctx context.Context, id string) bool {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return false
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s", r.baseURL, id)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 400
}
