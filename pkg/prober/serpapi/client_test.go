package serpapi_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/aivis/pkg/prober/serpapi"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClient_Search_success(t *testing.T) {
	c := serpapi.New(&http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "serpapi.com", r.URL.Host)
		require.Equal(t, "/search.json", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "best saas", q.Get("q"))
		require.Equal(t, "google", q.Get("engine"))
		require.Equal(t, "test-key", q.Get("api_key"))
		require.Equal(t, "de", q.Get("gl"))
		require.Equal(t, "de", q.Get("hl"))

		return respond(http.StatusOK, `{
			"ai_overview": {"text_blocks": [{"snippet": "Acme & friends"}]},
			"organic_results": [{"position": 1, "title": "Acme", "snippet": "widgets", "link": "https://acme.com"}]
		}`), nil
	})}, "test-key")

	res, err := c.Search(context.Background(), "best saas")
	require.NoError(t, err)
	require.Len(t, res.OrganicResults, 1)
	require.Equal(t, "https://acme.com", res.OrganicResults[0].Link)
	require.Equal(t, `{"text_blocks":[{"snippet":"Acme & friends"}]}`, res.AIOverviewText())
}

func TestClient_Search_options(t *testing.T) {
	c := serpapi.New(&http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "search.internal", r.URL.Host)
		require.Equal(t, "us", r.URL.Query().Get("gl"))
		require.Equal(t, "en", r.URL.Query().Get("hl"))
		return respond(http.StatusOK, `{}`), nil
	})}, "k", serpapi.WithEndpoint("http://search.internal/search.json"), serpapi.WithLocale("us", "en"))

	res, err := c.Search(context.Background(), "q")
	require.NoError(t, err)
	require.Empty(t, res.AIOverviewText())
	require.Empty(t, res.OrganicResults)
}

func TestClient_Search_nullOverview(t *testing.T) {
	c := serpapi.New(&http.Client{Transport: rtFunc(func(*http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"ai_overview": null}`), nil
	})}, "k")

	res, err := c.Search(context.Background(), "q")
	require.NoError(t, err)
	require.Equal(t, "", res.AIOverviewText())
}

func TestClient_Search_errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: "slow down", wantErr: serpapi.ErrRateLimited},
		{name: "bad key", status: http.StatusUnauthorized, body: `{"error":"Invalid API key"}`, wantErr: serpapi.ErrUnauthorized},
		{name: "upstream", status: http.StatusBadGateway, body: "upstream bad", wantMsg: "upstream bad"},
		{name: "bad json", status: http.StatusOK, body: "{", wantMsg: "could not decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := serpapi.New(&http.Client{Transport: rtFunc(func(*http.Request) (*http.Response, error) {
				return respond(tt.status, tt.body), nil
			})}, "k")

			_, err := c.Search(context.Background(), "q")
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				require.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
