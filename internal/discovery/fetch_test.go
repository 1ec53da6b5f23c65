package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherDirect(t *testing.T) {
	var gotAccept, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
			return
		}
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("body"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(time.Second, "", "truffle-test/1")
	resp, err := f.Fetch(context.Background(), srv.URL+"/old")
	require.NoError(t, err)

	require.Equal(t, http.StatusTeapot, resp.StatusCode, "non-2xx is a response, not an error")
	require.Equal(t, "application/yaml", resp.ContentType)
	require.Equal(t, "body", string(resp.Body))
	require.Equal(t, srv.URL+"/new", resp.URL)
	require.Equal(t, acceptHeader, gotAccept)
	require.Equal(t, "truffle-test/1", gotAgent)
}

func TestHTTPFetcherViaRelay(t *testing.T) {
	var gotQuery url.Values
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"openapi":"3.0.0"}`))
	}))
	defer relay.Close()

	f := NewHTTPFetcher(time.Second, relay.URL+"/relay", "")
	resp, err := f.Fetch(context.Background(), "https://api.example.com/openapi.json?v=1")
	require.NoError(t, err)

	require.Equal(t, "https://api.example.com/openapi.json?v=1", gotQuery.Get("url"))
	require.Equal(t, "true", gotQuery.Get("skipValidation"))
	require.Equal(t, "https://api.example.com/openapi.json?v=1", resp.URL)
}

func TestHTTPFetcherNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	target := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher(time.Second, "", "").Fetch(context.Background(), target)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, target, netErr.URL)
}

func TestRelayRequestURL(t *testing.T) {
	got, err := RelayRequestURL("http://localhost:8787/relay", "https://x.io/a b?c=d&e", false)
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	require.Equal(t, "/relay", u.Path)
	require.Equal(t, "https://x.io/a b?c=d&e", u.Query().Get("url"))
	require.False(t, u.Query().Has("skipValidation"))
}
