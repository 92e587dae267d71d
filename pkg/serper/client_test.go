package serper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tokenomics-cli/internal/resilience"
)

func TestSearch_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "dropstab ETH", body["q"])
		assert.NotContains(t, body, "num")
		assert.NotContains(t, body, "autocorrect")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic":[{"title":"Ethereum","link":"https://dropstab.com/coins/ethereum/","sitelinks":[{"title":"Vesting","link":"https://dropstab.com/coins/ethereum/vesting"}]}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.Search(context.Background(), Request{Query: "dropstab ETH"})

	require.NoError(t, err)
	require.Len(t, got.Organic, 1)
	assert.Equal(t, "https://dropstab.com/coins/ethereum/", got.Organic[0].Link)
	require.Len(t, got.Organic[0].Sitelinks, 1)
	assert.Equal(t, "Vesting", got.Organic[0].Sitelinks[0].Title)
}

func TestSearch_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"invalid key"}`))
	}))
	defer srv.Close()

	_, err := NewClient("bad", WithBaseURL(srv.URL)).Search(context.Background(), Request{Query: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestSearch_TransientStatus(t *testing.T) {
	t.Parallel()

	for _, code := range []int{http.StatusTooManyRequests, http.StatusBadGateway} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		_, err := NewClient("k", WithBaseURL(srv.URL)).Search(context.Background(), Request{Query: "x"})
		srv.Close()

		require.Error(t, err)
		var te *resilience.TransientError
		require.ErrorAs(t, err, &te, "status %d", code)
		assert.Equal(t, code, te.StatusCode)
	}
}

func TestSearch_PermanentStatusNotTransient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).Search(context.Background(), Request{Query: "x"})
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}

func TestSearch_InvalidJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).Search(context.Background(), Request{Query: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestSearch_RateLimitHonorsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic":[]}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0.001))

	// First call consumes the single burst token.
	_, err := client.Search(context.Background(), Request{Query: "a"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Search(ctx, Request{Query: "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestSearch_RateLimitDisabled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic":[]}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))
	for range 10 {
		_, err := client.Search(context.Background(), Request{Query: "a"})
		require.NoError(t, err)
	}
}
