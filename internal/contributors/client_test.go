package contributors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchContributors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/showcase-community/showcase/contributors", r.URL.Path)
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"login":"mirabel-dev","avatar_url":"https://a/1.png","html_url":"https://h/mirabel-dev","contributions":42},
			{"login":"okabe-r","avatar_url":"https://a/2.png","html_url":"https://h/okabe-r","contributions":7}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "showcase-community", "showcase")
	got, err := c.FetchContributors(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "mirabel-dev", got[0].Login)
	assert.Equal(t, "https://a/1.png", got[0].AvatarURL)
	assert.Equal(t, "https://h/mirabel-dev", got[0].ProfileURL)
	assert.Equal(t, 42, got[0].Contributions)
}

func TestFetchContributorsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "showcase-community", "showcase")
	_, err := c.FetchContributors(context.Background())
	assert.Error(t, err)
}

func TestFetchStatsAggregatesWeeks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/showcase-community/showcase/stats/contributors", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"author":{"login":"mirabel-dev"},"weeks":[{"a":100,"d":20},{"a":50,"d":5}]},
			{"author":{"login":"okabe-r"},"weeks":[{"a":10,"d":1}]}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "showcase-community", "showcase")
	stats, err := c.FetchStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, WeeklyStats{Additions: 150, Deletions: 25}, stats["mirabel-dev"])
	assert.Equal(t, WeeklyStats{Additions: 10, Deletions: 1}, stats["okabe-r"])
}

func TestFetchStatsAcceptedMeansEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "showcase-community", "showcase")
	stats, err := c.FetchStats(context.Background())
	require.NoError(t, err, "202 means the provider is still computing, not a failure")
	assert.Empty(t, stats)
}
