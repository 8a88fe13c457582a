package contributors

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "showcase-community"

// fakeFetcher counts calls and returns canned data or errors.
type fakeFetcher struct {
	contributors []Contributor
	stats        map[string]WeeklyStats
	fetchErr     error
	statsErr     error
	fetchCalls   int
}

func (f *fakeFetcher) FetchContributors(context.Context) ([]Contributor, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]Contributor, len(f.contributors))
	copy(out, f.contributors)
	return out, nil
}

func (f *fakeFetcher) FetchStats(context.Context) (map[string]WeeklyStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

func newTestService(t *testing.T, fetcher Fetcher) *Service {
	t.Helper()
	cache := NewCache(filepath.Join(t.TempDir(), "contributors.json"))
	return NewService(fetcher, cache, testOwner, 5*time.Minute)
}

func TestListLiveFetch(t *testing.T) {
	fetcher := &fakeFetcher{
		contributors: []Contributor{
			{Login: "okabe-r", Contributions: 7},
			{Login: testOwner, Contributions: 3},
			{Login: "mirabel-dev", Contributions: 42},
		},
		stats: map[string]WeeklyStats{
			"mirabel-dev": {Additions: 1200, Deletions: 300},
		},
	}
	svc := newTestService(t, fetcher)

	list := svc.List(context.Background())

	require.Len(t, list, 3)
	assert.Equal(t, testOwner, list[0].Login, "owner sorts first regardless of contributions")
	assert.Equal(t, "mirabel-dev", list[1].Login)
	assert.Equal(t, "okabe-r", list[2].Login)

	assert.Equal(t, 1200, list[1].Additions)
	assert.Equal(t, 300, list[1].Deletions)

	assert.Equal(t, ownerPersona, list[0].Persona)
	for _, c := range list[1:] {
		assert.NotEmpty(t, c.Persona.Title, "non-owner %s missing persona", c.Login)
	}
}

func TestListServesFreshCacheWithoutFetching(t *testing.T) {
	fetcher := &fakeFetcher{
		contributors: []Contributor{{Login: "mirabel-dev", Contributions: 42}},
	}
	svc := newTestService(t, fetcher)

	first := svc.List(context.Background())
	require.Equal(t, 1, fetcher.fetchCalls)

	second := svc.List(context.Background())
	assert.Equal(t, 1, fetcher.fetchCalls, "fresh cache must suppress the live fetch")
	assert.Equal(t, first, second)
}

func TestListFallsBackToStaleCache(t *testing.T) {
	fetcher := &fakeFetcher{
		contributors: []Contributor{{Login: "mirabel-dev", Contributions: 42}},
	}
	svc := newTestService(t, fetcher)

	warm := svc.List(context.Background())
	require.Equal(t, 1, fetcher.fetchCalls)

	// Age the cache past the TTL and make the live source fail.
	svc.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	fetcher.fetchErr = errors.New("api unavailable")

	got := svc.List(context.Background())
	assert.Equal(t, 2, fetcher.fetchCalls, "stale cache must try a live fetch first")
	assert.Equal(t, warm, got, "stale cache is served when the live fetch fails")
}

func TestListFallsBackToBuiltinList(t *testing.T) {
	fetcher := &fakeFetcher{fetchErr: errors.New("api unavailable")}
	svc := newTestService(t, fetcher)

	got := svc.List(context.Background())

	require.Len(t, got, len(fallbackContributors))
	assert.Equal(t, testOwner, got[0].Login)
	assert.Equal(t, ownerPersona, got[0].Persona)

	// Non-owner entries keep the descending contribution order and carry
	// deterministic personas.
	for i := 1; i < len(got); i++ {
		assert.NotEmpty(t, got[i].Persona.Title)
		if i > 1 {
			assert.GreaterOrEqual(t, got[i-1].Contributions, got[i].Contributions)
		}
	}
}

func TestListNeverEmpty(t *testing.T) {
	fetcher := &fakeFetcher{fetchErr: errors.New("api unavailable")}
	svc := newTestService(t, fetcher)

	for i := 0; i < 3; i++ {
		assert.NotEmpty(t, svc.List(context.Background()))
	}
}

func TestListToleratesStatsFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		contributors: []Contributor{{Login: "mirabel-dev", Contributions: 42}},
		statsErr:     errors.New("stats still computing"),
	}
	svc := newTestService(t, fetcher)

	list := svc.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].Additions)
	assert.Equal(t, 0, list[0].Deletions)
}

func TestDecorateSortsOwnerFromAnyPosition(t *testing.T) {
	svc := newTestService(t, &fakeFetcher{})

	tests := []struct {
		name string
		in   []Contributor
	}{
		{"owner first", []Contributor{{Login: testOwner, Contributions: 999}, {Login: "a", Contributions: 1}}},
		{"owner middle", []Contributor{{Login: "a", Contributions: 9}, {Login: testOwner, Contributions: 1}, {Login: "b", Contributions: 5}}},
		{"owner last with fewest", []Contributor{{Login: "a", Contributions: 9}, {Login: "b", Contributions: 5}, {Login: testOwner, Contributions: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.decorate(tt.in)
			require.NotEmpty(t, got)
			assert.Equal(t, testOwner, got[0].Login)
			for i := 2; i < len(got); i++ {
				assert.GreaterOrEqual(t, got[i-1].Contributions, got[i].Contributions)
			}
		})
	}
}

func TestDecorateBreaksTiesByLogin(t *testing.T) {
	svc := newTestService(t, &fakeFetcher{})

	got := svc.decorate([]Contributor{
		{Login: "zeta", Contributions: 5},
		{Login: "alpha", Contributions: 5},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Login)
	assert.Equal(t, "zeta", got[1].Login)
}
