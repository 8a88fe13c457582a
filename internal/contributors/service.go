package contributors

import (
	"context"
	"sort"
	"time"

	"showcase-media/internal/logging"
	"showcase-media/internal/metrics"
)

// Fetcher is the live data source for contributor records. Production uses
// *Client; tests substitute a fake.
type Fetcher interface {
	FetchContributors(ctx context.Context) ([]Contributor, error)
	FetchStats(ctx context.Context) (map[string]WeeklyStats, error)
}

// Service produces the contributor list through a degrade-gracefully chain:
// fresh cache, then live fetch, then stale cache, then the built-in fallback
// list. It never returns an error; the caller always gets a renderable list.
type Service struct {
	fetcher Fetcher
	cache   *Cache
	owner   string
	ttl     time.Duration
	now     func() time.Time
}

// NewService creates a contributor service. owner is the designated login
// that always sorts first and receives the fixed owner persona.
func NewService(fetcher Fetcher, cache *Cache, owner string, ttl time.Duration) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		owner:   owner,
		ttl:     ttl,
		now:     time.Now,
	}
}

// List resolves the contributor list. Fetch errors are fully absorbed here:
// they downgrade the resolution source, never surface to the caller.
func (s *Service) List(ctx context.Context) []Contributor {
	cached, writtenAt, hasCache := s.cache.Read()

	if hasCache && s.now().Sub(writtenAt) < s.ttl {
		metrics.ContributorRequestsTotal.WithLabelValues("cache").Inc()
		logging.Debug("contributor list served from cache (age %v)", s.now().Sub(writtenAt))
		return cached
	}

	live, err := s.fetchLive(ctx)
	if err == nil {
		metrics.ContributorRequestsTotal.WithLabelValues("live").Inc()
		if werr := s.cache.Write(live); werr != nil {
			logging.Warn("failed to write contributor cache: %v", werr)
		}
		return live
	}

	logging.Warn("contributor fetch failed: %v", err)

	if hasCache {
		metrics.ContributorRequestsTotal.WithLabelValues("stale_cache").Inc()
		logging.Debug("contributor list served from stale cache (age %v)", s.now().Sub(writtenAt))
		return cached
	}

	metrics.ContributorRequestsTotal.WithLabelValues("fallback").Inc()
	return s.decorate(FallbackContributors())
}

// fetchLive pulls the contributor list and, best-effort, the per-contributor
// statistics, then merges and decorates them.
func (s *Service) fetchLive(ctx context.Context) ([]Contributor, error) {
	start := s.now()

	list, err := s.fetcher.FetchContributors(ctx)
	if err != nil {
		return nil, err
	}

	// Stats are an enrichment; a failure here must not fail the fetch.
	stats, err := s.fetcher.FetchStats(ctx)
	if err != nil {
		logging.Debug("contributor stats fetch failed, continuing without: %v", err)
		stats = nil
	}

	for i := range list {
		if st, ok := stats[list[i].Login]; ok {
			list[i].Additions = st.Additions
			list[i].Deletions = st.Deletions
		}
	}

	metrics.ContributorFetchDuration.Observe(time.Since(start).Seconds())
	return s.decorate(list), nil
}

// decorate assigns personas and applies the display order: the designated
// owner first, everyone else by descending contribution count. Ties break
// by login so the order is deterministic.
func (s *Service) decorate(list []Contributor) []Contributor {
	for i := range list {
		list[i].Persona = PersonaFor(list[i].Login, s.owner)
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Login == s.owner {
			return list[j].Login != s.owner
		}
		if list[j].Login == s.owner {
			return false
		}
		if list[i].Contributions != list[j].Contributions {
			return list[i].Contributions > list[j].Contributions
		}
		return list[i].Login < list[j].Login
	})

	return list
}
