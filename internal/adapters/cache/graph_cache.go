package cache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"courier-route-service/internal/adapters/files"
	"courier-route-service/internal/adapters/planxml"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/graph"
	"courier-route-service/internal/platform/metrics"
	"courier-route-service/internal/platform/obs"

	"github.com/panjf2000/ants/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// GraphCache keeps parsed plan graphs by file name for the lifetime of the
// process. Graphs are immutable once stored; there is no eviction.
type GraphCache struct {
	plans *files.Catalog

	mu     sync.RWMutex
	graphs map[string]*graph.Graph

	group singleflight.Group
}

func NewGraphCache(plans *files.Catalog) *GraphCache {
	return &GraphCache{
		plans:  plans,
		graphs: make(map[string]*graph.Graph),
	}
}

// LoadGraph returns the named graph, parsing its plan file on first use.
// Concurrent first loads of one name share a single parse.
func (c *GraphCache) LoadGraph(ctx context.Context, name string) (_ *graph.Graph, err error) {
	defer obs.Time(ctx, "graphcache.LoadGraph")(&err)

	name = domain.XMLFileName(name)

	c.mu.RLock()
	g, ok := c.graphs[name]
	c.mu.RUnlock()
	if ok {
		metrics.GraphCacheLookups.WithLabelValues("hit").Inc()
		return g, nil
	}
	metrics.GraphCacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := c.group.Do(name, func() (any, error) {
		return c.load(name)
	})
	if err != nil {
		metrics.GraphCacheLookups.WithLabelValues("error").Inc()
		return nil, err
	}
	return v.(*graph.Graph), nil
}

func (c *GraphCache) load(name string) (*graph.Graph, error) {
	f, err := c.plans.Open(name)
	if errors.Is(err, domain.ErrFileNotFound) || errors.Is(err, domain.ErrInvalidFileName) {
		return nil, &domain.GraphLoadError{Name: name, Err: domain.ErrGraphNotFound}
	}
	if err != nil {
		return nil, &domain.GraphLoadError{Name: name, Err: err}
	}
	defer f.Close()

	start := time.Now()
	g, err := planxml.ParsePlan(name, f)
	metrics.GraphLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &domain.GraphLoadError{Name: name, Err: err}
	}

	c.mu.Lock()
	c.graphs[name] = g
	c.mu.Unlock()

	log.WithFields(log.Fields{
		"plan":     name,
		"nodes":    g.NodeCount(),
		"segments": g.SegmentCount(),
		"dur_ms":   time.Since(start).Milliseconds(),
	}).Info("plan graph loaded")

	return g, nil
}

// Names returns the sorted names of the graphs currently cached.
func (c *GraphCache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.graphs))
	for n := range c.graphs {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Preload loads the named plans on a pool of workers. Every plan is
// attempted; the failures are joined into the returned error.
func (c *GraphCache) Preload(ctx context.Context, names []string, workers int) error {
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("preload graphs: create pool: %w", err)
	}
	defer pool.Release()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for _, name := range names {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if _, err := c.LoadGraph(ctx, name); err != nil {
				record(err)
			}
		})
		if submitErr != nil {
			wg.Done()
			record(fmt.Errorf("preload graphs: submit %q: %w", name, submitErr))
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}
