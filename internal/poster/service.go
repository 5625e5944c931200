// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package poster

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/plexboard/internal/config"
	"github.com/tomtom215/plexboard/internal/events"
	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/media"
	"github.com/tomtom215/plexboard/internal/metrics"
	"github.com/tomtom215/plexboard/internal/models"
	tmodels "github.com/tomtom215/plexboard/internal/models/tautulli"
	"github.com/tomtom215/plexboard/internal/tmdb"
	"github.com/tomtom215/plexboard/internal/upstream"
	"github.com/tomtom215/plexboard/internal/validation"
)

// ErrInvalidKey is returned for rating keys that are not 1-20 digits.
var ErrInvalidKey = errors.New("poster: invalid rating key")

// Request asks for the poster of one rating key. Thumb, Title and MediaType
// are hints from the caller; missing ones are looked up in Tautulli.
type Request struct {
	RatingKey string `json:"rating_key" validate:"required,ratingkey"`
	Thumb     string `json:"thumb,omitempty" validate:"omitempty,plexpath"`
	Title     string `json:"title,omitempty" validate:"max=300"`
	MediaType string `json:"media_type,omitempty" validate:"max=20"`
	Refresh   bool   `json:"-"`
}

// MetadataResolver looks up Plex metadata for a rating key.
type MetadataResolver interface {
	GetMetadata(ctx context.Context, ratingKey string) (*tmodels.TautulliMetadata, error)
}

// Config holds the service tunables.
type Config struct {
	TTL             time.Duration
	PlaceholderTTL  time.Duration
	UpstreamRPS     float64
	UpstreamBurst   int
	FetchTimeout    time.Duration
	MaxBytes        int64
	Width           int
	Height          int
	PrefetchWorkers int
}

// ConfigFrom maps the posters config section.
func ConfigFrom(c *config.PosterConfig) Config {
	return Config{
		TTL:             c.TTL,
		PlaceholderTTL:  c.PlaceholderTTL,
		UpstreamRPS:     c.UpstreamRPS,
		UpstreamBurst:   c.UpstreamBurst,
		FetchTimeout:    c.FetchTimeout,
		MaxBytes:        c.MaxBytes,
		Width:           c.Width,
		Height:          c.Height,
		PrefetchWorkers: c.PrefetchWorkers,
	}
}

func (c *Config) setDefaults() {
	if c.TTL <= 0 {
		c.TTL = 7 * 24 * time.Hour
	}
	if c.PlaceholderTTL <= 0 {
		c.PlaceholderTTL = time.Hour
	}
	if c.UpstreamRPS <= 0 {
		c.UpstreamRPS = 5
	}
	if c.UpstreamBurst <= 0 {
		c.UpstreamBurst = 10
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = upstream.DefaultMaxImageBytes
	}
	if c.Width <= 0 {
		c.Width = 300
	}
	if c.Height <= 0 {
		c.Height = 450
	}
	if c.PrefetchWorkers <= 0 {
		c.PrefetchWorkers = 4
	}
}

// Deps are the collaborators of a Service. Everything except Memory may be
// nil: a nil Disk disables persistence, a nil Metadata disables lookups.
type Deps struct {
	Memory    *Memory
	Disk      *Disk
	Sources   []Source
	Metadata  MetadataResolver
	Publisher events.Publisher
}

// Service is the poster cache front end.
type Service struct {
	cfg       Config
	memory    *Memory
	disk      *Disk
	sources   []Source
	metadata  MetadataResolver
	publisher events.Publisher
	limiter   *rate.Limiter
	group     singleflight.Group
	logger    zerolog.Logger

	hasTMDB bool

	// epoch is bumped by Clear and gens[key] by Invalidate. A fetch stores
	// its result only if the sum is unchanged, under storeMu.RLock; the
	// invalidating side bumps and deletes under storeMu.Lock.
	storeMu sync.RWMutex
	epoch   atomic.Uint64
	gens    sync.Map // key -> *atomic.Uint64

	layerHits  sync.Map // layer -> *atomic.Int64
	fetches    sync.Map // source -> *atomic.Int64
	dedupWaits atomic.Int64
	inFlight   atomic.Int64
}

// NewService wires the layers together.
func NewService(cfg Config, deps Deps) *Service {
	cfg.setDefaults()
	if deps.Memory == nil {
		deps.Memory = NewMemory(500)
	}
	s := &Service{
		cfg:       cfg,
		memory:    deps.Memory,
		disk:      deps.Disk,
		sources:   deps.Sources,
		metadata:  deps.Metadata,
		publisher: deps.Publisher,
		limiter:   rate.NewLimiter(rate.Limit(cfg.UpstreamRPS), cfg.UpstreamBurst),
		logger:    logging.WithComponent("poster"),
	}
	for _, src := range deps.Sources {
		if src.Name() == SourceTMDB {
			s.hasTMDB = true
		}
	}
	return s
}

// Memory returns the in-memory layer.
func (s *Service) Memory() *Memory { return s.memory }

// Disk returns the persisted layer, or nil.
func (s *Service) Disk() *Disk { return s.disk }

// Get returns the poster for req, walking memory, disk and the upstream
// chain. Only an invalid key or a canceled ctx produce an error.
func (s *Service) Get(ctx context.Context, req Request) (*Entry, string, error) {
	if !validation.IsRatingKey(req.RatingKey) {
		return nil, "", ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	if !req.Refresh {
		if e, ok := s.memory.Get(req.RatingKey); ok {
			s.recordLayer(LayerMemory)
			return e, LayerMemory, nil
		}
		metrics.CacheMisses.WithLabelValues(memoryCacheLabel).Inc()

		if s.disk != nil {
			gen := s.generation(req.RatingKey)
			e, err := s.disk.Get(req.RatingKey)
			switch {
			case err == nil:
				s.promote(e, gen)
				s.recordLayer(LayerDisk)
				return e, LayerDisk, nil
			case !errors.Is(err, ErrNotFound):
				s.logger.Warn().Err(err).Str("key", req.RatingKey).Msg("Poster disk cache read failed")
			}
		}
	}

	e, err := s.fetchShared(ctx, req)
	if err != nil {
		return nil, "", err
	}
	s.recordLayer(LayerUpstream)
	return e, LayerUpstream, nil
}

// generation changes whenever key is invalidated or the cache is cleared.
// Both counters only grow, so their sum does too.
func (s *Service) generation(key string) uint64 {
	g, _ := s.gens.LoadOrStore(key, new(atomic.Uint64))
	return s.epoch.Load() + g.(*atomic.Uint64).Load()
}

func (s *Service) bump(key string) {
	g, _ := s.gens.LoadOrStore(key, new(atomic.Uint64))
	g.(*atomic.Uint64).Add(1)
}

// fetchShared runs one upstream fetch per key and generation. Joiners wait
// for the leader's result or their own ctx, whichever comes first. The fetch
// itself is detached from any single caller so one canceled request does not
// fail the others. A caller arriving after an invalidation starts a new
// fetch instead of joining one that began before it.
func (s *Service) fetchShared(ctx context.Context, req Request) (*Entry, error) {
	gen := s.generation(req.RatingKey)
	led := false
	ch := s.group.DoChan(req.RatingKey+"#"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		led = true
		s.inFlight.Add(1)
		defer s.inFlight.Add(-1)

		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.FetchTimeout)
		defer cancel()
		return s.fetch(fctx, req, gen), nil
	})

	select {
	case res := <-ch:
		if !led {
			s.dedupWaits.Add(1)
			metrics.PosterDedupWaits.Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Entry), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// fetch walks the source chain and stores the result unless the key was
// invalidated meanwhile. It always returns an entry, falling back to the
// placeholder. Results built from unverified caller hints live in memory
// only, for PlaceholderTTL.
func (s *Service) fetch(ctx context.Context, req Request, gen uint64) *Entry {
	t := s.resolve(ctx, req)
	log := s.logger.With().Str("key", t.Key).Logger()

	ttl, persist := s.cfg.TTL, true
	if t.Unverified {
		ttl, persist = s.cfg.PlaceholderTTL, false
	}

	for _, src := range s.sources {
		if err := s.wait(ctx); err != nil {
			log.Warn().Err(err).Msg("Poster fetch gave up waiting for the upstream limiter")
			break
		}

		start := time.Now()
		img, err := src.Fetch(ctx, t)
		if err == nil && int64(len(img.Data)) > s.cfg.MaxBytes {
			err = fmt.Errorf("%w: %d bytes", upstream.ErrTooLarge, len(img.Data))
		}
		result := fetchResult(err)
		metrics.RecordPosterFetch(src.Name(), result, time.Since(start))
		s.count(&s.fetches, src.Name())

		switch result {
		case "success":
			e := newEntry(t.Key, src.Name(), img.ContentType, img.Data, ttl)
			s.store(e, gen, persist)
			log.Debug().Str("source", src.Name()).Int("bytes", e.Size).Msg("Poster fetched")
			return e
		case "miss":
			log.Debug().Str("source", src.Name()).Msg("Poster source has no artwork")
		default:
			log.Warn().Err(err).Str("source", src.Name()).Str("result", result).Msg("Poster source failed, trying next")
		}
	}

	title := t.Title
	if title == "" {
		title = t.Key
	}
	e := newEntry(t.Key, SourcePlaceholder, PlaceholderContentType, Placeholder(title, s.cfg.Width, s.cfg.Height), s.cfg.PlaceholderTTL)
	s.count(&s.fetches, SourcePlaceholder)
	metrics.RecordPosterFetch(SourcePlaceholder, "success", 0)
	s.store(e, gen, persist)
	return e
}

func fetchResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, upstream.ErrNotFound), errors.Is(err, upstream.ErrNotConfigured), upstream.IsClientError(err):
		return "miss"
	case errors.Is(err, upstream.ErrTooLarge):
		return "oversize"
	default:
		return "error"
	}
}

func (s *Service) wait(ctx context.Context) error {
	start := time.Now()
	err := s.limiter.Wait(ctx)
	metrics.PosterThrottleWait.Observe(time.Since(start).Seconds())
	return err
}

// promote copies a disk hit into memory unless the key was invalidated
// after the disk read.
func (s *Service) promote(e *Entry, gen uint64) {
	s.storeMu.RLock()
	defer s.storeMu.RUnlock()
	if s.generation(e.Key) == gen {
		s.memory.Put(e)
	}
}

func (s *Service) store(e *Entry, gen uint64, persist bool) {
	s.storeMu.RLock()
	defer s.storeMu.RUnlock()
	if s.generation(e.Key) != gen {
		s.logger.Debug().Str("key", e.Key).Msg("Dropping poster fetched before invalidation")
		return
	}
	s.memory.Put(e)
	if s.disk == nil || !persist {
		return
	}
	if err := s.disk.Put(e); err != nil {
		s.logger.Warn().Err(err).Str("key", e.Key).Msg("Poster disk cache write failed")
	}
}

// resolve fills in the thumb, title and external ids for req. With a
// metadata resolver the looked-up item wins over the caller's hints; the
// hints are used only when the lookup fails, and the target is then marked
// Unverified.
func (s *Service) resolve(ctx context.Context, req Request) *Target {
	t := &Target{
		Key:    req.RatingKey,
		Thumb:  req.Thumb,
		Title:  req.Title,
		Type:   media.ParseType(req.MediaType),
		Width:  s.cfg.Width,
		Height: s.cfg.Height,
	}
	if s.metadata == nil {
		return t
	}

	item, err := s.lookup(ctx, req.RatingKey)
	if err != nil {
		s.logger.Debug().Err(err).Str("key", req.RatingKey).Msg("Poster metadata lookup failed")
		t.Unverified = t.Thumb != "" || t.Title != ""
		return t
	}
	if item.Type != media.Unknown {
		t.Type = item.Type
	}
	t.Thumb = item.PosterThumb()
	if title := item.DisplayTitle(); title != "" {
		t.Title = title
	}
	if !s.hasTMDB {
		return t
	}

	// Episode and season guids point at the episode or season; TMDB posters
	// belong to the show.
	var showKey string
	switch item.Type {
	case media.Episode:
		showKey = item.GrandparentRatingKey
	case media.Season:
		showKey = item.ParentRatingKey
	}
	if showKey != "" {
		if show, err := s.lookup(ctx, showKey); err == nil {
			item = show
		}
	}

	t.Ref = tmdb.ParseGUIDs(item.Guids)
	t.Ref.Kind = item.TMDBKind()
	return t
}

func (s *Service) lookup(ctx context.Context, key string) (media.Item, error) {
	if err := s.wait(ctx); err != nil {
		return media.Item{}, err
	}
	resp, err := s.metadata.GetMetadata(ctx, key)
	if err != nil {
		return media.Item{}, err
	}
	return media.FromMetadata(&resp.Response.Data), nil
}

// Info returns the cached entry for key without fetching.
func (s *Service) Info(ctx context.Context, key string) (models.PosterInfo, error) {
	if !validation.IsRatingKey(key) {
		return models.PosterInfo{}, ErrInvalidKey
	}
	if e, ok := s.memory.Peek(key); ok {
		return e.Info(LayerMemory), nil
	}
	if s.disk != nil {
		e, err := s.disk.Info(key)
		if err == nil {
			return e.Info(LayerDisk), nil
		}
		if !errors.Is(err, ErrNotFound) {
			return models.PosterInfo{}, err
		}
	}
	return models.PosterInfo{}, ErrNotFound
}

// Refresh drops key from every layer and fetches it again.
func (s *Service) Refresh(ctx context.Context, req Request) (*Entry, error) {
	if _, err := s.Invalidate(ctx, req.RatingKey); err != nil {
		return nil, err
	}
	req.Refresh = true
	e, _, err := s.Get(ctx, req)
	return e, err
}

// drop bumps the key's generation and deletes it from both layers, so no
// fetch that started earlier can write it back.
func (s *Service) drop(key string) (bool, error) {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	s.bump(key)
	found := s.memory.Delete(key)
	if s.disk == nil {
		return found, nil
	}
	onDisk, err := s.disk.Delete(key)
	return found || onDisk, err
}

// Invalidate removes key from every layer, then publishes
// poster_invalidated. It reports whether any layer held the key.
func (s *Service) Invalidate(ctx context.Context, key string) (bool, error) {
	if !validation.IsRatingKey(key) {
		return false, ErrInvalidKey
	}
	found, err := s.drop(key)
	if err != nil {
		return found, err
	}

	s.logger.Info().Str("key", key).Bool("found", found).Msg("Poster invalidated")
	s.publish(ctx, events.PosterInvalidated(key))
	return found, nil
}

// Clear empties every layer, then publishes cache_cleared{posters}. It
// returns the number of entries removed from memory and disk.
func (s *Service) Clear(ctx context.Context) (int, error) {
	s.storeMu.Lock()
	s.epoch.Add(1)
	removed := s.memory.Clear()
	var err error
	if s.disk != nil {
		var n int
		n, err = s.disk.Clear()
		removed += n
	}
	s.storeMu.Unlock()
	if err != nil {
		return removed, err
	}

	s.logger.Info().Int("removed", removed).Msg("Poster cache cleared")
	s.publish(ctx, events.CacheCleared(events.ScopePosters))
	return removed, nil
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("type", ev.Type).Msg("Failed to publish poster event")
	}
}

// Prefetch warms the cache for reqs with at most PrefetchWorkers fetches
// at a time. Results are in request order.
func (s *Service) Prefetch(ctx context.Context, reqs []Request) []models.PrefetchResult {
	results := make([]models.PrefetchResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.PrefetchWorkers)
	for i := range reqs {
		g.Go(func() error {
			results[i].RatingKey = reqs[i].RatingKey
			e, _, err := s.Get(gctx, reqs[i])
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Source = e.Source
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Maintain sweeps expired memory entries, runs disk GC and refreshes the
// disk gauges. The GC service calls it on a timer.
func (s *Service) Maintain() error {
	swept := s.memory.Sweep()
	if s.disk == nil {
		return nil
	}
	if err := s.disk.RunGC(); err != nil {
		return err
	}
	stats := s.disk.Stats()
	s.logger.Debug().Int("swept", swept).Int("disk_entries", stats.Entries).Int64("disk_bytes", stats.Bytes).Msg("Poster cache maintenance")
	return nil
}

// Stats is the /api/posters payload.
type Stats struct {
	Memory     MemoryStats      `json:"memory"`
	Disk       *DiskStats       `json:"disk,omitempty"`
	LayerHits  map[string]int64 `json:"layer_hits"`
	Fetches    map[string]int64 `json:"upstream_fetches"`
	DedupWaits int64            `json:"dedup_waits"`
	InFlight   int64            `json:"in_flight"`
	Sources    []string         `json:"sources"`
}

// Stats returns a snapshot of the cache.
func (s *Service) Stats() Stats {
	st := Stats{
		Memory:     s.memory.Stats(),
		LayerHits:  snapshot(&s.layerHits),
		Fetches:    snapshot(&s.fetches),
		DedupWaits: s.dedupWaits.Load(),
		InFlight:   s.inFlight.Load(),
	}
	if s.disk != nil {
		d := s.disk.Stats()
		st.Disk = &d
	}
	for _, src := range s.sources {
		st.Sources = append(st.Sources, src.Name())
	}
	st.Sources = append(st.Sources, SourcePlaceholder)
	return st
}

func (s *Service) recordLayer(layer string) {
	metrics.RecordPosterRequest(layer)
	if layer == LayerMemory {
		metrics.CacheHits.WithLabelValues(memoryCacheLabel).Inc()
	}
	s.count(&s.layerHits, layer)
}

func (s *Service) count(m *sync.Map, key string) {
	v, _ := m.LoadOrStore(key, new(atomic.Int64))
	v.(*atomic.Int64).Add(1)
}

func snapshot(m *sync.Map) map[string]int64 {
	out := map[string]int64{}
	m.Range(func(k, v interface{}) bool {
		out[k.(string)] = v.(*atomic.Int64).Load()
		return true
	})
	return out
}
