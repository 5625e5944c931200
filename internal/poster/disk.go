// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package poster

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/metrics"
)

var (
	// ErrNotFound is returned when a layer does not hold the key.
	ErrNotFound = errors.New("poster: not found")
	// ErrClosed is returned by a Disk after Close.
	ErrClosed = errors.New("poster: disk cache closed")
)

// Key prefixes. Metadata and bytes are separate keys so Stats and Info can
// iterate without loading image values.
const (
	prefixMeta = "meta/"
	prefixData = "data/"
)

// DiskConfig configures the persisted cache.
type DiskConfig struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM, for tests.
	InMemory bool
	// GCRatio is the value log discard ratio passed to RunValueLogGC.
	GCRatio float64
	// CloseTimeout bounds Close.
	CloseTimeout time.Duration
}

// Disk is the persisted poster layer backed by BadgerDB. Every key is
// written with a TTL matching the entry's ExpiresAt, so expired posters
// disappear without a sweep.
type Disk struct {
	db  *badger.DB
	cfg DiskConfig

	mu     sync.RWMutex
	closed bool
}

// OpenDisk opens (or creates) the BadgerDB store.
func OpenDisk(cfg DiskConfig) (*Disk, error) {
	if cfg.GCRatio <= 0 || cfg.GCRatio >= 1 {
		cfg.GCRatio = 0.5
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = 30 * time.Second
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open poster cache: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).Msg("Poster disk cache opened")
	return &Disk{db: db, cfg: cfg}, nil
}

func (d *Disk) checkOpen() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	return nil
}

// Get loads the entry for key, bytes included.
func (d *Disk) Get(key string) (*Entry, error) {
	return d.load(key, true)
}

// Info loads the entry metadata only.
func (d *Disk) Info(key string) (*Entry, error) {
	return d.load(key, false)
}

func (d *Disk) load(key string, withData bool) (*Entry, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}

	var e Entry
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixMeta + key))
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		}); err != nil {
			return fmt.Errorf("decode poster metadata: %w", err)
		}
		if !withData {
			return nil
		}
		item, err = txn.Get([]byte(prefixData + key))
		if err != nil {
			return err
		}
		e.Data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if e.Expired(time.Now()) {
		return nil, ErrNotFound
	}
	return &e, nil
}

// Put stores e with a TTL derived from its ExpiresAt.
func (d *Disk) Put(e *Entry) error {
	if err := d.checkOpen(); err != nil {
		return err
	}

	ttl := time.Until(e.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	meta, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode poster metadata: %w", err)
	}

	err = d.db.Update(func(txn *badger.Txn) error {
		if err := txn.SetEntry(badger.NewEntry([]byte(prefixData+e.Key), e.Data).WithTTL(ttl)); err != nil {
			return err
		}
		return txn.SetEntry(badger.NewEntry([]byte(prefixMeta+e.Key), meta).WithTTL(ttl))
	})
	if err != nil {
		return fmt.Errorf("write poster %s: %w", e.Key, err)
	}
	return nil
}

// Delete removes key. It reports whether the key was present.
func (d *Disk) Delete(key string) (bool, error) {
	if err := d.checkOpen(); err != nil {
		return false, err
	}

	found := false
	err := d.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(prefixMeta + key))
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		if err := txn.Delete([]byte(prefixMeta + key)); err != nil {
			return err
		}
		return txn.Delete([]byte(prefixData + key))
	})
	if err != nil {
		return false, fmt.Errorf("delete poster %s: %w", key, err)
	}
	return found, nil
}

// Clear drops every poster and returns how many were stored.
func (d *Disk) Clear() (int, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}

	var keys [][]byte
	n := 0
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for _, prefix := range [][]byte{[]byte(prefixMeta), []byte(prefixData)} {
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				keys = append(keys, it.Item().KeyCopy(nil))
				if string(prefix) == prefixMeta {
					n++
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan poster cache: %w", err)
	}

	wb := d.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return 0, fmt.Errorf("clear poster cache: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("clear poster cache: %w", err)
	}

	metrics.UpdatePosterDiskGauges(0, d.size())
	return n, nil
}

func (d *Disk) count() int {
	n := 0
	if err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixMeta)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	}); err != nil {
		logging.Warn().Err(err).Msg("Poster disk cache count failed")
	}
	return n
}

func (d *Disk) size() int64 {
	lsm, vlog := d.db.Size()
	return lsm + vlog
}

// DiskStats describes the persisted layer.
type DiskStats struct {
	Entries int   `json:"entries"`
	Bytes   int64 `json:"bytes"`
}

// Stats counts live entries and reports the on-disk size.
func (d *Disk) Stats() DiskStats {
	if d.checkOpen() != nil {
		return DiskStats{}
	}
	s := DiskStats{Entries: d.count(), Bytes: d.size()}
	metrics.UpdatePosterDiskGauges(int64(s.Entries), s.Bytes)
	return s
}

// RunGC rewrites value log files until there is nothing left to reclaim.
func (d *Disk) RunGC() error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if d.cfg.InMemory {
		return nil
	}

	rewrites := 0
	for {
		err := d.db.RunValueLogGC(d.cfg.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			metrics.PosterDiskGCRuns.WithLabelValues("error").Inc()
			return fmt.Errorf("run value log GC: %w", err)
		}
		rewrites++
	}

	result := "nothing"
	if rewrites > 0 {
		result = "rewritten"
	}
	metrics.PosterDiskGCRuns.WithLabelValues(result).Inc()
	logging.Debug().Int("rewrites", rewrites).Msg("Poster disk cache GC finished")
	return nil
}

// Close closes the database, giving up after CloseTimeout.
func (d *Disk) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- d.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close poster cache: %w", err)
		}
		logging.Info().Msg("Poster disk cache closed")
		return nil
	case <-time.After(d.cfg.CloseTimeout):
		return fmt.Errorf("poster cache close timed out after %v", d.cfg.CloseTimeout)
	}
}
