// SPDX-License-Identifier: EPL-2.0

// Package library stores saved tracks: the encoded audio together with a
// small metadata record.
//
// Tracks live in a badger database under two keys per track,
// "track:<id>" for the msgpack encoded Track and "blob:<id>" for the audio
// bytes. List returns the newest track first.
package library

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ik5/audibites/audio"
)

const (
	trackPrefix = "track:"
	blobPrefix  = "blob:"
	sniffBytes  = 64
)

// Source records how a track entered the library.
type Source string

const (
	SourceRecording Source = "recording"
	SourceUpload    Source = "upload"
	SourceEdited    Source = "edited"
)

func (s Source) Valid() bool {
	switch s {
	case SourceRecording, SourceUpload, SourceEdited:
		return true
	}

	return false
}

type Track struct {
	ID        string    `msgpack:"id" json:"id"`
	Name      string    `msgpack:"name" json:"name"`
	CreatedAt time.Time `msgpack:"created_at" json:"created_at"`
	// Duration in seconds, 0 when the audio could not be decoded.
	Duration float64 `msgpack:"duration" json:"duration"`
	Source   Source  `msgpack:"source" json:"source"`
	// Format is the detected container, empty when unknown.
	Format string `msgpack:"format,omitempty" json:"format,omitempty"`
	Size   int    `msgpack:"size" json:"size"`
}

type Options struct {
	// Dir holds the badger files. Required unless InMemory is set.
	Dir      string
	InMemory bool

	// Registry measures the duration of added tracks. Without one every
	// track has duration 0.
	Registry *audio.Registry

	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type Library struct {
	db  *badger.DB
	reg *audio.Registry
	log *slog.Logger
	now func() time.Time
}

func Open(opts Options) (*Library, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, ErrNoStorage
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	dbOpts = dbOpts.WithLogger(badgerLogger{log: log.With("component", "badger")})

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}

	return &Library{db: db, reg: opts.Registry, log: log, now: now}, nil
}

func (l *Library) Close() error {
	return l.db.Close()
}

// Add stores data as a new track and returns its metadata.
func (l *Library) Add(_ context.Context, name string, data []byte, src Source) (Track, error) {
	if len(data) == 0 {
		return Track{}, ErrEmptyData
	}
	if !src.Valid() {
		return Track{}, fmt.Errorf("%w: %q", ErrInvalidSource, src)
	}

	t := Track{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: l.now().UTC(),
		Source:    src,
		Size:      len(data),
	}
	t.Format, t.Duration = l.measure(data)

	meta, err := msgpack.Marshal(&t)
	if err != nil {
		return Track{}, fmt.Errorf("encode track: %w", err)
	}

	err = l.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(trackPrefix+t.ID), meta); err != nil {
			return err
		}
		return txn.Set([]byte(blobPrefix+t.ID), data)
	})
	if err != nil {
		return Track{}, fmt.Errorf("store track: %w", err)
	}

	l.log.Info("track added",
		"id", t.ID,
		"name", t.Name,
		"source", string(t.Source),
		"format", t.Format,
		"duration", t.Duration,
	)

	return t, nil
}

// measure returns the container and duration of data. Undecodable audio is
// still stored, with duration 0.
func (l *Library) measure(data []byte) (string, float64) {
	if l.reg == nil {
		return "", 0
	}

	format, _, _ := l.reg.Detect(data[:min(len(data), sniffBytes)])

	buf, err := l.reg.Decode(data)
	if err != nil {
		l.log.Warn("track duration unknown", "format", format, "error", err)
		return format, 0
	}

	return format, buf.Duration()
}

func (l *Library) Get(_ context.Context, id string) (Track, error) {
	var t Track

	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(trackPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &t)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Track{}, ErrNotFound
	}
	if err != nil {
		return Track{}, fmt.Errorf("get track %s: %w", id, err)
	}

	return t, nil
}

// Data returns the encoded audio of a track.
func (l *Library) Data(_ context.Context, id string) ([]byte, error) {
	var data []byte

	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(blobPrefix + id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get track data %s: %w", id, err)
	}

	return data, nil
}

// List returns every track, newest first.
func (l *Library) List(_ context.Context) ([]Track, error) {
	var tracks []Track
	prefix := []byte(trackPrefix)

	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var t Track
			err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &t)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			tracks = append(tracks, t)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}

	slices.SortStableFunc(tracks, func(a, b Track) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return tracks, nil
}

// Delete removes a track and its audio.
func (l *Library) Delete(_ context.Context, id string) error {
	err := l.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(trackPrefix + id)); err != nil {
			return err
		}
		if err := txn.Delete([]byte(trackPrefix + id)); err != nil {
			return err
		}
		return txn.Delete([]byte(blobPrefix + id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete track %s: %w", id, err)
	}

	l.log.Info("track deleted", "id", id)

	return nil
}

// UploadName derives a track name from an uploaded file name by dropping
// the directory and the last extension.
func UploadName(filename string) string {
	if filename == "" {
		return ""
	}

	base := filepath.Base(filename)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}

	return base
}
