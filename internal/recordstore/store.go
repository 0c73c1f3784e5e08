// Package recordstore persists snapshots of records in a bbolt database.
//
// Only the values of a record are persisted: names are erased like in any other serialized form.
// Each snapshot is identified by a ULID and can optionally be reached through a label designating the
// latest snapshot saved with it.
package recordstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/inoxlang/recordkit/internal/codec"
	"github.com/inoxlang/recordkit/internal/record"
	"github.com/inoxlang/recordkit/internal/slog"
	"github.com/inoxlang/recordkit/internal/utils"
	"github.com/klauspost/compress/zstd"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/tinylru"
	"go.etcd.io/bbolt"
)

const (
	SRC_NAME = "/recordstore"

	DEFAULT_OPEN_TIMEOUT = time.Second
	DEFAULT_CACHE_SIZE   = 64
	DB_FILE_PERM         = 0o600
	DB_DIR_PERM          = 0o700
)

var (
	SNAPSHOTS_BUCKET = []byte("snapshots")
	LABELS_BUCKET    = []byte("labels")

	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrCorruptSnapshot  = errors.New("corrupt snapshot")
	ErrUnknownCodec     = errors.New("unknown codec")
	ErrStoreClosed      = errors.New("store is closed")
)

type SnapshotID = ulid.ULID

type StoreConfig struct {
	Path     string
	Codec    codec.Codec //defaults to codec.Default
	Compress bool

	Logger zerolog.Logger
	Levels *slog.Levels

	// timeout for acquiring the lock on the database file, defaults to DEFAULT_OPEN_TIMEOUT.
	Timeout time.Duration

	// maximum number of decoded payloads kept in memory, defaults to DEFAULT_CACHE_SIZE.
	// A negative value disables the cache.
	CacheSize int
}

type Store struct {
	db       *bbolt.DB
	path     string
	codec    codec.Codec
	compress bool
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
	logger   zerolog.Logger
	closed   atomic.Bool

	payloads    tinylru.LRU // SnapshotID -> cachedPayload
	cacheActive bool
}

type cachedPayload struct {
	codecName  string
	valueCount uint64
	payload    []byte //uncompressed
}

type SnapshotInfo struct {
	ID         SnapshotID
	Label      string //empty if the snapshot is not designated by a label
	Codec      string
	ValueCount uint64
	Compressed bool
	Size       int //size of the frame in bytes
}

func (i SnapshotInfo) CreatedAt() time.Time {
	return ulid.Time(i.ID.Time())
}

// Open opens the database at config.Path, the file and its missing parent directories are created if needed.
func Open(config StoreConfig) (_ *Store, finalErr error) {
	if config.Codec == nil {
		config.Codec = codec.Default
	}
	if config.Timeout == 0 {
		config.Timeout = DEFAULT_OPEN_TIMEOUT
	}
	if config.CacheSize == 0 {
		config.CacheSize = DEFAULT_CACHE_SIZE
	}

	logger := slog.ChildLoggerForSource(config.Logger, SRC_NAME, config.Levels)

	if err := os.MkdirAll(filepath.Dir(config.Path), DB_DIR_PERM); err != nil {
		return nil, fmt.Errorf("failed to create the directory of the record store %s: %w", config.Path, err)
	}

	db, err := bbolt.Open(config.Path, DB_FILE_PERM, &bbolt.Options{Timeout: config.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the record store %s: %w", config.Path, err)
	}

	defer func() {
		if finalErr != nil {
			db.Close()
		}
	}()

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(SNAPSHOTS_BUCKET); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(LABELS_BUCKET)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize the record store: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, err
	}

	logger.Debug().Str("path", config.Path).Str("codec", config.Codec.Name()).Bool("compress", config.Compress).Msg("record store opened")

	store := &Store{
		db:          db,
		path:        config.Path,
		codec:       config.Codec,
		compress:    config.Compress,
		encoder:     encoder,
		decoder:     decoder,
		logger:      logger,
		cacheActive: config.CacheSize > 0,
	}

	if store.cacheActive {
		store.payloads.Resize(config.CacheSize)
	}

	return store, nil
}

func (s *Store) Path() string {
	return s.path
}

// Close closes the database, calling Close several times is allowed.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	encoderErr := s.encoder.Close()
	s.decoder.Close()
	dbErr := s.db.Close()

	err := utils.CombineErrors(encoderErr, dbErr)
	if err != nil {
		s.logger.Err(err).Msg("failed to close the record store")
	} else {
		s.logger.Debug().Msg("record store closed")
	}
	return err
}

// Put saves a snapshot of the values of r and returns its id. If label is not empty it will designate the new
// snapshot.
func Put[T any](ctx context.Context, s *Store, r *record.Record[T], label string) (SnapshotID, error) {
	if err := s.checkUsable(ctx); err != nil {
		return SnapshotID{}, err
	}

	start := time.Now()

	payload, err := s.codec.Marshal(r)
	if err != nil {
		return SnapshotID{}, fmt.Errorf("failed to encode the record: %w", err)
	}

	f := frame{
		valueCount: uint64(r.Len()),
		codecName:  s.codec.Name(),
		label:      label,
		payload:    payload,
	}

	if s.compress {
		f.flags |= FLAG_ZSTD
		f.payload = s.encoder.EncodeAll(payload, nil)
	}

	data, err := f.encode()
	if err != nil {
		return SnapshotID{}, err
	}

	id := ulid.Make()

	err = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(SNAPSHOTS_BUCKET).Put(id[:], data); err != nil {
			return err
		}
		if label != "" {
			return tx.Bucket(LABELS_BUCKET).Put([]byte(label), id[:])
		}
		return nil
	})
	if err != nil {
		return SnapshotID{}, fmt.Errorf("failed to save the snapshot: %w", err)
	}

	s.logger.Debug().
		Str("id", id.String()).
		Str("label", label).
		Int("values", r.Len()).
		Int("size", len(data)).
		Dur("duration", time.Since(start)).
		Msg("snapshot saved")

	return id, nil
}

// Get loads the snapshot with the given id into a new record, the slots of the record are unnamed.
func Get[T any](ctx context.Context, s *Store, id SnapshotID) (*record.Record[T], error) {
	if err := s.checkUsable(ctx); err != nil {
		return nil, err
	}

	cached, err := s.loadPayload(id)
	if err != nil {
		return nil, err
	}

	c, ok := codec.ByName(cached.codecName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, cached.codecName)
	}

	r := record.New[T]()
	if err := c.Unmarshal(cached.payload, r); err != nil {
		return nil, fmt.Errorf("failed to decode the values of snapshot %s: %w", id, err)
	}

	if uint64(r.Len()) != cached.valueCount {
		return nil, fmt.Errorf("%w: %d values were expected, got %d", ErrCorruptSnapshot, cached.valueCount, r.Len())
	}

	s.logger.Debug().Str("id", id.String()).Int("values", r.Len()).Msg("snapshot loaded")
	return r, nil
}

// loadPayload returns the verified and uncompressed payload of a snapshot, the result should not be modified.
func (s *Store) loadPayload(id SnapshotID) (cachedPayload, error) {
	if s.cacheActive {
		if v, ok := s.payloads.Get(id); ok {
			return v.(cachedPayload), nil
		}
	}

	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		stored := tx.Bucket(SNAPSHOTS_BUCKET).Get(id[:])
		if stored == nil {
			return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		//the slice is only valid during the transaction.
		data = append([]byte(nil), stored...)
		return nil
	})
	if err != nil {
		return cachedPayload{}, err
	}

	f, err := decodeFrame(data)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id.String()).Msg("failed to decode a snapshot")
		return cachedPayload{}, err
	}

	payload := f.payload
	if f.compressed() {
		payload, err = s.decoder.DecodeAll(f.payload, nil)
		if err != nil {
			return cachedPayload{}, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
		}
	}

	result := cachedPayload{
		codecName:  f.codecName,
		valueCount: f.valueCount,
		payload:    payload,
	}

	if s.cacheActive {
		s.payloads.Set(id, result)
	}
	return result, nil
}

// Resolve returns the id designated by idOrLabel: a snapshot id or a label.
func (s *Store) Resolve(ctx context.Context, idOrLabel string) (SnapshotID, error) {
	if err := s.checkUsable(ctx); err != nil {
		return SnapshotID{}, err
	}

	if id, err := ulid.ParseStrict(idOrLabel); err == nil {
		return id, nil
	}

	var id SnapshotID
	err := s.db.View(func(tx *bbolt.Tx) error {
		stored := tx.Bucket(LABELS_BUCKET).Get([]byte(idOrLabel))
		if len(stored) != len(id) {
			return fmt.Errorf("%w: no snapshot has the label %q", ErrSnapshotNotFound, idOrLabel)
		}
		copy(id[:], stored)
		return nil
	})
	return id, err
}

// List returns information about all snapshots, ordered by creation time.
func (s *Store) List(ctx context.Context) ([]SnapshotInfo, error) {
	if err := s.checkUsable(ctx); err != nil {
		return nil, err
	}

	var infos []SnapshotInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		labels := tx.Bucket(LABELS_BUCKET)

		return tx.Bucket(SNAPSHOTS_BUCKET).ForEach(func(k, v []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			var id SnapshotID
			if len(k) != len(id) {
				return fmt.Errorf("%w: invalid key %x", ErrCorruptSnapshot, k)
			}
			copy(id[:], k)

			f, err := decodeFrame(v)
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", id, err)
			}

			//a label moved to a newer snapshot no longer designates this one.
			label := ""
			if f.label != "" && bytes.Equal(labels.Get([]byte(f.label)), id[:]) {
				label = f.label
			}

			infos = append(infos, SnapshotInfo{
				ID:         id,
				Label:      label,
				Codec:      f.codecName,
				ValueCount: f.valueCount,
				Compressed: f.compressed(),
				Size:       len(v),
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// Delete removes a snapshot, the label designating it is also removed.
func (s *Store) Delete(ctx context.Context, id SnapshotID) error {
	if err := s.checkUsable(ctx); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		snapshots := tx.Bucket(SNAPSHOTS_BUCKET)
		data := snapshots.Get(id[:])
		if data == nil {
			return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}

		if f, err := decodeFrame(data); err == nil && f.label != "" {
			labels := tx.Bucket(LABELS_BUCKET)
			if target := labels.Get([]byte(f.label)); string(target) == string(id[:]) {
				if err := labels.Delete([]byte(f.label)); err != nil {
					return err
				}
			}
		}

		return snapshots.Delete(id[:])
	})
	if err != nil {
		return err
	}

	if s.cacheActive {
		s.payloads.Delete(id)
	}

	s.logger.Debug().Str("id", id.String()).Msg("snapshot deleted")
	return nil
}

func (s *Store) checkUsable(ctx context.Context) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	return ctx.Err()
}
