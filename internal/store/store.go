package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ayush/krishi-mitr/backend/internal/logger"
	"github.com/ayush/krishi-mitr/backend/internal/metrics"
	"github.com/ayush/krishi-mitr/backend/internal/models"
)

// ErrNotExist is returned by a Backend that holds no document yet.
var ErrNotExist = errors.New("document does not exist")

// Backend persists the serialized document.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// Mirror receives a copy of every saved snapshot.
type Mirror interface {
	Write(ctx context.Context, data []byte) error
}

// Locker serializes read-modify-write cycles. The returned func releases
// the lock.
type Locker interface {
	Lock(ctx context.Context) (func(), error)
}

// Store loads and saves the marketplace document through a Backend.
// There is no in-memory cache: every call goes to the backend.
type Store struct {
	backend Backend
	locker  Locker
	mirror  Mirror
	log     *logger.Logger
}

type Option func(*Store)

func WithLocker(l Locker) Option { return func(s *Store) { s.locker = l } }

func WithMirror(m Mirror) Option { return func(s *Store) { s.mirror = m } }

func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l.WithComponent("store") }
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{backend: backend, locker: NewMutexLocker(), log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the document. A missing or unparsable document yields an empty
// one; only backend failures are returned as errors.
func (s *Store) Load(ctx context.Context) (*models.Document, error) {
	data, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNotExist) {
		metrics.StoreLoad.WithLabelValues("empty").Inc()
		return models.NewDocument(), nil
	}
	if err != nil {
		metrics.StoreLoad.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load document: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		metrics.StoreLoad.WithLabelValues("empty").Inc()
		return models.NewDocument(), nil
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		metrics.StoreLoad.WithLabelValues("corrupt").Inc()
		s.log.Warnw("document is not valid, continuing with an empty store",
			"error", err, "size", len(data))
		return models.NewDocument(), nil
	}
	doc.Normalize()
	metrics.StoreLoad.WithLabelValues("ok").Inc()
	return &doc, nil
}

// Save overwrites the stored document and forwards it to the mirror.
// Mirror failures are logged and do not fail the save.
func (s *Store) Save(ctx context.Context, doc *models.Document) error {
	doc.Normalize()
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		metrics.StoreSave.WithLabelValues("error").Inc()
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.backend.Write(ctx, data); err != nil {
		metrics.StoreSave.WithLabelValues("error").Inc()
		return fmt.Errorf("save document: %w", err)
	}
	metrics.StoreSave.WithLabelValues("ok").Inc()

	if s.mirror != nil {
		err := s.mirror.Write(ctx, data)
		if err != nil {
			s.log.Warnw("snapshot mirror failed", "error", err)
		}
		metrics.StoreMirror.WithLabelValues(metrics.Result(err)).Inc()
	}
	return nil
}

// Update runs fn against a freshly loaded document under the store lock and
// saves the result. Nothing is saved when fn returns an error.
func (s *Store) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	defer unlock()

	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.Save(ctx, doc)
}

// View runs fn against a freshly loaded document under the store lock.
func (s *Store) View(ctx context.Context, fn func(doc *models.Document) error) error {
	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	defer unlock()

	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Export writes the stored document, byte for byte, to dst.
func (s *Store) Export(ctx context.Context, dst Mirror) (int, error) {
	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire store lock: %w", err)
	}
	defer unlock()

	data, err := s.backend.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("read document: %w", err)
	}
	if err := dst.Write(ctx, data); err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}
	return len(data), nil
}

// Import replaces the stored document with the snapshot held by src.
// A snapshot that does not parse is refused rather than stored.
func (s *Store) Import(ctx context.Context, src Backend) (*models.Document, error) {
	data, err := src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	defer unlock()

	if err := s.Save(ctx, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
