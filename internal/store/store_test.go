package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ayush/krishi-mitr/backend/internal/logger"
	"github.com/ayush/krishi-mitr/backend/internal/models"
)

type memoryBackend struct {
	mu     sync.Mutex
	data   []byte
	writes int
	err    error
}

func (m *memoryBackend) Read(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.data == nil {
		return nil, ErrNotExist
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memoryBackend) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data = append([]byte(nil), data...)
	m.writes++
	return nil
}

func newFileStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.json")
	return New(NewFileBackend(path)), path
}

func TestLoadMissingFile(t *testing.T) {
	s, _ := newFileStore(t)

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Users)
	assert.NotNil(t, doc.Users)
	assert.NotNil(t, doc.Crops)
	assert.Nil(t, doc.Prices)
}

func TestLoadCorruptFileLogsWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users": [`), 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	s := New(NewFileBackend(path), WithLogger(&logger.Logger{SugaredLogger: zap.New(core).Sugar()}))

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Users)
	assert.Empty(t, doc.Crops)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "not valid")
}

func TestLoadWrongShapeIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users": "nobody"}`), 0o644))
	s := New(NewFileBackend(path))

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Users)
}

func TestLoadFillsMissingCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users": [{"username": "farmer1", "password": "secure123"}]}`), 0o644))
	s := New(NewFileBackend(path))

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Users, 1)
	assert.NotNil(t, doc.Crops)
}

func TestLoadBackendError(t *testing.T) {
	s := New(&memoryBackend{err: errors.New("connection refused")})

	_, err := s.Load(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestSaveWritesAllCollections(t *testing.T) {
	s, path := newFileStore(t)

	require.NoError(t, s.Save(context.Background(), &models.Document{}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"users": [], "crops": []}`, string(raw))
}

func TestSaveThenLoad(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()
	price := models.Amount(12.5)
	doc := models.NewDocument()
	doc.Users = append(doc.Users, models.User{Username: "farmer1", Password: "secure123"})
	doc.Crops = append(doc.Crops, models.Crop{ID: "c1", Owner: "farmer1", Name: "Wheat", Type: models.CropResell, Price: &price})
	doc.Prices = []models.Price{models.Price(`{"crop":"Wheat","category":"Cereals","msp":2275,"market_price":2400}`)}
	require.NoError(t, s.Save(ctx, doc))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.Users, loaded.Users)
	assert.Equal(t, doc.Crops, loaded.Crops)
	require.Len(t, loaded.Prices, 1)
	assert.JSONEq(t, string(doc.Prices[0]), string(loaded.Prices[0]))
}

func TestUpdateKeepsLooselyTypedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	seed := `{
		"users": [{"username": "farmer1", "password": "secure123"}],
		"crops": [{"id": "c1", "owner": "farmer1", "name": "Rice", "type": "resell", "price": "2400", "exchange_for": null}],
		"prices": [{"crop": "Wheat", "msp": "2275", "unit": "quintal"}, "n/a"]
	}`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))
	s := New(NewFileBackend(path))
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, func(doc *models.Document) error {
		doc.Users = append(doc.Users, models.User{Username: "farmer2", Password: "secure456"})
		return nil
	}))

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Users, 2)
	assert.Equal(t, "farmer1", doc.Users[0].Username)
	require.Len(t, doc.Crops, 1)
	require.NotNil(t, doc.Crops[0].Price)
	assert.Equal(t, models.Amount(2400), *doc.Crops[0].Price)
	require.Len(t, doc.Prices, 2)
	assert.JSONEq(t, `{"crop": "Wheat", "msp": "2275", "unit": "quintal"}`, string(doc.Prices[0]))
	assert.JSONEq(t, `"n/a"`, string(doc.Prices[1]))
}

func TestUpdateDoesNotSaveOnError(t *testing.T) {
	backend := &memoryBackend{}
	s := New(backend)
	ctx := context.Background()

	err := s.Update(ctx, func(doc *models.Document) error {
		doc.Users = append(doc.Users, models.User{Username: "ghost"})
		return fmt.Errorf("rejected")
	})
	assert.EqualError(t, err, "rejected")
	assert.Equal(t, 0, backend.writes)
}

func TestConcurrentUpdatesKeepEveryWrite(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.Update(ctx, func(doc *models.Document) error {
				doc.Users = append(doc.Users, models.User{Username: fmt.Sprintf("user%02d", i)})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Users, 40)
}

func TestSaveMirrorsSnapshot(t *testing.T) {
	mirror := &memoryBackend{}
	primary := &memoryBackend{}
	s := New(primary, WithMirror(mirror))

	require.NoError(t, s.Save(context.Background(), models.NewDocument()))
	assert.Equal(t, primary.data, mirror.data)
}

func TestMirrorFailureDoesNotFailSave(t *testing.T) {
	primary := &memoryBackend{}
	s := New(primary, WithMirror(&memoryBackend{err: errors.New("bucket gone")}))

	require.NoError(t, s.Save(context.Background(), models.NewDocument()))
	assert.Equal(t, 1, primary.writes)
}

func TestExport(t *testing.T) {
	primary := &memoryBackend{data: []byte(`{"users":[],"crops":[]}`)}
	s := New(primary)
	dst := &memoryBackend{}

	n, err := s.Export(context.Background(), dst)
	require.NoError(t, err)
	assert.Equal(t, len(primary.data), n)
	assert.Equal(t, primary.data, dst.data)

	_, err = New(&memoryBackend{}).Export(context.Background(), dst)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestImport(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()
	src := &memoryBackend{data: []byte(`{"users":[{"username":"farmer1","password":"secure123"}]}`)}

	doc, err := s.Import(ctx, src)
	require.NoError(t, err)
	assert.Len(t, doc.Users, 1)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "farmer1", loaded.Users[0].Username)
	assert.NotNil(t, loaded.Crops)
}

func TestImportRefusesCorruptSnapshot(t *testing.T) {
	primary := &memoryBackend{}
	s := New(primary)

	_, err := s.Import(context.Background(), &memoryBackend{data: []byte("{oops")})
	assert.ErrorContains(t, err, "decode snapshot")
	assert.Equal(t, 0, primary.writes)
}
