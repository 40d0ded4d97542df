package store

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patient-records/internal/logger"
)

type sample struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Score float32 `json:"score"`
	Flag  bool    `json:"flag"`
}

func openTemp(t *testing.T, opts Options) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "patient_db")
	s, err := Open(dir, opts)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func putRaw(t *testing.T, s *Store, key, value string) {
	t.Helper()
	_, err := s.db.Exec("INSERT INTO kv (key, value) VALUES (?, ?)", key, []byte(value))
	require.NoError(t, err)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	_, dir := openTemp(t, Options{})

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(dir, FileName))
	assert.NoError(t, err)
}

func TestOpen_RequiresDirectory(t *testing.T) {
	_, err := Open("", Options{})
	assert.Error(t, err)
}

func TestPutGet(t *testing.T) {
	s, _ := openTemp(t, Options{})
	ctx := context.Background()

	want := sample{Name: "a", Count: 3, Score: 1.5, Flag: true}
	require.NoError(t, s.Put(ctx, "sample_1", want))

	var got sample
	require.NoError(t, s.Get(ctx, "sample_1", &got))
	assert.Equal(t, want, got)

	want.Count = 4
	require.NoError(t, s.Put(ctx, "sample_1", want), "put overwrites")
	require.NoError(t, s.Get(ctx, "sample_1", &got))
	assert.Equal(t, 4, got.Count)

	assert.ErrorIs(t, s.Get(ctx, "missing", &got), ErrNotFound)
	assert.ErrorIs(t, s.Put(ctx, "", want), ErrEmptyKey)
}

func TestReopen_PreservesRecords(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "patient_db")
	ctx := context.Background()

	s, err := Open(dir, Options{})
	require.NoError(t, err)
	records := map[string]sample{
		"sample_1": {Name: "one", Count: 1},
		"sample_2": {Name: "two", Score: 0.125},
		"sample_3": {},
	}
	for k, v := range records {
		require.NoError(t, s.Put(ctx, k, v))
	}
	require.NoError(t, s.Close())

	reopened, err := Open(dir, Options{})
	require.NoError(t, err)
	defer reopened.Close()

	got := map[string]sample{}
	_, err = ScanFilter(ctx, reopened, ScanOptions{}, func(key string, rec *sample) bool {
		got[key] = *rec
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestDelete(t *testing.T) {
	s, _ := openTemp(t, Options{})
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "sample_1", sample{Name: "gone"}))
	require.NoError(t, s.Delete(ctx, "sample_1"))

	all, err := ScanFilter[sample](ctx, s, ScanOptions{}, nil)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.NoError(t, s.Delete(ctx, "never_written"))
	assert.ErrorIs(t, s.Delete(ctx, ""), ErrEmptyKey)
}

func TestScanFilter_PrefixAndPredicate(t *testing.T) {
	s, _ := openTemp(t, Options{})
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "patient_1", sample{Name: "alice"}))
	require.NoError(t, s.Put(ctx, "patient_2", sample{Name: "bob"}))
	require.NoError(t, s.Put(ctx, "patientX3", sample{Name: "not a prefix match"}))
	require.NoError(t, s.Put(ctx, "medication_1", sample{Name: "pill"}))

	patients, err := ScanFilter[sample](ctx, s, ScanOptions{Prefix: "patient_"}, nil)
	require.NoError(t, err)
	names := []string{}
	for _, p := range patients {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"alice", "bob"}, names)

	onlyBob, err := ScanFilter(ctx, s, ScanOptions{}, func(_ string, rec *sample) bool {
		return rec.Name == "bob"
	})
	require.NoError(t, err)
	require.Len(t, onlyBob, 1)

	n, err := s.Count(ctx, "patient_")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = s.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestScanFilter_DecodePolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("skip with log", func(t *testing.T) {
		var buf bytes.Buffer
		s, _ := openTemp(t, Options{DecodePolicy: SkipWithLog, Logger: logger.NewZerolog(&buf, logger.DebugLevel)})
		require.NoError(t, s.Put(ctx, "k_1", sample{Name: "ok"}))
		putRaw(t, s, "k_2", "{not json")

		got, err := ScanFilter[sample](ctx, s, ScanOptions{}, nil)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Contains(t, buf.String(), "skipping undecodable entry")
		assert.Contains(t, buf.String(), "k_2")
	})

	t.Run("skip silently", func(t *testing.T) {
		var buf bytes.Buffer
		s, _ := openTemp(t, Options{DecodePolicy: SkipSilently, Logger: logger.NewZerolog(&buf, logger.InfoLevel)})
		putRaw(t, s, "k_1", `{"name": 12}`)

		got, err := ScanFilter[sample](ctx, s, ScanOptions{}, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Empty(t, buf.String())
	})

	t.Run("fail fast", func(t *testing.T) {
		s, _ := openTemp(t, Options{DecodePolicy: FailFast})
		require.NoError(t, s.Put(ctx, "k_1", sample{Name: "ok"}))
		putRaw(t, s, "k_2", "[]")

		_, err := ScanFilter[sample](ctx, s, ScanOptions{}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "k_2")
	})
}

func TestParseDecodePolicy(t *testing.T) {
	for _, p := range []DecodePolicy{SkipWithLog, SkipSilently, FailFast} {
		got, err := ParseDecodePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := ParseDecodePolicy("")
	require.NoError(t, err)
	assert.Equal(t, SkipWithLog, got)

	_, err = ParseDecodePolicy("panic")
	assert.Error(t, err)
}

func TestClosedStore(t *testing.T) {
	s, _ := openTemp(t, Options{})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	ctx := context.Background()
	assert.ErrorIs(t, s.Put(ctx, "k", sample{}), ErrClosed)
	assert.ErrorIs(t, s.Delete(ctx, "k"), ErrClosed)
	_, err := ScanFilter[sample](ctx, s, ScanOptions{}, nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPut_RejectsNonFiniteFloats(t *testing.T) {
	s, _ := openTemp(t, Options{})
	ctx := context.Background()

	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		err := s.Put(ctx, "sample_1", sample{Name: "x", Score: float32(v)})
		assert.Error(t, err, "score %v", v)
	}

	n, err := s.Count(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n, "nothing unreadable is stored")
}

func TestClose_ConcurrentWithWrites(t *testing.T) {
	s, _ := openTemp(t, Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			err := s.Put(ctx, "sample_1", sample{Count: i})
			if err != nil {
				assert.ErrorIs(t, err, ErrClosed)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		assert.NoError(t, s.Close())
	}()
	wg.Wait()

	assert.ErrorIs(t, s.Put(ctx, "sample_2", sample{}), ErrClosed)
}
