package catalog

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/charmap"
)

func newTestService(t *testing.T, path string) *Service {
	t.Helper()
	return NewService(Config{DataPath: path}, zap.NewNop())
}

func rewriteLatin1(t *testing.T, path, content string) {
	t.Helper()
	data, err := charmap.ISO8859_1.NewEncoder().String(content)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	// Make sure the stamp changes even on coarse mtime filesystems.
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))
}

func TestServiceMemoizesPerVersion(t *testing.T) {
	path := writeLatin1(t, sampleSheet)
	svc := newTestService(t, path)
	ctx := context.Background()

	first, err := svc.Catalog(ctx)
	require.NoError(t, err)
	second, err := svc.Catalog(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, svc.loads.Load())
	assert.Equal(t, 1, svc.cache.len())
}

func TestServiceReloadsChangedFile(t *testing.T) {
	path := writeLatin1(t, sampleSheet)
	svc := newTestService(t, path)
	ctx := context.Background()

	first, err := svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, first.Products, 3)

	rewriteLatin1(t, path, strings.TrimSuffix(sampleSheet, "Melkfett Plus;Milchsäure;Aloe Vera;Reinigt und pflegt;x;x;x;x\n"))

	second, err := svc.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, second.Products, 2)
	assert.EqualValues(t, 2, svc.loads.Load())
	assert.Equal(t, 1, svc.cache.len(), "older versions are dropped")
}

func TestServiceInvalidateAndUpdateConfig(t *testing.T) {
	path := writeLatin1(t, sampleSheet)
	svc := newTestService(t, path)
	ctx := context.Background()

	_, err := svc.Catalog(ctx)
	require.NoError(t, err)
	svc.Invalidate()
	_, err = svc.Catalog(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, svc.loads.Load())

	other := writeLatin1(t, strings.Replace(sampleSheet, "Euter Balsam", "Euter Creme", 1))
	cfg := svc.Config()
	cfg.DataPath = other
	svc.UpdateConfig(cfg)

	cat, err := svc.Catalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Euter Creme", cat.Products[0].Name.String())
	assert.Equal(t, other, svc.Config().DataPath)
}

func TestServiceConcurrentCallsLoadOnce(t *testing.T) {
	svc := newTestService(t, writeLatin1(t, sampleSheet))

	var wg sync.WaitGroup
	results := make([]*Catalog, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cat, err := svc.Catalog(context.Background())
			assert.NoError(t, err)
			results[i] = cat
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, svc.loads.Load())
	for _, cat := range results[1:] {
		assert.Same(t, results[0], cat)
	}
}

func TestServiceErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newTestService(t, writeLatin1(t, sampleSheet))
	_, err := svc.Catalog(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	svc = newTestService(t, t.TempDir())
	_, err = svc.Catalog(context.Background())
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))

	broken := writeLatin1(t, strings.Replace(sampleSheet, "Auslobung", "Claim", 1))
	svc = newTestService(t, broken)
	_, err = svc.Catalog(context.Background())
	var mismatch *SchemaMismatchError
	assert.True(t, errors.As(err, &mismatch))
	assert.Zero(t, svc.cache.len(), "failed loads are not cached")
}

func TestServiceQuery(t *testing.T) {
	svc := newTestService(t, writeLatin1(t, sampleSheet))
	sel := Selection{"Kategorie": {"Feuchtigkeit"}, "Tierart": {"Kuh"}}

	res, err := svc.Query(context.Background(), sel)
	require.NoError(t, err)

	assert.Equal(t, []string{"Euter Balsam", "Melkfett Plus"}, names(res.Products))
	assert.Equal(t, 3, res.Total)
	sel["Tierart"] = nil
	assert.Equal(t, []string{"Kuh"}, res.Selection["Tierart"], "result keeps its own copy")
	assert.Empty(t, res.Unknown)
}

func TestServiceQueryReportsUnknownKeys(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(Config{DataPath: writeLatin1(t, sampleSheet)}, zap.New(core))

	res, err := svc.Query(context.Background(), Selection{"Kategorie": {"Glanz", "Reinigung"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Melkfett Plus"}, names(res.Products))
	assert.Equal(t, []string{"Kategorie | Glanz"}, res.Unknown)
	assert.Equal(t, 1, logs.FilterMessage("unknown filter values").Len())
}

func TestServiceLogsCoercionWarnings(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	coerced := strings.Replace(sampleSheet, "Zitzen Dip;Chlorhexidin;", "Zitzen Dip;;", 1)
	svc := NewService(Config{DataPath: writeLatin1(t, coerced)}, zap.New(core))

	_, err := svc.Catalog(context.Background())
	require.NoError(t, err)

	entries := logs.FilterMessage("boolean in text field").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "catalog", entries[0].LoggerName)
}
