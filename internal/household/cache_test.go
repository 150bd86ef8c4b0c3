package household

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	domain "gohousehold/domain/household"
	"gohousehold/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheReusesTable(t *testing.T) {
	cache := NewCache(fixtureCSV(t), domain.DefaultSchema())

	first, err := cache.Shaper()
	require.NoError(t, err)
	second, err := cache.Shaper()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Loads())
}

func TestCacheReloadsOnModification(t *testing.T) {
	path := fixtureCSV(t)
	cache := NewCache(path, domain.DefaultSchema())

	table, err := cache.Table()
	require.NoError(t, err)
	require.Equal(t, len(fixtureRows), table.Len())

	require.NoError(t, os.WriteFile(path, []byte("동별(2),동별(3),구분별(2),구분별(3),2010\n종로구,소계,소계,소계,5\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	table, err = cache.Table()
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, int64(5), table.Records[0].Value)
	assert.Equal(t, 2, cache.Loads())
}

func TestCacheConcurrentCallers(t *testing.T) {
	cache := NewCache(fixtureCSV(t), domain.DefaultSchema())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Shaper()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, cache.Loads(), 1)
	_, err := cache.Shaper()
	require.NoError(t, err)
}

func TestCacheMissingFile(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "gone.csv"), domain.DefaultSchema())
	assert.Equal(t, filepath.Base(cache.Path()), "gone.csv")

	_, err := cache.Shaper()
	require.Error(t, err)
	assert.Equal(t, errors.CodeFileNotFound, errors.GetCode(err))
	assert.Equal(t, 0, cache.Loads())
}
