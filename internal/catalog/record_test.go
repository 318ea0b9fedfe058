package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRecords(t *testing.T) {
	t.Parallel()

	t.Run("short row pads with empty strings", func(t *testing.T) {
		t.Parallel()
		rows := [][]string{
			{"name", "category"},
			{"Cafe A"},
		}
		cat := BuildRecords(rows)
		require.Len(t, cat, 1)
		assert.Equal(t, StoreRecord{"name": "Cafe A", "category": ""}, cat[0])
	})

	t.Run("extra cells beyond header are ignored", func(t *testing.T) {
		t.Parallel()
		rows := [][]string{
			{"name"},
			{"Cafe A", "stray"},
		}
		cat := BuildRecords(rows)
		require.Len(t, cat, 1)
		assert.Equal(t, StoreRecord{"name": "Cafe A"}, cat[0])
	})

	t.Run("every record shares the header key set", func(t *testing.T) {
		t.Parallel()
		rows := [][]string{
			{"name", "category", "smoking"},
			{"A"},
			{"B", "喫茶店", "分煙", "extra"},
		}
		cat := BuildRecords(rows)
		require.Len(t, cat, 2)
		for _, rec := range cat {
			assert.Len(t, rec, 3)
			for _, k := range []string{"name", "category", "smoking"} {
				assert.Contains(t, rec, k)
			}
		}
	})

	t.Run("preserves source row order", func(t *testing.T) {
		t.Parallel()
		rows := [][]string{
			{"name"},
			{"first"},
			{"second"},
			{"third"},
		}
		cat := BuildRecords(rows)
		require.Len(t, cat, 3)
		assert.Equal(t, "first", cat[0][FieldName])
		assert.Equal(t, "third", cat[2][FieldName])
	})

	t.Run("no rows", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, BuildRecords(nil))
	})

	t.Run("header only", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, BuildRecords([][]string{{"name"}}))
	})
}

func TestFallbackCatalog(t *testing.T) {
	t.Parallel()

	cat := FallbackCatalog()
	require.Len(t, cat, 1)
	assert.Equal(t, "Cafe バンカム", cat[0][FieldName])
	assert.Equal(t, "全席喫煙可", cat[0][FieldSmoking])
	assert.NotEmpty(t, cat[0][FieldOpenHours])
}
