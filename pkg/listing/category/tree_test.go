package category

import (
	"context"
	"strings"
	"testing"

	"github.com/LoneWolf367/particl-market/pkg/listing/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treeJSON = `{
	"key": "cat_ROOT", "name": "ROOT",
	"children": [
		{"key": "cat_electronics", "name": "Electronics", "children": [
			{"key": "cat_phones", "name": "Phones"},
			{"key": "cat_laptops", "name": "Laptops"}
		]},
		{"key": "cat_books", "name": "Books"}
	]
}`

func loadTestTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := LoadTree(strings.NewReader(treeJSON), "market-1")
	require.NoError(t, err)
	return tree
}

func TestTree_PathToIDs(t *testing.T) {
	tree := loadTestTree(t)

	ids, err := tree.PathToIDs(context.Background(), &model.ItemCategory{Key: "cat_laptops"})

	require.NoError(t, err)
	assert.Equal(t, []string{"cat_laptops", "cat_electronics", "cat_ROOT"}, ids)
}

func TestTree_IDsToCategory(t *testing.T) {
	tree := loadTestTree(t)

	category, err := tree.IDsToCategory(context.Background(), []string{"cat_phones", "cat_electronics", "cat_ROOT"}, tree.Root())

	require.NoError(t, err)
	assert.Equal(t, "Phones", category.Name)
	assert.Equal(t, "market-1", category.MarketID)
	assert.Equal(t, "cat_electronics", category.ParentCategory.Key)
}

func TestTree_RoundTrip(t *testing.T) {
	tree := loadTestTree(t)

	for _, key := range []string{"cat_ROOT", "cat_books", "cat_phones"} {
		t.Run(key, func(t *testing.T) {
			ids, err := tree.PathToIDs(context.Background(), &model.ItemCategory{Key: key})
			require.NoError(t, err)

			category, err := tree.IDsToCategory(context.Background(), ids, nil)
			require.NoError(t, err)
			assert.Equal(t, key, category.Key)
		})
	}
}

func TestTree_NotFound(t *testing.T) {
	tree := loadTestTree(t)
	ctx := context.Background()

	tests := []struct {
		name string
		ids  []string
	}{
		{name: "empty path"},
		{name: "wrong root", ids: []string{"cat_phones", "cat_electronics", "cat_OTHER"}},
		{name: "unknown child", ids: []string{"cat_tablets", "cat_electronics", "cat_ROOT"}},
		{name: "child under wrong parent", ids: []string{"cat_phones", "cat_books", "cat_ROOT"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tree.IDsToCategory(ctx, tt.ids, tree.Root())
			assert.ErrorIs(t, err, ErrCategoryNotFound)
		})
	}

	_, err := tree.PathToIDs(ctx, &model.ItemCategory{Key: "cat_missing"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestNewTree_RejectsDuplicateKeys(t *testing.T) {
	root := &model.ItemCategory{Key: "root", Children: []*model.ItemCategory{{Key: "a"}, {Key: "a"}}}

	_, err := NewTree(root)

	assert.ErrorContains(t, err, "duplicate category key")
}
