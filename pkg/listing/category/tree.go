// Package category resolves listing categories against an in-memory category tree.
package category

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

var ErrCategoryNotFound = errors.New("category not found")

// Tree is an immutable category tree. It is safe for concurrent use.
type Tree struct {
	root  *model.ItemCategory
	byKey map[string]*model.ItemCategory
}

// NewTree indexes the tree below root. Parent links are set from the children lists.
func NewTree(root *model.ItemCategory) (*Tree, error) {
	if root == nil {
		return nil, errors.New("root category is required")
	}
	t := &Tree{root: root, byKey: make(map[string]*model.ItemCategory)}
	if err := t.index(root, nil); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) index(node, parent *model.ItemCategory) error {
	if node.Key == "" {
		return fmt.Errorf("category %q has no key", node.Name)
	}
	if _, exists := t.byKey[node.Key]; exists {
		return fmt.Errorf("duplicate category key %q", node.Key)
	}
	node.ParentCategory = parent
	t.byKey[node.Key] = node
	for _, child := range node.Children {
		if err := t.index(child, node); err != nil {
			return err
		}
	}
	return nil
}

// Root returns the root category.
func (t *Tree) Root() *model.ItemCategory {
	return t.root
}

// PathToIDs returns the keys from category up to the root, leaf first.
func (t *Tree) PathToIDs(_ context.Context, category *model.ItemCategory) ([]string, error) {
	if category == nil {
		return nil, fmt.Errorf("nil category: %w", ErrCategoryNotFound)
	}
	node, ok := t.byKey[category.Key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", category.Key, ErrCategoryNotFound)
	}
	var ids []string
	for ; node != nil; node = node.ParentCategory {
		ids = append(ids, node.Key)
	}
	return ids, nil
}

// IDsToCategory walks a leaf-first key path down from root and returns the leaf.
func (t *Tree) IDsToCategory(_ context.Context, ids []string, root *model.ItemCategory) (*model.ItemCategory, error) {
	if root == nil {
		root = t.root
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("empty category path: %w", ErrCategoryNotFound)
	}
	if ids[len(ids)-1] != root.Key {
		return nil, fmt.Errorf("path ends at %q, expected root %q: %w", ids[len(ids)-1], root.Key, ErrCategoryNotFound)
	}

	node := root
	for i := len(ids) - 2; i >= 0; i-- {
		child := findChild(node, ids[i])
		if child == nil {
			return nil, fmt.Errorf("key %q below %q: %w", ids[i], node.Key, ErrCategoryNotFound)
		}
		node = child
	}
	return node, nil
}

func findChild(node *model.ItemCategory, key string) *model.ItemCategory {
	for _, child := range node.Children {
		if child.Key == key {
			return child
		}
	}
	return nil
}

type categoryJSON struct {
	Key         string         `json:"key"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Children    []categoryJSON `json:"children,omitempty"`
}

// LoadTree reads a JSON category tree of nested {key, name, description, children} records.
func LoadTree(r io.Reader, marketID string) (*Tree, error) {
	var root categoryJSON
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to decode category tree: %w", err)
	}
	return NewTree(toCategory(root, marketID))
}

func toCategory(in categoryJSON, marketID string) *model.ItemCategory {
	out := &model.ItemCategory{
		Key:         in.Key,
		Name:        in.Name,
		Description: in.Description,
		MarketID:    marketID,
	}
	for _, child := range in.Children {
		out.Children = append(out.Children, toCategory(child, marketID))
	}
	return out
}
