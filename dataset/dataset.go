package dataset

import (
	"context"
	"fmt"

	"github.com/vektoria/imgest/core"
)

// Item is one image-caption pair group from a dataset.
type Item struct {
	// ImagePath is the absolute or root-relative path to the image file.
	ImagePath string

	// Captions holds every caption published for the image, in file order.
	Captions []string
}

// BestCaption selects the single representative caption for the item:
// the longest one, with ties broken by first occurrence. Returns the
// empty string if the item carries no captions.
func (it Item) BestCaption() string {
	best := ""
	for _, c := range it.Captions {
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}

// Dataset is a finite, ordered, single-pass sequence of items.
type Dataset interface {
	// Len returns the total number of items.
	Len() int

	// ForEach iterates over all items in their natural order, calling fn
	// with each item's position and value. Iteration stops on the first
	// error from fn. Context cancellation is checked between items.
	ForEach(ctx context.Context, fn func(i int, item Item) error) error
}

// Open builds a Dataset for the given type rooted at the given directory.
// The caption index is read eagerly so Len is known up front; image files
// are only touched during ingestion.
func Open(dt core.DatasetType, root string) (Dataset, error) {
	switch dt {
	case core.DatasetFlickr8k:
		return openFlickr8k(root)
	case core.DatasetFlickr30k:
		return openFlickr30k(root)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedDataset, dt)
	}
}

// forEach drives callback iteration over an eagerly loaded item slice.
// Shared by both dataset implementations.
func forEach(ctx context.Context, items []Item, fn func(i int, item Item) error) error {
	for i, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}
	return nil
}

// groupedItems accumulates captions per image while preserving the order
// in which images first appear in the caption index.
type groupedItems struct {
	items []Item
	index map[string]int
}

func newGroupedItems() *groupedItems {
	return &groupedItems{index: make(map[string]int)}
}

func (g *groupedItems) add(imagePath, caption string) {
	if i, ok := g.index[imagePath]; ok {
		g.items[i].Captions = append(g.items[i].Captions, caption)
		return
	}
	g.index[imagePath] = len(g.items)
	g.items = append(g.items, Item{ImagePath: imagePath, Captions: []string{caption}})
}
