// Copyright 2025 Vektoria Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	flickr30kCaptions = "results.csv"
	flickr30kImageDir = "flickr30k_images"
)

// flickr30k reads the Flickr30k layout: a results.csv index with header
// "image_name| comment_number| comment" (pipe-separated, five comments
// per image) and image files under flickr30k_images/.
type flickr30k struct {
	items []Item
}

func openFlickr30k(root string) (*flickr30k, error) {
	path := filepath.Join(root, flickr30kCaptions)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening caption index: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '|'
	r.TrimLeadingSpace = true
	// The published index contains a handful of rows with stray
	// separators; tolerate and skip them instead of failing the run.
	r.FieldsPerRecord = -1

	grouped := newGroupedItems()
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", flickr30kCaptions, err)
		}

		if first {
			first = false
			if strings.EqualFold(rec[0], "image_name") {
				continue
			}
		}

		if len(rec) != 3 {
			slog.Debug("skipping malformed caption row", "fields", len(rec))
			continue
		}

		grouped.add(filepath.Join(root, flickr30kImageDir, rec[0]), rec[2])
	}

	return &flickr30k{items: grouped.items}, nil
}

func (d *flickr30k) Len() int {
	return len(d.items)
}

func (d *flickr30k) ForEach(ctx context.Context, fn func(i int, item Item) error) error {
	return forEach(ctx, d.items, fn)
}
