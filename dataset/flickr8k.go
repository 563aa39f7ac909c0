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
	flickr8kCaptions = "captions.txt"
	flickr8kImageDir = "Images"
)

// flickr8k reads the Flickr8k layout: a captions.txt CSV index with
// header "image,caption" (five captions per image) and image files under
// Images/.
type flickr8k struct {
	items []Item
}

func openFlickr8k(root string) (*flickr8k, error) {
	path := filepath.Join(root, flickr8kCaptions)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening caption index: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// The published index contains the occasional short or overlong row;
	// tolerate and skip them instead of failing the run.
	r.FieldsPerRecord = -1

	grouped := newGroupedItems()
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", flickr8kCaptions, err)
		}

		if first {
			first = false
			if strings.EqualFold(rec[0], "image") {
				continue
			}
		}

		if len(rec) != 2 {
			slog.Debug("skipping malformed caption row", "fields", len(rec))
			continue
		}

		grouped.add(filepath.Join(root, flickr8kImageDir, rec[0]), rec[1])
	}

	return &flickr8k{items: grouped.items}, nil
}

func (d *flickr8k) Len() int {
	return len(d.items)
}

func (d *flickr8k) ForEach(ctx context.Context, fn func(i int, item Item) error) error {
	return forEach(ctx, d.items, fn)
}
