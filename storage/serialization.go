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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/vektoria/imgest/core"
)

// CheckpointMUS serializes core.Checkpoint values for storage backends.
// Timestamps are stored as Unix micro.
var CheckpointMUS = checkpointSer{}

type checkpointSer struct{}

func (checkpointSer) Marshal(c core.Checkpoint, bs []byte) (n int) {
	n = ord.String.Marshal(c.Dataset, bs)
	n += varint.Int.Marshal(c.NextIndex, bs[n:])
	n += varint.Int64.Marshal(c.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (checkpointSer) Unmarshal(bs []byte) (c core.Checkpoint, n int, err error) {
	c.Dataset, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}

	var n1 int
	c.NextIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var usec int64
	usec, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.UpdatedAt = time.UnixMicro(usec).UTC()
	return
}

func (checkpointSer) Size(c core.Checkpoint) int {
	return ord.String.Size(c.Dataset) +
		varint.Int.Size(c.NextIndex) +
		varint.Int64.Size(c.UpdatedAt.UnixMicro())
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	buf := make([]byte, CheckpointMUS.Size(*checkpoint))
	CheckpointMUS.Marshal(*checkpoint, buf)
	return buf
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes. Corrupt or
// truncated input fails with ErrSerializationFailed.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	checkpoint, _, err := CheckpointMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &checkpoint, nil
}
