package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DatasetType identifies one of the supported dataset directory layouts.
type DatasetType string

const (
	// DatasetFlickr8k is the Flickr8k layout: Images/ plus captions.txt.
	DatasetFlickr8k DatasetType = "flickr8k"
	// DatasetFlickr30k is the Flickr30k layout: flickr30k_images/ plus results.csv.
	DatasetFlickr30k DatasetType = "flickr30k"
)

// CollectionSpec describes the target collection in the vector store.
// Dimension and Metric are fixed at creation time; changing either
// requires recreating the collection.
type CollectionSpec struct {
	Name          string
	VectorField   string
	Dimension     int
	Metric        string
	AutoID        bool // the store assigns record identifiers
	DynamicFields bool // records may carry attributes outside the fixed schema
}

// ImageRecord is one stored unit: an image embedding plus its metadata.
// Filename is the dataset path of the source image, kept in full so a
// stored record always identifies its file; it rides alongside Caption
// as dynamic fields, and the store assigns the record identifier on
// insert. Extra holds optional dynamic attributes beyond the fixed core.
type ImageRecord struct {
	Filename string
	Caption  string
	Vector   []float32
	Extra    map[string]string
}

// Reserved field names in the stored document. Extra attributes must not
// collide with these.
const (
	FieldFilename = "filename"
	FieldCaption  = "caption"
)

// Fields flattens the record into the row sent to the store, tagging the
// embedding with the given vector field name. The fixed core always wins
// over Extra on key collisions.
func (r *ImageRecord) Fields(vectorField string) map[string]any {
	row := make(map[string]any, len(r.Extra)+3)
	for k, v := range r.Extra {
		row[k] = v
	}
	row[FieldFilename] = r.Filename
	row[FieldCaption] = r.Caption
	row[vectorField] = r.Vector
	return row
}

// IngestionResult is the aggregate outcome of one pipeline run.
type IngestionResult struct {
	Attempted int // items the pipeline processed, successful or not
	Inserted  int // records the store acknowledged as durably accepted
}

// Image is a loaded and format-validated image payload.
type Image struct {
	Path   string
	Format string // decoder name, e.g. "jpeg" or "png"
	Data   []byte
}

// Checkpoint records how far a sequential ingestion run got for one
// dataset, so a re-run can resume instead of re-inserting.
type Checkpoint struct {
	Dataset   string // fingerprint of the dataset, see DatasetFingerprint
	NextIndex int    // index of the first item not yet inserted
	UpdatedAt time.Time
}

// DatasetFingerprint derives a stable identifier for a dataset from its
// type and root path using BLAKE2b hashing. Checkpoints are keyed by this
// value so a cursor never resumes against a different dataset.
func DatasetFingerprint(dt DatasetType, root string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(dt))
	h.Write([]byte{0})
	h.Write([]byte(root))
	return string(dt) + ":" + hex.EncodeToString(h.Sum(nil))
}
