package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() CollectionSpec {
	return CollectionSpec{
		Name:          "flickr_images",
		VectorField:   "vector",
		Dimension:     768,
		Metric:        "COSINE",
		AutoID:        true,
		DynamicFields: true,
	}
}

func TestCollectionSpecValidate(t *testing.T) {
	require.NoError(t, validSpec().Validate())
}

func TestCollectionSpecValidateRejectsBadDimension(t *testing.T) {
	for _, dim := range []int{0, -1, -768} {
		spec := validSpec()
		spec.Dimension = dim
		err := spec.Validate()
		require.Error(t, err, "dimension %d should be rejected", dim)
		assert.ErrorIs(t, err, ErrInvalidDimension)
		assert.ErrorIs(t, err, ErrInvalidCollectionSpec)
	}
}

func TestCollectionSpecValidateRejectsEmptyName(t *testing.T) {
	spec := validSpec()
	spec.Name = ""
	assert.ErrorIs(t, spec.Validate(), ErrEmptyCollectionName)
}

func TestCollectionSpecValidateRejectsEmptyVectorField(t *testing.T) {
	spec := validSpec()
	spec.VectorField = ""
	assert.ErrorIs(t, spec.Validate(), ErrEmptyVectorField)
}

func TestValidateImageRecord(t *testing.T) {
	record := &ImageRecord{
		Filename: "Images/x.jpg",
		Caption:  "a caption",
		Vector:   []float32{0.5},
	}
	require.NoError(t, ValidateImageRecord(record))
}

func TestValidateImageRecordNil(t *testing.T) {
	assert.ErrorIs(t, ValidateImageRecord(nil), ErrInvalidImageRecord)
}

func TestValidateImageRecordEmptyFilename(t *testing.T) {
	record := &ImageRecord{Vector: []float32{1}}
	assert.ErrorIs(t, ValidateImageRecord(record), ErrEmptyFilename)
}

func TestValidateImageRecordEmptyVector(t *testing.T) {
	record := &ImageRecord{Filename: "x.jpg"}
	assert.ErrorIs(t, ValidateImageRecord(record), ErrEmptyVector)
}

func TestValidateImageRecordAllowsEmptyCaption(t *testing.T) {
	record := &ImageRecord{Filename: "x.jpg", Vector: []float32{1}}
	require.NoError(t, ValidateImageRecord(record))
}

func TestValidateImageRecordReservedExtraKey(t *testing.T) {
	record := &ImageRecord{
		Filename: "x.jpg",
		Vector:   []float32{1},
		Extra:    map[string]string{"filename": "spoofed"},
	}
	err := ValidateImageRecord(record)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReservedField)
}
