package milvus

import (
	"testing"

	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektoria/imgest/core"
)

func TestCollectionSchema(t *testing.T) {
	spec := core.CollectionSpec{
		Name:          "flickr_images",
		VectorField:   "vector",
		Dimension:     768,
		Metric:        "COSINE",
		AutoID:        true,
		DynamicFields: true,
	}

	schema := collectionSchema(spec)

	assert.Equal(t, "flickr_images", schema.CollectionName)
	assert.True(t, schema.EnableDynamicField)
	require.Len(t, schema.Fields, 2)

	pk := schema.Fields[0]
	assert.Equal(t, primaryField, pk.Name)
	assert.Equal(t, entity.FieldTypeInt64, pk.DataType)
	assert.True(t, pk.PrimaryKey)
	assert.True(t, pk.AutoID)

	vec := schema.Fields[1]
	assert.Equal(t, "vector", vec.Name)
	assert.Equal(t, entity.FieldTypeFloatVector, vec.DataType)
}

func TestCollectionSchemaCustomVectorField(t *testing.T) {
	spec := core.CollectionSpec{
		Name:        "c",
		VectorField: "clip_features",
		Dimension:   512,
	}

	schema := collectionSchema(spec)
	require.Len(t, schema.Fields, 2)
	assert.Equal(t, "clip_features", schema.Fields[1].Name)
}
