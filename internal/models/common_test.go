package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseModel_BeforeCreate(t *testing.T) {
	var m BaseModel
	require.NoError(t, m.BeforeCreate(nil))
	_, err := uuid.Parse(m.ID)
	assert.NoError(t, err)

	preset := BaseModel{ID: "fixed-id"}
	require.NoError(t, preset.BeforeCreate(nil))
	assert.Equal(t, "fixed-id", preset.ID)

	var other BaseModel
	require.NoError(t, other.BeforeCreate(nil))
	assert.NotEqual(t, m.ID, other.ID)
}
