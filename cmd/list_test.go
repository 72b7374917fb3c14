package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/catalog/internal/models"
	"github.com/nguyentranbao-ct/catalog/internal/usecase"
)

func sampleResult() usecase.ListResult {
	return usecase.ListResult{
		Page: models.Page{
			Items: []models.Product{
				{ID: "1", Title: "Backpack", Category: "men's clothing", Price: 109.95, Liked: true},
				{ID: "local-x", Title: "Smart Watch", Category: "electronics", Price: 49.99},
			},
			Page:       1,
			TotalPages: 3,
			TotalItems: 20,
			PageSize:   8,
		},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Backpack")
	assert.Contains(t, out, "109.95")
	assert.Contains(t, out, "local-x")
	assert.Contains(t, out, "page 1/3, 20 products")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, sampleResult()))
	assert.Contains(t, buf.String(), `"total_pages": 3`)
	assert.Contains(t, buf.String(), `"title": "Smart Watch"`)
}
