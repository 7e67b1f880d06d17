package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitles(t *testing.T) {
	assert.Equal(t, "Double Edged Facts", ImageTitle("double"))
	assert.Equal(t, "Single Edged Facts", ImageTitle("single"))
	assert.Equal(t, "All Double Edged Facts", ImageTitle("complete"))
	assert.Equal(t, "other", ImageTitle("other"))
	assert.Equal(t, "complete source", SourceTitle("complete"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("a/b.PNG"))
	assert.Equal(t, "image/svg+xml", ContentType("x.svg"))
	assert.Equal(t, "text/vnd.graphviz", ContentType("x.dot"))
	assert.Equal(t, "application/octet-stream", ContentType("x"))
}
