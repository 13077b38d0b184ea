package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageDetails(t *testing.T) {
	d := NewPageDetails(21, 2, 10)
	assert.Equal(t, int64(3), d.TotalPages)
	assert.Equal(t, int64(3), d.Pages.Next)
	assert.Equal(t, int64(1), d.Pages.Previous)

	d = NewPageDetails(0, 1, 20)
	assert.Equal(t, int64(0), d.TotalPages)
	assert.Equal(t, false, d.Pages.Next)
	assert.Equal(t, false, d.Pages.Previous)
}
