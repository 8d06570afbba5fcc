package mainwindow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindowSize(t *testing.T) {
	w, h, err := parseWindowSize(" 640", "480 ")
	require.NoError(t, err)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	bad := []struct{ w, h string }{
		{"0", "100"},
		{"100", "-5"},
		{"abc", "100"},
		{"100", ""},
		{"12.5", "100"},
	}
	for _, tt := range bad {
		_, _, err := parseWindowSize(tt.w, tt.h)
		assert.Error(t, err, "%q x %q", tt.w, tt.h)
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Slot 1", title("slot 1"))
	assert.Equal(t, "", title(""))
}
