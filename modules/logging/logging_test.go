package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffRoles(t *testing.T) {
	tests := []struct {
		name        string
		before      []string
		after       []string
		wantAdded   []string
		wantRemoved []string
	}{
		{
			name:      "role added",
			before:    []string{"1"},
			after:     []string{"1", "2"},
			wantAdded: []string{"2"},
		},
		{
			name:        "role removed",
			before:      []string{"1", "2"},
			after:       []string{"1"},
			wantRemoved: []string{"2"},
		},
		{
			name:        "swap",
			before:      []string{"1"},
			after:       []string{"2"},
			wantAdded:   []string{"2"},
			wantRemoved: []string{"1"},
		},
		{
			name:   "no change",
			before: []string{"1", "2"},
			after:  []string{"1", "2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := diffRoles(tt.before, tt.after)
			assert.Equal(t, tt.wantAdded, added)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}

func TestOrNone(t *testing.T) {
	assert.Equal(t, "None", orNone(""))
	assert.Equal(t, "nick", orNone("nick"))
}
