package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRepo(t *testing.T) {
	tests := []struct {
		name      string
		full      string
		wantOwner string
		wantName  string
		wantOk    bool
	}{
		{"valid", "golang/go", "golang", "go", true},
		{"missing name", "golang/", "", "", false},
		{"missing owner", "/go", "", "", false},
		{"no slash", "golang", "", "", false},
		{"extra slash kept in name", "a/b/c", "a", "b/c", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, name, ok := splitRepo(tt.full)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantName, name)
		})
	}
}
