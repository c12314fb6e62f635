package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRaidWindowCounts(t *testing.T) {
	tr := newTracker()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	window := time.Second * 10

	// four joins inside the window stay under the threshold of five
	var n int
	for i := 0; i < 4; i++ {
		n = tr.RecordJoin("1", base.Add(time.Duration(i)*time.Second), window)
	}
	assert.Equal(t, 4, n)

	// the fifth join within the window crosses it
	n = tr.RecordJoin("1", base.Add(4*time.Second), window)
	assert.Equal(t, 5, n)

	// a join outside the window does not count old entries
	n = tr.RecordJoin("1", base.Add(30*time.Second), window)
	assert.Equal(t, 1, n)
}

func TestSpamWindowCounts(t *testing.T) {
	tr := newTracker()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	window := time.Second * 7

	// six messages within 7s: the sixth exceeds the threshold of five
	var n int
	for i := 0; i < 6; i++ {
		n = tr.RecordMessage("1", "u", base.Add(time.Duration(i)*time.Second), window)
	}
	assert.Equal(t, 6, n)

	// six messages spread across more than 8s never exceed it
	tr2 := newTracker()
	for i := 0; i < 6; i++ {
		n = tr2.RecordMessage("1", "u", base.Add(time.Duration(i*8)*time.Second/5), window)
	}
	assert.LessOrEqual(t, n, 5)
}

func TestSpamWindowsArePerUser(t *testing.T) {
	tr := newTracker()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		tr.RecordMessage("1", "a", base, time.Second*7)
	}
	n := tr.RecordMessage("1", "b", base, time.Second*7)
	assert.Equal(t, 1, n)
}

func TestSweepDropsStaleJoins(t *testing.T) {
	tr := newTracker()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tr.RecordJoin("stale", base.Add(-2*time.Hour), time.Second*10)
	tr.RecordJoin("fresh", base.Add(-time.Minute), time.Second*10)
	tr.Sweep(base, time.Hour)

	_, staleKept := tr.joins["stale"]
	assert.False(t, staleKept)
	assert.Len(t, tr.joins["fresh"], 1)
}

func TestBlockedFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{"executable", "setup.exe", true},
		{"case insensitive", "SETUP.EXE", true},
		{"script", "run.sh", true},
		{"image", "cat.png", false},
		{"suffix only", "exefile.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := blockedFile(tt.filename)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlacklistedWord(t *testing.T) {
	word, ok := blacklistedWord("get your free KEYGEN here")
	assert.True(t, ok)
	assert.Equal(t, "keygen", word)

	_, ok = blacklistedWord("have a nice day")
	assert.False(t, ok)
}
