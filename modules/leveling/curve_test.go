package leveling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholdXP(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 0},
		{1, 100},
		{2, 282}, // floor(100 * 2^1.5)
		{3, 519}, // floor(100 * 3^1.5)
		{4, 800},
		{10, 3162},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ThresholdXP(tt.level), "level %v", tt.level)
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{381, 1},
		{382, 2}, // 100 + 282
		{900, 2},
		{901, 3}, // 100 + 282 + 519
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForXP(tt.xp), "xp %v", tt.xp)
	}
}

// climbing the curve one threshold at a time must agree with LevelForXP
func TestCurveRoundTrip(t *testing.T) {
	for level := 0; level <= 50; level++ {
		total := TotalXP(level)
		assert.Equal(t, level, LevelForXP(total))
		if level > 0 {
			assert.Equal(t, level-1, LevelForXP(total-1))
		}
	}
}

func TestIntoLevel(t *testing.T) {
	progress, needed := IntoLevel(150)
	assert.Equal(t, 50, progress)
	assert.Equal(t, 282, needed)
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name       string
		progress   int
		needed     int
		wantFilled int
	}{
		{"empty", 0, 100, 0},
		{"half", 50, 100, 10},
		{"full", 100, 100, 20},
		{"over", 150, 100, 20},
		{"zero needed", 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := ProgressBar(tt.progress, tt.needed)
			assert.Equal(t, tt.wantFilled, strings.Count(bar, "🟩"))
			assert.Equal(t, barSegments-tt.wantFilled, strings.Count(bar, "⬛"))
		})
	}
}
