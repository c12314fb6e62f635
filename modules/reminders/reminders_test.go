package reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/intrntsrfr/custodian/database"
)

func TestIsDue(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 15, 0, time.UTC)

	tests := []struct {
		name string
		rem  *database.DailyReminder
		want bool
	}{
		{
			name: "matching time, never sent",
			rem:  &database.DailyReminder{Hour: 9, Minute: 30},
			want: true,
		},
		{
			name: "matching time, sent yesterday",
			rem:  &database.DailyReminder{Hour: 9, Minute: 30, LastSent: "2024-05-31"},
			want: true,
		},
		{
			name: "matching time, already sent today",
			rem:  &database.DailyReminder{Hour: 9, Minute: 30, LastSent: "2024-06-01"},
			want: false,
		},
		{
			name: "wrong minute",
			rem:  &database.DailyReminder{Hour: 9, Minute: 31},
			want: false,
		},
		{
			name: "wrong hour",
			rem:  &database.DailyReminder{Hour: 10, Minute: 30},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDue(tt.rem, now))
		})
	}
}
