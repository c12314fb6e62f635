package bot

import (
	"testing"
	"time"
)

func TestTrimChannelString(t *testing.T) {
	tests := []struct {
		name string
		args string
		want string
	}{
		{
			name: "mention",
			args: "<#1234>",
			want: "1234",
		},
		{
			name: "plain id",
			args: "1234",
			want: "1234",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimChannelString(tt.args); got != tt.want {
				t.Errorf("TrimChannelString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSnowflake(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		want    time.Time
		wantErr bool
	}{
		{
			name:    "valid id",
			args:    "163454407999094786",
			want:    time.Unix(1459040967, 0),
			wantErr: false,
		},
		{
			name:    "not a number",
			args:    "asdf",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSnowflake(tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSnowflake() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !got.Equal(tt.want) {
				t.Errorf("ParseSnowflake() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name string
		args time.Duration
		want string
	}{
		{
			name: "with days",
			args: 26*time.Hour + 3*time.Minute,
			want: "1d 2h 3m",
		},
		{
			name: "without days",
			args: 2*time.Hour + 3*time.Minute,
			want: "2h 3m",
		},
		{
			name: "zero",
			args: 0,
			want: "0h 0m",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatUptime(tt.args); got != tt.want {
				t.Errorf("FormatUptime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		args string
		max  int
		want string
	}{
		{
			name: "short enough",
			args: "hello",
			max:  10,
			want: "hello",
		},
		{
			name: "clipped",
			args: "hello world",
			max:  8,
			want: "hello...",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.args, tt.max); got != tt.want {
				t.Errorf("Truncate() = %v, want %v", got, tt.want)
			}
		})
	}
}
