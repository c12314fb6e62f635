package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func TrimChannelString(chStr string) string {
	chStr = strings.TrimPrefix(chStr, "<#")
	chStr = strings.TrimSuffix(chStr, ">")
	return chStr
}

// ParseSnowflake extracts the creation time embedded in a Discord ID.
func ParseSnowflake(id string) (time.Time, error) {
	n, err := strconv.ParseInt(id, 0, 63)
	if err != nil {
		return time.Now(), err
	}
	return time.Unix(((n>>22)+1420070400000)/1000, 0), nil
}

// FormatUptime renders a duration as "1d 2h 3m", dropping the day part when
// zero.
func FormatUptime(d time.Duration) string {
	total := int(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	if days > 0 {
		return fmt.Sprintf("%vd %vh %vm", days, hours, minutes)
	}
	return fmt.Sprintf("%vh %vm", hours, minutes)
}

// Truncate clips a string for embed fields.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
