package utils

import (
	"fmt"
	"strconv"
	"time"
)

func FormatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if n < 0 {
		str = str[1:] // Remove minus sign for processing
	}

	var result []byte
	for i := len(str) - 1; i >= 0; i-- {
		if (len(str)-i-1)%3 == 0 && i != len(str)-1 {
			result = append([]byte{','}, result...)
		}
		result = append([]byte{str[i]}, result...)
	}

	if n < 0 {
		return "-" + string(result)
	}
	return string(result)
}

// FormatRemaining renders a cooldown remainder as Russian minutes/seconds,
// e.g. "1 мин 30 сек". Sub-minute values drop the minute part.
func FormatRemaining(d time.Duration) string {
	totalSeconds := int(d.Round(time.Second).Seconds())
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60

	if minutes == 0 {
		return fmt.Sprintf("%d сек", seconds)
	}
	return fmt.Sprintf("%d мин %d сек", minutes, seconds)
}
