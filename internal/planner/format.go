package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatDuration renders seconds as "1d 2h 3m", "0m" under a minute and "-" for zero.
func FormatDuration(seconds float64) string {
	if seconds == 0 {
		return "-"
	}
	total := int(math.Round(seconds))
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60

	var parts []string
	if days > 0 {
		parts = append(parts, itoa(days)+"d")
	}
	if hours > 0 {
		parts = append(parts, itoa(hours)+"h")
	}
	if minutes > 0 {
		parts = append(parts, itoa(minutes)+"m")
	}
	if len(parts) == 0 {
		return "0m"
	}
	return strings.Join(parts, " ")
}

// FormatDistance renders meters as "850 m" below a kilometre, "5.0 km" above, "-" for zero.
func FormatDistance(meters float64) string {
	switch {
	case meters == 0:
		return "-"
	case meters < 1000:
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	default:
		return fmt.Sprintf("%.1f km", meters/1000)
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
