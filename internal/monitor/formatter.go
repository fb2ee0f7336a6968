package monitor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// FormatFolds formats a fold count as "N folds", singular when N is 1.
func FormatFolds(n int) string {
	if n == 1 {
		return "1 fold"
	}
	return fmt.Sprintf("%d folds", n)
}

// FormatSize formats a file size in bytes as "X B", "X.X KB" or "X.X MB".
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatAge formats how long ago t was relative to now, e.g. "5s ago" or
// "1h 30m ago". The zero time formats as "never".
func FormatAge(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "never"
	}

	d := now.Sub(t)
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh %dm ago", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours())/24)
	}
}

// TruncatePath shortens a path from the left so it fits in max characters,
// keeping whole trailing components where possible.
func TruncatePath(path string, max int) string {
	if len(path) <= max {
		return path
	}

	sep := string(filepath.Separator)
	parts := strings.Split(path, sep)

	out := ""
	for i := len(parts) - 1; i >= 0; i-- {
		candidate := sep + parts[i] + out
		if len(candidate)+1 > max {
			break
		}
		out = candidate
	}

	if out == "" {
		// Final component alone exceeds max.
		if max <= 1 {
			return "…"
		}
		return "…" + path[len(path)-(max-1):]
	}
	return "…" + out
}
