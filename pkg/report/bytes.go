package report

import "github.com/dustin/go-humanize"

// FormatBytes renders n with SI units, e.g. 2581 -> "2.6 kB" and
// -2581 -> "-2.6 kB".
func FormatBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.Bytes(uint64(-(n+1))+1)
	}
	return humanize.Bytes(uint64(n))
}
