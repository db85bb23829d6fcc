package fping

import "strconv"

// BuildArgs returns the fping arguments for one cycle
func BuildArgs(count, period int, dialect Dialect, hosts []string) []string {
	args := []string{
		"-u",                        // unreachable hosts
		"-C" + strconv.Itoa(count),  // count
		"-p" + strconv.Itoa(period), // period in ms
		"-e",                        // elapsed time
	}
	// fping 5 prints per-probe lines unless quiet; -q leaves only the summary
	if dialect == DialectModern {
		args = append(args, "-q")
	}
	return append(args, hosts...)
}
