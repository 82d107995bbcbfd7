package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/majewsky/gg/option"
)

// durationPrefix captures the leading number of a duration token and its optional unit.
var durationPrefix = regexp.MustCompile(`(?i)^([0-9]+(?:\.[0-9]+)?)\s*(ms|s|us)?`)

// ConvertToSeconds converts a duration token such as "65.54ms", "1.04s" or "200us" to seconds.
// A token without unit is taken as seconds. Text that does not start with a number is handed to
// strconv.ParseFloat; if that fails too the result is None.
func ConvertToSeconds(raw string) option.Option[float64] {
	s := strings.TrimSpace(raw)

	m := durationPrefix.FindStringSubmatch(s)
	if m == nil {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return option.None[float64]()
		}
		return option.Some(v)
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return option.None[float64]()
	}

	switch strings.ToLower(m[2]) {
	case "ms":
		return option.Some(v / 1000.0)
	case "us":
		return option.Some(v / 1_000_000.0)
	default:
		return option.Some(v)
	}
}
