package extractor

import (
	"regexp"
	"strings"

	"github.com/majewsky/gg/option"
)

// LoadTestMetric holds the figures extracted from one wrk output.
// Latencies are in seconds, transfer rate in kilobytes per second.
type LoadTestMetric struct {
	RequestsPerSecond option.Option[float64]
	LatencyP50        option.Option[float64]
	LatencyP75        option.Option[float64]
	LatencyP90        option.Option[float64]
	LatencyP99        option.Option[float64]
	TransferPerSecond option.Option[float64]
	SocketErrors      option.Option[string]
}

// IsEmpty reports whether no field at all could be extracted.
func (m LoadTestMetric) IsEmpty() bool {
	return m.RequestsPerSecond.IsNone() &&
		m.LatencyP50.IsNone() && m.LatencyP75.IsNone() &&
		m.LatencyP90.IsNone() && m.LatencyP99.IsNone() &&
		m.TransferPerSecond.IsNone() && m.SocketErrors.IsNone()
}

const durationToken = `([0-9]+(?:\.[0-9]+)?[ \t]*(?:ms|s|us)?)`

var (
	requestsPattern = regexp.MustCompile(`(?i)Requests/sec:\s*` + number)
	transferPattern = regexp.MustCompile(`(?i)Transfer/sec:\s*` + number + `[ \t]*([A-Za-z]+)?`)
	socketPattern   = regexp.MustCompile(`(?m)^[ \t]*Socket errors:[ \t]*([^\r\n]*)`)

	// 50%   65.54ms  75%  541.17ms  90%  840.63ms
	inlineTrioPattern = regexp.MustCompile(`(?i)50%[^\d\n]*` + durationToken + `[^\n]*?75%[^\d\n]*` + durationToken + `[^\n]*?90%[^\d\n]*` + durationToken)
	looseP99Pattern   = regexp.MustCompile(`(?i)99%[^\d\n]*` + durationToken)

	percentileLine = map[string]*regexp.Regexp{
		"50": percentileLinePattern("50"),
		"75": percentileLinePattern("75"),
		"90": percentileLinePattern("90"),
		"99": percentileLinePattern("99"),
	}
)

func percentileLinePattern(perc string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*` + perc + `%[ \t]+` + durationToken)
}

// ParseLoadTestLog extracts every field it can from a wrk output. Each field is searched
// independently, so the result is always a record even when all of its fields are None.
func ParseLoadTestLog(text string) LoadTestMetric {
	var res LoadTestMetric

	if m := requestsPattern.FindStringSubmatch(text); m != nil {
		res.RequestsPerSecond = parseFloat(m[1])
	}

	if m := transferPattern.FindStringSubmatch(text); m != nil {
		res.TransferPerSecond = transferToKB(m[1], m[2])
	}

	res.LatencyP50 = percentileFromLine(text, "50")
	res.LatencyP75 = percentileFromLine(text, "75")
	res.LatencyP90 = percentileFromLine(text, "90")

	// The inline form lists the trio on a single line; only fill what the per-line search missed.
	if res.LatencyP50.IsNone() || res.LatencyP75.IsNone() || res.LatencyP90.IsNone() {
		if m := inlineTrioPattern.FindStringSubmatch(text); m != nil {
			res.LatencyP50 = orElse(res.LatencyP50, ConvertToSeconds(m[1]))
			res.LatencyP75 = orElse(res.LatencyP75, ConvertToSeconds(m[2]))
			res.LatencyP90 = orElse(res.LatencyP90, ConvertToSeconds(m[3]))
		}
	}

	res.LatencyP99 = percentileFromLine(text, "99")
	if res.LatencyP99.IsNone() {
		if m := looseP99Pattern.FindStringSubmatch(text); m != nil {
			res.LatencyP99 = ConvertToSeconds(m[1])
		}
	}

	if m := socketPattern.FindStringSubmatch(text); m != nil {
		res.SocketErrors = option.Some(strings.TrimSpace(m[1]))
	}

	return res
}

func percentileFromLine(text, perc string) option.Option[float64] {
	m := percentileLine[perc].FindStringSubmatch(text)
	if m == nil {
		return option.None[float64]()
	}
	return ConvertToSeconds(m[1])
}

// transferToKB normalizes a wrk transfer rate to kilobytes. Units other than
// kilobytes and megabytes are passed through unconverted.
func transferToKB(value, unit string) option.Option[float64] {
	v, ok := parseFloat(value).Unpack()
	if !ok {
		return option.None[float64]()
	}
	switch strings.ToLower(unit) {
	case "mb", "m":
		return option.Some(v * 1024.0)
	default:
		return option.Some(v)
	}
}

func orElse[T any](current, fallback option.Option[T]) option.Option[T] {
	if current.IsSome() {
		return current
	}
	return fallback
}
