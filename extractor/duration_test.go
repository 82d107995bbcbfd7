package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToSeconds(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		absent bool
	}{
		{name: "Milliseconds", input: "65.54ms", want: 0.06554},
		{name: "Seconds", input: "1.04s", want: 1.04},
		{name: "Microseconds", input: "200us", want: 0.0002},
		{name: "NoUnitMeansSeconds", input: "3", want: 3},
		{name: "UppercaseUnit", input: "12MS", want: 0.012},
		{name: "SurroundingWhitespace", input: "  541.17 ms \n", want: 0.54117},
		{name: "Empty", input: "", absent: true},
		{name: "Garbage", input: "n/a", absent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ConvertToSeconds(tt.input).Unpack()
			if tt.absent {
				assert.False(t, ok)
				return
			}
			assert.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}
