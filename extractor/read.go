package extractor

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadText reads a whole log file. Byte sequences that are not valid UTF-8 are dropped
// instead of failing the read.
func ReadText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	adviseSequential(f)

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
