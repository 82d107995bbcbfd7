//go:build !linux

package extractor

import "os"

func adviseSequential(*os.File) {}
