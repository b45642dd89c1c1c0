//go:build !linux

package hivefile

import "os"

func adviseSequential(*os.File) {}
