// Package platform identifies the host environment. WSL matters here:
// tmux and detached process behavior differ enough that doctor reports it.
package platform

import (
	"os"
	"runtime"
	"strings"
	"sync"
)

type Platform string

const (
	MacOS   Platform = "macos"
	Linux   Platform = "linux"
	WSL     Platform = "wsl"
	Windows Platform = "windows"
	Unknown Platform = "unknown"
)

var detectOnce = sync.OnceValue(detect)

// Detect returns the current platform, caching the result.
func Detect() Platform {
	return detectOnce()
}

func detect() Platform {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "windows":
		return Windows
	case "linux":
		if isWSL() {
			return WSL
		}
		return Linux
	default:
		return Unknown
	}
}

func isWSL() bool {
	if os.Getenv("WSL_DISTRO_NAME") != "" {
		return true
	}
	version, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(version)), "microsoft")
}

// Supported reports whether kaku-assist can run at all: it needs a Unix
// userland with tmux, which rules out native Windows.
func Supported() bool {
	return Detect() != Windows && Detect() != Unknown
}
