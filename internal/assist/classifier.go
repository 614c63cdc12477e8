package assist

import (
	"regexp"
	"strings"
)

// Pure predicates over a sanitized suggested command. They run twice:
// once at parse time and again immediately before apply, so stale or
// tampered session state cannot smuggle a destructive command through.

var (
	forkBombRe  = regexp.MustCompile(`:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;\s*:`)
	mkfsRe      = regexp.MustCompile(`(^|[\s;|&/])mkfs`)
	ddIfRe      = regexp.MustCompile(`(^|[\s;|&])dd\s+if=`)
	powerRe     = regexp.MustCompile(`(^|[\s;|&])(sudo\s+)?(shutdown|reboot|poweroff)\b`)
	gitResetRe  = regexp.MustCompile(`git\s+reset(\s+\S+)*\s+--hard`)
	gitCleanRe  = regexp.MustCompile(`git\s+clean\b`)
	rmCommandRe = regexp.MustCompile(`(^|[\s;|&])(sudo\s+)?rm\s`)
)

// IsDangerous reports whether a suggested command matches a pattern
// associated with irreversible or destructive system effects. Dangerous
// commands are never auto-executed: apply pastes them without Enter.
func IsDangerous(command string) bool {
	cmd := strings.ToLower(strings.TrimSpace(command))
	if cmd == "" {
		return false
	}

	if forkBombRe.MatchString(cmd) {
		return true
	}
	if rmCommandRe.MatchString(cmd) && hasFlagLetters(cmd, "rm", 'r', 'f') {
		return true
	}
	if mkfsRe.MatchString(cmd) {
		return true
	}
	if ddIfRe.MatchString(cmd) {
		return true
	}
	if powerRe.MatchString(cmd) {
		return true
	}
	if gitResetRe.MatchString(cmd) {
		return true
	}
	if gitCleanRe.MatchString(cmd) && hasFlagLetters(cmd, "clean", 'f', 'd') {
		return true
	}
	return false
}

// IsNonActionable reports whether a suggested command is diagnostic-only or
// a no-op that would not actually fix anything. Such commands are withheld:
// the summary is still shown but the command is blanked.
func IsNonActionable(command string) bool {
	cmd := strings.ToLower(strings.TrimSpace(command))
	if cmd == "" {
		return false
	}

	for _, prefix := range []string{"type ", "which ", "command -v "} {
		if strings.HasPrefix(cmd, prefix) {
			return true
		}
	}
	if cmd == "ll" {
		return true
	}
	for _, marker := range []string{"||", "&& echo", "; echo"} {
		if strings.Contains(cmd, marker) {
			return true
		}
	}
	return false
}

// hasFlagLetters scans the argument tokens after the named command word for
// short flags carrying both letters, in either order or combined (-rf, -fr,
// -r -f). Long options and non-flag tokens are ignored.
func hasFlagLetters(cmd, name string, a, b byte) bool {
	fields := strings.Fields(cmd)
	start := -1
	for i, f := range fields {
		if f == name || strings.HasSuffix(f, "/"+name) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return false
	}

	var foundA, foundB bool
	for _, f := range fields[start:] {
		if !strings.HasPrefix(f, "-") || strings.HasPrefix(f, "--") {
			continue
		}
		for j := 1; j < len(f); j++ {
			switch f[j] {
			case a:
				foundA = true
			case b:
				foundB = true
			}
		}
	}
	return foundA && foundB
}
