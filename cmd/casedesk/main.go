package main

import (
	"os"
	"strings"

	"casedesk/internal/cli"
)

// isCaseID reports whether s looks like a backend case id: letters, digits, '-' or '_',
// with at least one digit. Subcommand names never contain digits.
func isCaseID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
		default:
			return false
		}
	}
	return hasDigit
}

func rewriteDirectCaseArgs(argv []string) []string {
	// Convenience: `casedesk <case-id>` works like `casedesk case set <case-id>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
	// Persistent flags may come first (e.g. `casedesk --base-url ... <case-id>`), so we look for
	// the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--base-url":  true,
		"--dir":       true,
		"--format":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(at int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:at]...)
		out = append(out, "case", "set")
		out = append(out, argv[at:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isCaseID(argv[i+1]) {
				return rewrite(i + 1)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
			}
			continue
		}

		// First positional token.
		if isCaseID(a) {
			return rewrite(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectCaseArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
