// Package safety screens terminal commands before autonomous execution.
//
// The deny-list is intentionally small and pattern-based. It is not a
// security boundary against a hostile model, only a guard against the
// obviously catastrophic commands a confused one tends to emit. Anything
// it flags falls back to the normal approval flow instead of running.
package safety

import "regexp"

type rule struct {
	pattern *regexp.Regexp
	reason  string
}

var rules = []rule{
	{
		pattern: regexp.MustCompile(`(?i)\brm\s+-(?:rf|fr)\b\s+/`),
		reason:  "recursive force delete of an absolute path",
	},
	{
		pattern: regexp.MustCompile(`(?i)\brm\s+-(?:rf|fr)\b\s+~`),
		reason:  "recursive force delete of the home directory",
	},
	{
		pattern: regexp.MustCompile(`(?i)\bcurl\b[^|]*\|\s*(?:sudo\s+)?(?:sh|bash)\b`),
		reason:  "piping a curl download into a shell",
	},
	{
		pattern: regexp.MustCompile(`(?i)\bwget\b[^|]*\|\s*(?:sudo\s+)?(?:sh|bash)\b`),
		reason:  "piping a wget download into a shell",
	},
	{
		pattern: regexp.MustCompile(`(?i)\bmkfs(?:\.\w+)?\b`),
		reason:  "formatting a filesystem",
	},
	{
		pattern: regexp.MustCompile(`(?i)\bdd\b[^;|&]*\bof=/dev/(?:sd|hd|nvme|vd|xvd)`),
		reason:  "raw write to a block device",
	},
	{
		pattern: regexp.MustCompile(`:\(\)\s*\{\s*:\|:&\s*\}\s*;\s*:`),
		reason:  "fork bomb",
	},
}

// CheckCommand returns a human-readable reason when command matches the
// deny-list, or "" when the command passes. The match is substring-based,
// so deny-listed fragments embedded in longer compound commands are
// caught too.
func CheckCommand(command string) string {
	for _, r := range rules {
		if r.pattern.MatchString(command) {
			return r.reason
		}
	}
	return ""
}
