package ci

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sort"
)

// AuditReport is the part of `npm audit --json` the build looks at; Raw
// keeps the whole document.
type AuditReport struct {
	Metadata struct {
		Vulnerabilities map[string]int `json:"vulnerabilities"`
	} `json:"metadata"`
	Raw map[string]any `json:"-"`
}

// Severities lists the severities with at least one finding, sorted, and
// without the "total" entry.
func (r *AuditReport) Severities() []string {
	var out []string
	for sev, n := range r.Metadata.Vulnerabilities {
		if sev != "total" && n > 0 {
			out = append(out, sev)
		}
	}
	sort.Strings(out)
	return out
}

var severityRank = map[string]int{"info": 0, "low": 1, "moderate": 2, "high": 3, "critical": 4}

// ValidSeverity reports whether sev is an npm audit severity.
func ValidSeverity(sev string) bool {
	_, ok := severityRank[sev]
	return ok
}

// CountAtLeast sums the findings of the given severity and above.
func (r *AuditReport) CountAtLeast(severity string) int {
	floor, ok := severityRank[severity]
	if !ok {
		return 0
	}
	n := 0
	for sev, c := range r.Metadata.Vulnerabilities {
		if rank, ok := severityRank[sev]; ok && rank >= floor {
			n += c
		}
	}
	return n
}

// NpmAudit runs `npm audit --json` in the shell's directory. npm exits
// non-zero when it finds vulnerabilities, so only unreadable output is an error.
func NpmAudit(ctx context.Context, sh Shell) (*AuditReport, error) {
	out, err := sh.Output(ctx, "npm audit --json")
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, err
	}
	return ParseAudit(out)
}

func ParseAudit(raw []byte) (*AuditReport, error) {
	var r AuditReport
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("npm audit: invalid report: %w", err)
	}
	if err := json.Unmarshal(raw, &r.Raw); err != nil {
		return nil, fmt.Errorf("npm audit: invalid report: %w", err)
	}
	return &r, nil
}
