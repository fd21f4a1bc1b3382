package cli

import (
	"fmt"
	"strings"

	"benchlens/internal/shared/util"
)

func renderHelp(m model) string {
	keys := "Keys: tab panel | / filter | enter metrics | esc back | q quit"
	if m.mode == panelHistory {
		keys = "Keys: tab panel | / filter | q quit"
	}
	return statusStyle.Render(keys)
}

func renderMethodDetail(m model) string {
	if m.detailErr != "" {
		return failStyle.Render("Metrics error: " + m.detailErr)
	}
	d := m.detail
	lines := []string{
		fmt.Sprintf("Method Detail: %s", m.detailName),
		fmt.Sprintf("  linesOfCode: %d", d.LinesOfCode),
		fmt.Sprintf("  numConditionals: %d", d.NumConditionals),
		fmt.Sprintf("  numLoops: %d (nested: %d)", d.NumLoops, d.NumNestedLoops),
		fmt.Sprintf("  numMethodCalls: %d", d.NumMethodCalls),
		fmt.Sprintf("  packageAccesses (%d):", len(d.PackageAccesses)),
	}
	for _, pkg := range util.SortedStringKeys(d.PackageAccesses) {
		lines = append(lines, fmt.Sprintf("    %s: %d", pkg, d.PackageAccesses[pkg]))
	}
	if len(d.PackageAccesses) == 0 {
		lines = append(lines, "    none")
	}
	lines = append(lines, "  Press esc to close.")
	return strings.Join(lines, "\n")
}

func renderHistoryPanel(m model) string {
	summary := m.historyList.View()
	return summary + "\n\n" + renderSelectedRun(m)
}

func renderSelectedRun(m model) string {
	if m.store == nil {
		return statusStyle.Render("History unavailable (db.enabled=false).")
	}
	if m.historyErr != "" {
		return failStyle.Render("History error: " + m.historyErr)
	}
	if len(m.runs) == 0 {
		return statusStyle.Render("No recorded runs yet.")
	}
	idx := m.historyList.Index()
	if idx < 0 || idx >= len(m.runs) {
		idx = 0
	}
	run := m.runs[idx]
	status := "completed"
	if run.Interrupted {
		status = "interrupted"
	}
	return strings.Join([]string{
		"Selected Run",
		fmt.Sprintf("  ID: %s", run.ID),
		fmt.Sprintf("  Started: %s", run.StartedAt.Local().Format("2006-01-02 15:04:05")),
		fmt.Sprintf("  Range: [%d..%d]", run.FirstIndex, run.LastIndex),
		fmt.Sprintf("  Parsed: %d/%d (%.2f%%)", run.Succeeded, run.Attempted, run.SuccessRate),
		fmt.Sprintf("  Status: %s", status),
		fmt.Sprintf("  Output: %s", run.OutputPath),
	}, "\n")
}
