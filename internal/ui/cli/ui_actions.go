package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.mode == panelResults {
			m.mode = panelHistory
		} else {
			m.mode = panelResults
		}
		return m, nil
	}

	if m.mode == panelHistory {
		var cmd tea.Cmd
		m.historyList, cmd = m.historyList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		return refreshMethodDetail(m)
	case "esc", "backspace":
		m.hasDetail = false
		m.detailErr = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func refreshMethodDetail(m model) (model, tea.Cmd) {
	if m.svc == nil || len(m.items) == 0 {
		return m, nil
	}
	idx := m.resultList.Index()
	if idx < 0 || idx >= len(m.items) {
		idx = 0
	}
	update := m.items[idx]
	if update.SourcePath == "" {
		m.detailErr = "no source file recorded for this entry"
		m.hasDetail = false
		return m, nil
	}
	parsed, err := m.svc.ParseOne(context.Background(), update.SourcePath, update.MethodName)
	if err != nil {
		m.detailErr = err.Error()
		m.hasDetail = false
		return m, nil
	}
	m.detail = parsed
	m.detailName = update.Benchmark
	m.detailErr = ""
	m.hasDetail = true
	return m, nil
}
