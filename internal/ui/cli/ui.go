package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"benchlens/internal/core/ports"
	"benchlens/internal/data/history"
	"benchlens/internal/engine/metrics"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	resultList  list.Model
	historyList list.Model
	mode        panelMode
	svc         ports.BatchService
	store       ports.HistoryStore
	historyRows int

	// Parallel to the list rows; drill-down reads these by list index.
	items []ports.ItemUpdate
	runs  []history.Run

	result        ports.BatchResult
	rate          float64
	parsedCount   int
	failedCount   int
	filteredCount int
	lastTrigger   string
	lastChanged   string
	lastUpdate    time.Time
	runDone       bool

	hasDetail  bool
	detail     *metrics.ParsedMethod
	detailName string
	detailErr  string
	historyErr string
}

type panelMode int

const (
	panelResults panelMode = iota
	panelHistory
)

type itemMsg struct {
	update ports.ItemUpdate
}

type runMsg struct {
	trigger     string
	changedPath string
	result      ports.BatchResult
	completedAt time.Time
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 8
		if height < 5 {
			height = 5
		}
		m.resultList.SetSize(width, height)
		m.historyList.SetSize(width, height)
	case itemMsg:
		m = m.applyItem(msg.update)
	case runMsg:
		m = m.applyRun(msg)
	}

	var cmd tea.Cmd
	if m.mode == panelResults {
		m.resultList, cmd = m.resultList.Update(msg)
	} else {
		m.historyList, cmd = m.historyList.Update(msg)
	}
	return m, cmd
}

func (m model) applyItem(update ports.ItemUpdate) model {
	// A fresh item after a completed run means a new cycle has started.
	if m.runDone {
		m.items = nil
		m.parsedCount = 0
		m.failedCount = 0
		m.filteredCount = 0
		m.runDone = false
	}

	m.items = append(m.items, update)
	switch update.Outcome {
	case ports.OutcomeParsed:
		m.parsedCount++
	case ports.OutcomeFiltered:
		m.filteredCount++
	default:
		m.failedCount++
	}
	m.rate = update.SuccessRate
	m.lastUpdate = time.Now()

	items := make([]list.Item, 0, len(m.items))
	for _, u := range m.items {
		items = append(items, resultItem(u))
	}
	m.resultList.SetItems(items)
	return m
}

func (m model) applyRun(msg runMsg) model {
	m.result = msg.result
	m.rate = msg.result.SuccessRate
	m.lastTrigger = msg.trigger
	m.lastChanged = msg.changedPath
	if !msg.completedAt.IsZero() {
		m.lastUpdate = msg.completedAt
	}
	m.runDone = true
	return m.refreshHistory()
}

func (m model) refreshHistory() model {
	if m.store == nil {
		return m
	}
	runs, err := m.store.RecentRuns(m.historyRows)
	if err != nil {
		m.historyErr = err.Error()
		return m
	}
	m.historyErr = ""
	m.runs = runs

	items := make([]list.Item, 0, len(runs))
	for _, run := range runs {
		status := "ok"
		if run.Interrupted {
			status = "interrupted"
		}
		items = append(items, item{
			title: fmt.Sprintf("%s  %s", run.StartedAt.Local().Format("15:04:05"), shortRunID(run.ID)),
			desc: fmt.Sprintf("parsed %d/%d (%.2f%%) [%d..%d] %s",
				run.Succeeded, run.Attempted, run.SuccessRate, run.FirstIndex, run.LastIndex, status),
		})
	}
	m.historyList.SetItems(items)
	return m
}

func resultItem(update ports.ItemUpdate) item {
	title := fmt.Sprintf("%s %s", outcomeGlyph(update.Outcome), update.MethodName)
	desc := update.Benchmark
	if update.Reason != "" {
		desc = update.Reason
	}
	return item{title: title, desc: desc}
}

func outcomeGlyph(outcome ports.ItemOutcome) string {
	switch outcome {
	case ports.OutcomeParsed:
		return "✔"
	case ports.OutcomeFiltered:
		return "◌"
	default:
		return "✘"
	}
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last run: %s | trigger: %s | results: %s",
		m.lastUpdate.Format("15:04:05"), m.lastTrigger, m.result.OutputPath))
	if m.lastChanged != "" {
		status += statusStyle.Render(fmt.Sprintf(" | changed: %s", filepath.Base(m.lastChanged)))
	}

	var summary string
	switch {
	case m.result.Interrupted:
		summary = warnStyle.Render("run interrupted")
	case m.failedCount > 0:
		summary = fmt.Sprintf("%s | %s",
			successStyle.Render(fmt.Sprintf("%d parsed", m.parsedCount)),
			failStyle.Render(fmt.Sprintf("%d failed", m.failedCount)))
	default:
		summary = successStyle.Render(fmt.Sprintf("%d parsed", m.parsedCount))
	}
	if m.filteredCount > 0 {
		summary += statusStyle.Render(fmt.Sprintf(" | %d filtered", m.filteredCount))
	}
	summary += statusStyle.Render(fmt.Sprintf(" | %.2f%% success", m.rate))

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Benchmark Parse Monitor"), status, summary)
	help := renderHelp(m)

	body := m.resultList.View()
	if m.mode == panelHistory {
		body = renderHistoryPanel(m)
	} else if m.hasDetail || m.detailErr != "" {
		body += "\n\n" + renderMethodDetail(m)
	}

	return docStyle.Render(header + "\n" + help + "\n\n" + body)
}

func initialModel(service ports.BatchService, store ports.HistoryStore, historyRows int) model {
	resultList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	resultList.Title = "Parse Results"
	resultList.SetShowStatusBar(false)
	resultList.SetFilteringEnabled(true)

	historyList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	historyList.Title = "Run History"
	historyList.SetShowStatusBar(false)
	historyList.SetFilteringEnabled(true)

	m := model{
		resultList:  resultList,
		historyList: historyList,
		mode:        panelResults,
		svc:         service,
		store:       store,
		historyRows: historyRows,
		lastTrigger: "startup",
		lastUpdate:  time.Now(),
	}
	return m.refreshHistory()
}
