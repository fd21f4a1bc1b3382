package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"benchlens/internal/core/ports"
)

func runUI(ctx context.Context, service ports.BatchService, store ports.HistoryStore, historyRows int, initial ports.BatchResult) error {
	m := initialModel(service, store, historyRows)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if err := service.Subscribe(ctx, func(update ports.ItemUpdate) {
		p.Send(itemMsg{update: update})
	}); err != nil {
		return err
	}
	if err := service.WatchService().Subscribe(ctx, func(update ports.WatchUpdate) {
		p.Send(runMsg{
			trigger:     update.Trigger,
			changedPath: update.ChangedPath,
			result:      update.Result,
			completedAt: update.CompletedAt,
		})
	}); err != nil {
		return err
	}

	go func() {
		p.Send(runMsg{trigger: "startup", result: initial, completedAt: time.Now()})
	}()

	_, err := p.Run()
	return err
}
