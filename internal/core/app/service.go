// # internal/core/app/service.go
package app

import (
	"context"
	"fmt"

	"benchlens/internal/core/errors"
	"benchlens/internal/core/ports"
	"benchlens/internal/engine/metrics"
	"benchlens/internal/shared/observability"
)

// batchService is the ports.BatchService implementation handed to the UI
// layers. It stays thin: context guards, tracing, delegation to the App.
type batchService struct {
	app *App
}

var _ ports.BatchService = (*batchService)(nil)

// NewBatchService wraps the App in its service surface.
func NewBatchService(app *App) ports.BatchService {
	return &batchService{app: app}
}

func (s *batchService) RunBatch(ctx context.Context, req ports.BatchRequest) (ports.BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.BatchResult{}, err
	}
	if s.app == nil {
		return ports.BatchResult{}, fmt.Errorf("app is required")
	}
	ctx, span := observability.Tracer.Start(ctx, "service.RunBatch")
	defer span.End()
	return s.app.RunBatch(ctx, req)
}

func (s *batchService) ParseOne(ctx context.Context, path, methodName string) (*metrics.ParsedMethod, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.app == nil {
		return nil, fmt.Errorf("app is required")
	}
	_, span := observability.Tracer.Start(ctx, "service.ParseOne")
	defer span.End()

	parsed, err := s.app.Engine.ParseMethod(path, methodName)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "parse_one")
	}
	return parsed, nil
}

func (s *batchService) Subscribe(ctx context.Context, handler func(ports.ItemUpdate)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.app == nil {
		return fmt.Errorf("app is required")
	}
	s.app.SetItemHandler(handler)
	return nil
}

func (s *batchService) WatchService() ports.WatchService {
	return &watchService{app: s.app}
}

// watchService exposes the watch-mode lifecycle and its latest result.
type watchService struct {
	app *App
}

var _ ports.WatchService = (*watchService)(nil)

func (s *watchService) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.app == nil {
		return fmt.Errorf("app is required")
	}
	_, span := observability.Tracer.Start(ctx, "service.WatchStart")
	defer span.End()
	return s.app.StartWatcher(ctx)
}

func (s *watchService) CurrentUpdate(ctx context.Context) (ports.WatchUpdate, error) {
	if err := ctx.Err(); err != nil {
		return ports.WatchUpdate{}, err
	}
	if s.app == nil {
		return ports.WatchUpdate{}, fmt.Errorf("app is required")
	}
	update, ok := s.app.LastWatchUpdate()
	if !ok {
		return ports.WatchUpdate{}, errors.New(errors.CodeNotFound, "no watch cycle has completed yet")
	}
	return update, nil
}

func (s *watchService) Subscribe(ctx context.Context, handler func(ports.WatchUpdate)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.app == nil {
		return fmt.Errorf("app is required")
	}
	s.app.SetWatchHandler(handler)
	return nil
}
