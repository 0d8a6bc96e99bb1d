package services_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/services"
)

func TestDispatcher_RunsDetachedFromRequest(t *testing.T) {
	d := services.NewDispatcher(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ctxErr atomic.Value
	d.Go(ctx, "task", func(ctx context.Context) error {
		ctxErr.Store(ctx.Err() == nil)
		return nil
	})
	d.Wait()

	if ok, _ := ctxErr.Load().(bool); !ok {
		t.Error("expected task context to survive request cancellation")
	}
}

func TestDispatcher_SingleAttemptAndLogsFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := services.NewDispatcher(zap.New(core))

	var attempts int32
	d.Go(context.Background(), "parent registration mail", func(context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("smtp down")
	})
	d.Wait()

	if n := atomic.LoadInt32(&attempts); n != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", n)
	}
	entries := logs.FilterMessage("background task failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["task"] != "parent registration mail" {
		t.Errorf("unexpected log fields: %v", entries[0].ContextMap())
	}
}
