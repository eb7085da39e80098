package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"meilikit/src/pkg/config"
	"meilikit/src/pkg/loggingutil"
	"meilikit/src/pkg/meilitest"
)

// Lifecycle coordinates the shutdown of a long-running process
type Lifecycle struct {
	// shutdownCh is closed when shutdown is triggered
	shutdownCh chan struct{}
	// completeCh is closed when shutdown is complete
	completeCh chan struct{}

	shutdownOnce sync.Once
	completeOnce sync.Once
}

// NewLifecycle creates a Lifecycle with no shutdown pending
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		shutdownCh: make(chan struct{}),
		completeCh: make(chan struct{}),
	}
}

// TriggerShutdown requests the process to begin shutting down
func (l *Lifecycle) TriggerShutdown() {
	l.shutdownOnce.Do(func() {
		close(l.shutdownCh)
	})
}

// ShutdownRequested returns a channel that's closed once shutdown is triggered
func (l *Lifecycle) ShutdownRequested() <-chan struct{} {
	return l.shutdownCh
}

// SignalShutdownComplete should be called after shutdown is complete
func (l *Lifecycle) SignalShutdownComplete() {
	l.completeOnce.Do(func() {
		close(l.completeCh)
	})
}

// ShutdownComplete returns a channel that's closed when shutdown is complete
func (l *Lifecycle) ShutdownComplete() <-chan struct{} {
	return l.completeCh
}

// RunMock serves the stand-in server described by cfg.Mock until SIGINT,
// SIGTERM or lc.TriggerShutdown.
func RunMock(ctx context.Context, cfg *config.Config, lc *Lifecycle) error {
	logger := loggingutil.Get(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := meilitest.New(meilitest.Options{
		Addr:      cfg.Mock.Addr,
		MasterKey: cfg.Mock.MasterKey,
		Logger:    logger,
	})

	if srv.MasterKey() != "" {
		keys := srv.Keys()
		logger.Info("Key checks enabled", "private_key", keys.Private, "public_key", keys.Public)
	} else {
		logger.Warn("No master key set, every route is open")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Received OS signal, shutting down", "signal", sig.String())
			lc.TriggerShutdown()
		case <-lc.ShutdownRequested():
			logger.Info("Received shutdown request")
		case <-ctx.Done():
		}
		cancel()
	}()

	err := srv.Start(ctx)
	lc.SignalShutdownComplete()
	if err != nil {
		return err
	}

	logger.Info("Stand-in server shutdown completed")
	return nil
}
