package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/five82/fkconsole/internal/crash"
)

// SIGINT and SIGTERM are a normal shutdown and handled by the caller's context.
var fatalSignals = []os.Signal{syscall.SIGQUIT, syscall.SIGABRT}

var exit = os.Exit

// watchFatalSignals blocks until ctx is done or a fatal signal arrives.
// release hands the terminal back before the process exits.
func watchFatalSignals(ctx context.Context, bridge *crash.Bridge, release func(), logger *log.Logger) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, fatalSignals...)
	defer signal.Stop(ch)

	select {
	case <-ctx.Done():
	case sig := <-ch:
		handleFatalSignal(sig, bridge, release, logger)
	}
}

func handleFatalSignal(sig os.Signal, bridge *crash.Bridge, release func(), logger *log.Logger) {
	bridge.Fatal("signal " + sig.String())
	if release != nil {
		release()
	}
	logger.Error("fatal signal", "signal", sig)
	exit(2)
}
