package shell

import (
	"os"
	"os/signal"

	"src.sigma.sh/pkg/sys"
)

// Starts handling the signals delivered by sys.NotifySignals. The returned
// function stops the handling.
func initSignal(stderr *os.File) func() {
	sigCh := sys.NotifySignals()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				logger.Println("signal", signalName(sig))
				handleSignal(sig, stderr)
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
