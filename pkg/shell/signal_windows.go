package shell

import (
	"os"
	"syscall"
)

func signalName(sig os.Signal) string { return sig.String() }

func handleSignal(sig os.Signal, stderr *os.File) {
	switch sig {
	case syscall.SIGTERM:
		os.Exit(0)
	}
}
