//go:build unix

package shell

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
	"src.sigma.sh/pkg/sys"
)

func signalName(sig os.Signal) string {
	return unix.SignalName(sig.(syscall.Signal))
}

func handleSignal(sig os.Signal, stderr *os.File) {
	switch sig {
	case syscall.SIGHUP:
		os.Exit(0)
	case syscall.SIGUSR1:
		fmt.Fprint(stderr, sys.DumpStack())
	}
}
