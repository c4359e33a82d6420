package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/bmi/internal/testrequests"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := testrequests.NewCommand().Run(ctx, os.Args)
	stop()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
