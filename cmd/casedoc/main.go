package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/frherrer/GoE2E-CaseDoc/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cli.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
