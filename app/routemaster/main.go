package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	formatter "github.com/bluexlab/logrus-formatter"
	"github.com/routemaster-go/routemaster/pkg/routemaster/cli"
	"github.com/sirupsen/logrus"
)

func main() {
	formatter.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.App{}
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		stop()
		logrus.Errorf("failed to run command: %v", err)
		os.Exit(1)
	}
}
