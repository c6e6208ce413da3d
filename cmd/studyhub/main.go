package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nhle/studyhub/internal/app"
	"github.com/nhle/studyhub/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background(), cli.WithTUI(runTUI)); err != nil {
		fmt.Fprintf(os.Stderr, "studyhub: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(ctx context.Context, d *cli.Deps) error {
	st, err := d.Store()
	if err != nil {
		return err
	}
	sessions, err := d.Sessions()
	if err != nil {
		return err
	}

	return app.Run(ctx, app.Options{
		Config:       d.Config,
		Logger:       d.Logger,
		Metrics:      d.Metrics,
		Store:        st,
		Sessions:     sessions,
		NewClient:    d.NewClient,
		NewRefresher: d.Refresher,
	})
}
