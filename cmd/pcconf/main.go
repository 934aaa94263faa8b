// Command pcconf builds compatible PC configurations from parts catalogs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/pcconf/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !cli.AlreadyReported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
