package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"tubepost/internal/services"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func reportError(w io.Writer, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	fmt.Fprintf(w, "tubepost: %v\n", err)
	if errors.Is(err, services.ErrConfiguration) {
		fmt.Fprintln(w, "Set the missing value in the config file, the environment, or .env; `tubepost config validate` shows what a run would use.")
	}
}
