package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	vangoerrors "github.com/vango-dev/selectctx/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	vangoerrors.SetColor(os.Getenv("NO_COLOR") == "")

	if err := newRootCmd().Execute(); err != nil {
		var ve *vangoerrors.VangoError
		if errors.As(err, &ve) {
			fmt.Fprintln(os.Stderr, ve.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vango-selector",
		Short: "Tools for the vango selector context engine",
		Long: `vango-selector exercises the selector context engine outside of an
application.

  • bench measures fan-out and re-render suppression for a store
    with many subscribers, optionally exposing Prometheus metrics
  • version prints build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		benchCmd(),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
