// Command triagectl runs triage operations outside the HTTP API: parsing
// saved model responses, checking backends, saving summaries, applying the
// schema and watching saved-diagnosis events.
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/triage-assistant/internal/config"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	configFile string
	verbose    bool
}

func (o *options) load() (*config.Config, error) {
	if o.configFile != "" {
		return config.Load(o.configFile)
	}
	return config.LoadConfig()
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "triagectl",
		Short:         "Clinical triage assistant tooling",
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default: search ./config.yaml, ./config, /app, /app/config)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log backend calls")

	root.AddCommand(
		newParseCommand(),
		newCheckCommand(opts),
		newSaveCommand(opts),
		newMigrateCommand(opts),
		newWatchCommand(opts),
		newTokenCommand(opts),
	)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		newPrinter(os.Stdout, os.Stderr).fail(err.Error())
		os.Exit(1)
	}
}
