package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/obscura/pkg/buildinfo"
	"github.com/matzehuels/obscura/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the configuration file is loaded (from
// --config or the default path), the logger is attached to the command
// context, and playback and lookup events are routed to the logger.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Obscura lets lyrics surface from a grid of shifting letters",
		Long: `Obscura fills the terminal with a grid of pseudo-random letters and places the
words of a lyric into it in reading order, one line, word or token at a time.
Lyrics come from a file, standard input, or a lookup on lrclib.net; synced
lyrics follow their timestamps.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			hooks := &logHooks{logger: c.Logger}
			observability.SetPlaybackHooks(hooks)
			observability.SetLookupHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/obscura/config.toml)")

	// Register all subcommands
	root.AddCommand(c.playCommand())
	root.AddCommand(c.frameCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
