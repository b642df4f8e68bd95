package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/obscura/pkg/lyrics"
)

// fetchCommand looks up lyrics and prints them.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		sf  sourceFlags
		lrc bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <query>",
		Short: "Look up lyrics on lrclib.net",
		Long: `Look up lyrics on lrclib.net and print the timed lines.

Synced lyrics keep their timestamps; plain lyrics are spaced 2s apart.
Results are cached; use --refresh to bypass the cache.`,
		Example: `  obscura fetch "daft punk digital love"
  obscura fetch "radiohead reckoner" --lrc > reckoner.lrc`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			sf.song = strings.Join(args, " ")

			prog := newProgress(logger)
			spin := newSpinner(ctx, cmd.ErrOrStderr(), "Looking up "+sf.song)
			spin.Start()
			src, err := c.lookupSource(ctx, sf)
			cancelled := spin.Cancelled()
			spin.Stop()
			if err != nil {
				if cancelled {
					return ctx.Err()
				}
				return err
			}
			prog.done(fmt.Sprintf("Fetched %d lines", len(src.Lines)))

			out := cmd.OutOrStdout()
			if lrc {
				fmt.Fprint(out, lyrics.FormatLRC(src.Lines))
				return nil
			}
			printKeyValue(out, "track", src.Title)
			printKeyValue(out, "lyrics", lyricKind(src.Synced))
			fmt.Fprintln(out, linesTable(src.Lines))
			return nil
		},
	}

	cmd.Flags().BoolVar(&lrc, "lrc", false, "print LRC instead of a table")
	cmd.Flags().BoolVar(&sf.noCache, "no-cache", false, "disable the lookup cache")
	cmd.Flags().BoolVar(&sf.refresh, "refresh", false, "bypass cached lookups")

	return cmd
}

func linesTable(lines []lyrics.Line) string {
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = []string{fmt.Sprintf("%d", i+1), fmtClock(l.Onset), l.Text}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorAsh).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Onset", "Line").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col < 2:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}
