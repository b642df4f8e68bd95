package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/obscura/pkg/errors"
	"github.com/matzehuels/obscura/pkg/grid"
	"github.com/matzehuels/obscura/pkg/player"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// frameOptions holds the flags of the frame command.
type frameOptions struct {
	sourceFlags
	at     time.Duration
	format string
	pacing string
	speed  float64
	seed   int64
	manual bool
}

// frameOutput is the JSON form of a simulated frame.
type frameOutput struct {
	AtMS     int64         `json:"at_ms"`
	Seed     int64         `json:"seed"`
	Unit     *string       `json:"unit"`
	Index    int           `json:"index"`
	Complete bool          `json:"complete"`
	Placed   int           `json:"placed_words"`
	Grid     grid.Snapshot `json:"grid"`
}

// frameCommand prints the grid as it would look at a given time.
func (c *CLI) frameCommand() *cobra.Command {
	opts := frameOptions{format: formatText}

	cmd := &cobra.Command{
		Use:   "frame [file|-]",
		Short: "Print the grid at a point in time",
		Long: `Simulate playback headlessly and print the grid at --at.

The simulation ticks at the configured frame rate from zero, exactly as the
interactive player would, so the same input, seed and time always print the
same grid. Lyric letters are upper-cased in text output.`,
		Example: `  obscura frame lyrics.txt --at 4s --seed 42
  obscura frame song.lrc --at 1m2s --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFrame(cmd, args, opts)
		},
	}

	addSourceFlags(cmd, &opts.sourceFlags)
	cmd.Flags().DurationVar(&opts.at, "at", 0, "playback time to simulate to")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text or json")
	cmd.Flags().StringVar(&opts.pacing, "pacing", "", "pacing for plain lyrics: line, word or token")
	cmd.Flags().Float64Var(&opts.speed, "speed", 0, "speed multiplier")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "grid seed")
	cmd.Flags().BoolVar(&opts.manual, "manual", false, "ignore timestamps and pace the text instead")

	return cmd
}

func (c *CLI) runFrame(cmd *cobra.Command, args []string, opts frameOptions) error {
	if opts.format != formatText && opts.format != formatJSON {
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (must be text or json)", opts.format)
	}
	if opts.at < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--at cannot be negative")
	}
	pacing, speed, err := c.resolvePlayback(opts.pacing, opts.speed)
	if err != nil {
		return err
	}
	src, err := c.loadSource(cmd.Context(), args, opts.sourceFlags, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg := c.config()
	seed := c.seed(opts.seed)
	timed := src.hasTimestamps() && !opts.manual
	step := time.Second / time.Duration(cfg.Playback.FPS)

	p, f := player.Replay(func() *player.Player {
		return player.New(grid.New(seed), src.scheduler(timed, pacing, speed), player.Options{
			RefreshInterval: cfg.Playback.RefreshInterval.Duration,
		})
	}, opts.at, step)

	loggerFromContext(cmd.Context()).Debug("simulated frame", "at", opts.at, "seed", seed, "changed", f.Changed)

	out := frameOutput{
		AtMS:     opts.at.Milliseconds(),
		Seed:     seed,
		Index:    -1,
		Complete: f.Complete,
		Placed:   p.Grid().Placed(),
		Grid:     p.Grid().Snapshot(),
	}
	if f.HasUnit {
		text := f.Unit.Text
		out.Unit = &text
		out.Index = f.Unit.Index
	}
	return writeFrame(cmd.OutOrStdout(), out, opts.format)
}

func writeFrame(w io.Writer, out frameOutput, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprint(w, out.Grid.String())
	fmt.Fprintln(w)
	unit := "-"
	if out.Unit != nil {
		unit = fmt.Sprintf("%d %q", out.Index, *out.Unit)
	}
	printKeyValue(w, "time", fmtClock(time.Duration(out.AtMS)*time.Millisecond))
	printKeyValue(w, "unit", unit)
	printKeyValue(w, "placed", fmt.Sprintf("%d words", out.Placed))
	printKeyValue(w, "complete", fmt.Sprintf("%t", out.Complete))
	printKeyValue(w, "seed", fmt.Sprintf("%d", out.Seed))
	return nil
}
