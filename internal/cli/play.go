package cli

import (
	"fmt"
	"os"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/obscura/pkg/errors"
	"github.com/matzehuels/obscura/pkg/grid"
	"github.com/matzehuels/obscura/pkg/lyrics"
	"github.com/matzehuels/obscura/pkg/player"
)

// playOptions holds the flags of the play command.
type playOptions struct {
	sourceFlags
	pacing  string
	speed   float64
	seed    int64
	manual  bool
	paused  bool
	logFile string
}

// playCommand creates the interactive player.
func (c *CLI) playCommand() *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play [file|-]",
		Short: "Play a lyric in the terminal",
		Long: `Play a lyric in a full-screen grid of shifting letters.

Lyrics are read from a file, from stdin ("-"), or looked up with --song.
Synced lyrics (LRC) follow their timestamps; plain text is paced by line,
word or token.

Keys:
  space  play / pause       r  restart
  +/-    speed              p  cycle pacing
  t      timestamps on/off  n  new seed
  q      quit`,
		Example: `  obscura play lyrics.txt --pacing word
  cat song.lrc | obscura play -
  obscura play --song "daft punk digital love"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd, args, opts)
		},
	}

	addSourceFlags(cmd, &opts.sourceFlags)
	cmd.Flags().StringVar(&opts.pacing, "pacing", "", "pacing for plain lyrics: line, word or token (default from config)")
	cmd.Flags().Float64Var(&opts.speed, "speed", 0, "speed multiplier, 0.5 to 2.0 (default from config)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "grid seed (default from config, else random)")
	cmd.Flags().BoolVar(&opts.manual, "manual", false, "ignore timestamps and pace the text instead")
	cmd.Flags().BoolVar(&opts.paused, "paused", false, "start paused")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file while playing")

	return cmd
}

func addSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	cmd.Flags().StringVar(&f.song, "song", "", "look up lyrics on lrclib.net")
	cmd.Flags().BoolVar(&f.timed, "timed", false, "space plain lyric lines 2s apart and follow those timestamps")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the lookup cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass cached lookups")
}

// resolvePlayback applies config defaults to the pacing and speed flags.
func (c *CLI) resolvePlayback(pacingFlag string, speedFlag float64) (lyrics.Pacing, float64, error) {
	pacing := c.config().PacingMode()
	if pacingFlag != "" {
		p, err := lyrics.ParsePacing(pacingFlag)
		if err != nil {
			return "", 0, errors.Wrap(errors.ErrCodeInvalidPacing, err, "invalid --pacing")
		}
		pacing = p
	}
	speed := c.config().Playback.Speed
	if speedFlag != 0 {
		speed = speedFlag
	}
	if err := errors.ValidateSpeed(speed); err != nil {
		return "", 0, err
	}
	return pacing, speed, nil
}

func (c *CLI) runPlay(cmd *cobra.Command, args []string, opts playOptions) error {
	ctx := cmd.Context()
	pacing, speed, err := c.resolvePlayback(opts.pacing, opts.speed)
	if err != nil {
		return err
	}
	speed = min(max(speed, minSpeed), maxSpeed)

	src, err := c.loadSource(ctx, args, opts.sourceFlags, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg := c.config()
	m := newPlayModel(src, playSettings{
		pacing:   pacing,
		speed:    speed,
		timed:    src.hasTimestamps() && !opts.manual,
		seed:     c.seed(opts.seed),
		fps:      cfg.Playback.FPS,
		refresh:  cfg.Playback.RefreshInterval.Duration,
		autoplay: !opts.paused,
		palette:  newPalette(cfg.Display.LyricColor, cfg.Display.AmbientColor, cfg.Display.Border),
	})

	restore, err := redirectLogger(c.Logger, opts.logFile, os.Stderr)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer restore()
	c.Logger.Info("playing", "title", src.Title, "units", len(m.player.Scheduler().Units()), "timed", m.timed, "seed", m.seed)

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// playModel - interactive playback
// =============================================================================

// playSettings is the initial state of a playModel.
type playSettings struct {
	pacing   lyrics.Pacing
	speed    float64
	timed    bool
	seed     int64
	fps      int
	refresh  time.Duration
	autoplay bool
	palette  palette
}

// tickMsg is one frame of the playback loop.
type tickMsg time.Time

// playModel is the bubbletea model driving a Player from wall time.
type playModel struct {
	src     *lyricSource
	player  *player.Player
	clock   player.Clock
	frame   player.Frame
	pacing  lyrics.Pacing
	speed   float64
	timed   bool
	seed    int64
	fps     int
	refresh time.Duration
	palette palette

	// nextSeed picks the seed for the "n" key.
	nextSeed func() int64
	// now is the wall clock; tests replace it.
	now func() time.Time
}

func newPlayModel(src *lyricSource, s playSettings) *playModel {
	if s.fps <= 0 {
		s.fps = 30
	}
	m := &playModel{
		src:      src,
		pacing:   s.pacing,
		speed:    s.speed,
		timed:    s.timed,
		seed:     s.seed,
		fps:      s.fps,
		refresh:  s.refresh,
		palette:  s.palette,
		nextSeed: func() int64 { return time.Now().UnixMilli() },
		now:      time.Now,
	}
	m.player = player.New(grid.New(m.seed), m.scheduler(), player.Options{RefreshInterval: m.refresh})
	if s.autoplay {
		m.setPlaying(true)
	}
	return m
}

func (m *playModel) scheduler() lyrics.Scheduler {
	return m.src.scheduler(m.timed, m.pacing, m.speed)
}

func (m *playModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *playModel) setPlaying(on bool) {
	if on {
		m.player.Play()
		m.clock.Start(m.now())
	} else {
		m.player.Pause()
		m.clock.Stop(m.now())
	}
}

func (m *playModel) Init() tea.Cmd {
	return m.tick()
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case tickMsg:
		m.frame = m.player.Tick(m.clock.Elapsed(time.Time(msg)))
		if m.frame.Complete && m.player.Playing() {
			m.setPlaying(false)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *playModel) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case " ":
		if m.frame.Complete && !m.player.Playing() {
			m.restart()
		}
		m.setPlaying(!m.player.Playing())
	case "r":
		m.restart()
	case "n":
		playing := m.player.Playing()
		m.seed = m.nextSeed()
		m.clock.Reset()
		m.player = player.New(grid.New(m.seed), m.scheduler(), player.Options{RefreshInterval: m.refresh})
		m.frame = player.Frame{}
		if playing {
			m.setPlaying(true)
		}
	case "+", "=":
		m.setSpeed(m.speed + speedStep)
	case "-", "_":
		m.setSpeed(m.speed - speedStep)
	case "p":
		i := slices.Index(lyrics.Pacings, m.pacing)
		m.pacing = lyrics.Pacings[(i+1)%len(lyrics.Pacings)]
		if !m.timed {
			m.player.SetScheduler(m.scheduler())
		}
	case "t":
		if m.src.hasTimestamps() {
			m.timed = !m.timed
			m.player.SetScheduler(m.scheduler())
		}
	}
	return nil
}

func (m *playModel) restart() {
	m.clock.Reset()
	m.player.Restart()
	m.frame = player.Frame{}
}

// setSpeed changes the pace of plain playback. Timestamps ignore speed.
func (m *playModel) setSpeed(s float64) {
	s = min(max(s, minSpeed), maxSpeed)
	if s == m.speed {
		return
	}
	m.speed = s
	if !m.timed {
		m.player.SetScheduler(m.scheduler())
	}
}

func (m *playModel) View() string {
	return m.palette.render(m)
}
