package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
	"github.com/rs/zerolog"

	"github.com/dshills/evoke"
	"github.com/dshills/evoke/loop"
)

// Progress is raised by a worker after each unit of work.
type Progress struct {
	Worker   int
	Fraction float64
}

// EventArgs implements evoke.Args.
func (Progress) EventArgs() {}

// Status carries a status-line message.
type Status struct {
	Text string
}

// EventArgs implements evoke.Args.
func (Status) EventArgs() {}

// demo owns the terminal state. Every field below ui is owned by the ui
// loop and only touched from subscribers bound to it.
type demo struct {
	cfg    Config
	log    zerolog.Logger
	screen tcell.Screen
	ui     *loop.Loop

	progress *evoke.Event[Progress]
	status   *evoke.Event[Status]

	bars       []float64
	statusText string
	from, to   colorful.Color
}

func newDemo(cfg Config, log zerolog.Logger, screen tcell.Screen, ui *loop.Loop) (*demo, error) {
	from, err := colorful.Hex(cfg.GradientFrom)
	if err != nil {
		return nil, fmt.Errorf("gradient.from: %w", err)
	}
	to, err := colorful.Hex(cfg.GradientTo)
	if err != nil {
		return nil, fmt.Errorf("gradient.to: %w", err)
	}

	d := &demo{
		cfg:    cfg,
		log:    log,
		screen: screen,
		ui:     ui,
		progress: evoke.New[Progress](
			evoke.WithName("worker.progress"),
		),
		status: evoke.New[Status](
			evoke.WithName("worker.status"),
		),
		bars: make([]float64, cfg.Workers),
		from: from,
		to:   to,
	}

	// Drawing subscribers are bound to the ui loop: raises from worker
	// goroutines marshal onto it and block until the frame is updated.
	if _, err := d.progress.Subscribe(d.onProgress, evoke.WithTarget(ui)); err != nil {
		return nil, err
	}
	if _, err := d.status.Subscribe(d.onStatus, evoke.WithTarget(ui)); err != nil {
		return nil, err
	}
	return d, nil
}

// startWorkers launches one raising goroutine per configured worker.
func (d *demo) startWorkers() {
	tick := time.Duration(d.cfg.TickMillis) * time.Millisecond
	for i := 0; i < d.cfg.Workers; i++ {
		go d.work(i, tick)
	}
}

// work raises progress from a non-UI goroutine. Each Raise returns only
// after the bar has been drawn, or after the subscriber was skipped because
// the ui loop was torn down mid-flight.
func (d *demo) work(id int, tick time.Duration) {
	for step := 0; step <= 100; step++ {
		time.Sleep(tick)
		if d.ui.Disposed() {
			return
		}
		err := d.progress.Raise(d, Progress{Worker: id, Fraction: float64(step) / 100})
		if err != nil {
			d.log.Error().Err(err).Int("worker", id).Msg("progress raise failed")
			return
		}
	}
	if err := d.status.Raise(d, Status{Text: fmt.Sprintf("worker %d finished", id)}); err != nil {
		d.log.Error().Err(err).Int("worker", id).Msg("status raise failed")
	}
}

// pollEvents converts terminal events into work on the ui loop. PollEvent
// is blocking; Fini in main unblocks it with a nil event on shutdown.
func (d *demo) pollEvents() {
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}
		switch tev := ev.(type) {
		case *tcell.EventKey:
			if tev.Key() == tcell.KeyEscape || tev.Key() == tcell.KeyCtrlC || tev.Rune() == 'q' {
				d.ui.Dispose()
				return
			}
		case *tcell.EventResize:
			// A resize recreates the loop's queue the way a native handle
			// is destroyed and recreated: raises blocked on queued
			// subscribers observe the cleared bookkeeping and move on.
			d.ui.Recreate()
			d.log.Debug().Msg("resize: ui queue recreated")
			if _, err := d.ui.Post(d.redraw); err != nil {
				d.log.Error().Err(err).Msg("redraw post failed")
			}
		}
	}
}

// onProgress runs on the ui loop.
func (d *demo) onProgress(sender any, args Progress) error {
	if args.Worker < 0 || args.Worker >= len(d.bars) {
		return fmt.Errorf("progress for unknown worker %d", args.Worker)
	}
	d.bars[args.Worker] = args.Fraction
	return d.redraw()
}

// onStatus runs on the ui loop.
func (d *demo) onStatus(sender any, args Status) error {
	d.statusText = args.Text
	return d.redraw()
}

// redraw repaints the whole frame. Only ever called on the ui loop.
func (d *demo) redraw() error {
	d.screen.Clear()
	width, height := d.screen.Size()

	for i, frac := range d.bars {
		d.drawBar(i, frac, width)
	}
	d.drawStatus(width, height)

	d.screen.Show()
	return nil
}

// drawBar renders one worker's progress bar with a color blended along the
// configured gradient.
func (d *demo) drawBar(row int, frac float64, width int) {
	label := fmt.Sprintf("worker %d %3.0f%% ", row, frac*100)
	x := 0
	for _, r := range label {
		d.screen.SetContent(x, row, r, nil, tcell.StyleDefault)
		x++
	}

	barWidth := width - x - 1
	if barWidth <= 0 {
		return
	}
	filled := int(frac * float64(barWidth))
	for i := 0; i < barWidth; i++ {
		r := ' '
		style := tcell.StyleDefault
		if i < filled {
			c := d.from.BlendHcl(d.to, float64(i)/float64(barWidth)).Clamped()
			cr, cg, cb := c.RGB255()
			style = style.Background(tcell.NewRGBColor(int32(cr), int32(cg), int32(cb)))
		}
		d.screen.SetContent(x+i, row, r, nil, style)
	}
}

// drawStatus centers the status line at the bottom of the screen.
func (d *demo) drawStatus(width, height int) {
	if d.statusText == "" || height == 0 {
		return
	}
	text := d.statusText
	x := (width - uniseg.StringWidth(text)) / 2
	if x < 0 {
		x = 0
	}
	for _, r := range text {
		if x >= width {
			break
		}
		d.screen.SetContent(x, height-1, r, nil, tcell.StyleDefault.Bold(true))
		x++
	}
}
