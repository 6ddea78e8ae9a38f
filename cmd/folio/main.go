// Command folio is a terminal portfolio page driven by the pointer motion
// subsystem: a spring-smoothed decorated cursor, hover states, smooth scrolling
// and curtain transitions between sections
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/folio/app"
	"github.com/lixenwraith/folio/audio"
	"github.com/lixenwraith/folio/capability"
	"github.com/lixenwraith/folio/config"
	"github.com/lixenwraith/folio/core"
	"github.com/lixenwraith/folio/cursor"
	"github.com/lixenwraith/folio/frame"
	"github.com/lixenwraith/folio/inspect"
	"github.com/lixenwraith/folio/render"
	"github.com/lixenwraith/folio/service"
	"github.com/lixenwraith/folio/terminal"
	"github.com/lixenwraith/folio/transition"
)

var (
	configFlag  = flag.String("config", "folio.toml", "Config file; missing files use defaults")
	debugFlag   = flag.Bool("debug", false, "Write logs to logs/folio.log")
	policyFlag  = flag.String("policy", "", "Pointer policy: auto, fine, coarse")
	colorFlag   = flag.String("color", "", "Color mode: auto, truecolor, 256")
	muteFlag    = flag.Bool("mute", false, "Start with audio cues muted")
	inspectFlag = flag.String("inspect", "", "Serve the state inspector on this address")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	if f := setupLogging(*debugFlag); f != nil {
		defer f.Close()
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		os.Exit(1)
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		os.Exit(1)
	}
}

// applyFlags overlays command-line flags; flags win over file and environment
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "policy":
			cfg.Pointer.Policy = *policyFlag
		case "color":
			cfg.Render.ColorMode = *colorFlag
		case "mute":
			cfg.Audio.Muted = *muteFlag
		case "inspect":
			cfg.Inspect.Enabled = *inspectFlag != ""
			if *inspectFlag != "" {
				cfg.Inspect.Addr = *inspectFlag
			}
		}
	})
}

// loopSource delivers capability changes on the UI goroutine
type loopSource struct {
	inner capability.Source
	loop  *frame.Loop
}

func (s loopSource) Fine() (bool, error) {
	return s.inner.Fine()
}

func (s loopSource) Watch(fn func(bool)) func() {
	return s.inner.Watch(func(fine bool) {
		s.loop.Post(func() { fn(fine) })
	})
}

func run(cfg config.Config) error {
	mode, err := cfg.Render.Mode()
	if err != nil {
		return err
	}

	loop := frame.NewLoop(frame.Interval(cfg.Frame.Rate))
	hub := service.NewHub()

	termSvc := terminal.NewService(terminal.WithPanicHandler(core.HandleCrash))
	audioSvc := audio.NewService(cfg.Audio.Player(), audio.Speaker())

	core.SetCrashCleanup(func() {
		if s := termSvc.Screen(); s != nil {
			s.Fini()
		}
	})
	defer core.SetCrashCleanup(nil)

	if err := hub.Register(termSvc, true, mode); err != nil {
		return err
	}
	if err := hub.Register(audioSvc); err != nil {
		return err
	}

	capTerm := capability.NewTerminal(termSvc)
	defer capTerm.Close()
	override := capability.NewOverride(loopSource{inner: capTerm, loop: loop}, cfg.Pointer.PolicyValue())

	// Viewport is corrected by the first resize event
	doc := newDocument(24)
	sys := app.New(app.Options{
		Clock:    loop,
		Source:   override,
		Layout:   doc.layout,
		Elements: doc.elements(),
		Cues:     audioSvc,
		Spring:   cfg.Spring.Physics(),
		Scroll:   cfg.Scroll.Controller(),
		Render: []render.Option{
			render.WithMetric(cfg.Render.Metric()),
			render.WithColorMode(mode),
		},
		Transition: transition.DefaultDuration,
	})
	for _, p := range doc.parallax {
		sys.AddParallax(p)
	}

	watcher := config.NewWatcher(*configFlag, config.DefaultDebounce, func(c config.Config) {
		loop.Post(func() { applyConfig(sys, override, audioSvc, c) })
	})
	watcher.OnError(func(err error) {
		log.Printf("config reload rejected: %v", err)
	})
	if err := hub.Register(watcher, *configFlag); err != nil {
		return err
	}

	if cfg.Inspect.Enabled {
		backend := app.NewBackend(sys, loop)
		backend.Policy = func() string { return override.Policy().String() }
		backend.Muted = audioSvc.IsMuted
		backend.Frames = loop.Frames
		if err := hub.Register(inspect.NewService(backend), cfg.Inspect.Addr); err != nil {
			return err
		}
	}

	if err := hub.InitAll(); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	defer hub.StopAll()

	if p := audioSvc.Player(); p != nil {
		p.SetMuted(cfg.Audio.Muted)
	}

	screen := termSvc.Screen()
	if screen == nil {
		return fmt.Errorf("terminal: no screen")
	}

	loop.Start()
	defer loop.Stop()

	var (
		quit     = make(chan struct{})
		quitOnce sync.Once
	)
	stop := func() { quitOnce.Do(func() { close(quit) }) }

	var startErr error
	loop.Call(func() {
		if _, h := screen.Size(); h > 0 {
			doc.build(h)
			sys.SetElements(doc.elements())
		}
		if startErr = sys.Start(); startErr != nil {
			return
		}
		sys.Router.OnResize(func(size app.Point) {
			// Sections are at least a viewport tall, so a resize moves everything
			doc.build(size.Y)
			sys.SetElements(doc.elements())
			screen.Sync()
		})
		sys.Router.OnKey(func(ev terminal.Event) {
			handleKey(ev, sys, doc, override, audioSvc, stop)
		})
		sys.OnActivate(func(el cursor.Element) {
			if anchor, ok := doc.target(el.ID); ok {
				if err := sys.Navigate(anchor, true); err != nil {
					log.Printf("navigate %s: %v", anchor, err)
				}
				return
			}
			log.Printf("activated %s", el.ID)
		})

		draw := loop.NewTicker()
		draw.Start(func(time.Duration) {
			doc.draw(screen, sys.Scroller.Row(), sys.Scroller, mode)
			sys.Draw(screen, mode)
			screen.Show()
		})
	})
	if startErr != nil {
		return startErr
	}
	defer loop.Call(sys.Stop)

	log.Printf("folio running: color=%s policy=%s inspect=%v", mode, override.Policy(), cfg.Inspect.Enabled)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	events := termSvc.Events()
	for {
		select {
		case <-quit:
			return nil
		case <-sigCh:
			return nil
		case ev := <-events:
			if ev.Type == terminal.EventClosed {
				return nil
			}
			loop.Post(func() { sys.Router.Dispatch(ev) })
		}
	}
}

// handleKey runs on the UI goroutine for keys the router does not scroll with
func handleKey(ev terminal.Event, sys *app.Subsystem, doc *document, override *capability.Override, audioSvc *audio.Service, quit func()) {
	switch ev.Key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		quit()
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch r := ev.Rune; {
	case r == 'q':
		quit()
	case r >= '1' && r <= '9':
		if anchor, ok := doc.anchor(int(r - '0')); ok {
			if err := sys.Navigate(anchor, true); err != nil {
				log.Printf("navigate %s: %v", anchor, err)
			}
		}
	case r == 'm':
		next := (override.Policy() + 1) % 3
		override.SetPolicy(next)
		log.Printf("pointer policy %s", next)
	case r == 's':
		audioSvc.ToggleMute()
	}
}

// applyConfig pushes a reloaded config into the running components
func applyConfig(sys *app.Subsystem, override *capability.Override, audioSvc *audio.Service, c config.Config) {
	sys.Tracker.SetSpring(c.Spring.Physics())
	sys.Scroller.SetConfig(c.Scroll.Controller())
	override.SetPolicy(c.Pointer.PolicyValue())
	if p := audioSvc.Player(); p != nil {
		p.SetVolumes(c.Audio.MasterVolume, c.Audio.HoverVolume, c.Audio.ClickVolume)
		p.SetMuted(c.Audio.Muted)
	}
	log.Printf("config applied")
}
