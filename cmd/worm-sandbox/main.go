// worm-sandbox runs the worm simulation in a terminal, the mouse standing in for the browser pointer
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/algebra-worms/audio"
	"github.com/lixenwraith/algebra-worms/config"
	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/cursor"
	"github.com/lixenwraith/algebra-worms/engine"
	"github.com/lixenwraith/algebra-worms/obstacle"
	"github.com/lixenwraith/algebra-worms/powerup"
	"github.com/lixenwraith/algebra-worms/render"
	"github.com/lixenwraith/algebra-worms/symbol"
)

const (
	// Arena pixels per terminal cell, roughly a browser glyph
	cellWidth  = 12.0
	cellHeight = 24.0

	renderInterval = 33 * time.Millisecond
	hudSelector    = ".hud"
	hud            = " s spawn  p purple  1 spider  2 chain  3 devil  r reveal  c clear  q quit "
)

var (
	configFlag   = flag.String("config", "", "YAML config file")
	debugFlag    = flag.Bool("debug", false, "Write logs to logs/worm-sandbox.log")
	equationFlag = flag.String("equation", "3x + 7 = 2x - 5", "Equation whose symbols the worms steal")
	wormsFlag    = flag.Int("worms", 3, "Worms spawned at start")
	muteFlag     = flag.Bool("mute", false, "Disable audio cues")
)

type sandbox struct {
	screen   tcell.Screen
	renderer *render.Renderer
	engine   *engine.Engine
	layout   *obstacle.LayoutSource
	player   *audio.Player
	scenes   chan render.Scene
	buttons  tcell.ButtonMask
}

func main() {
	flag.Parse()
	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *muteFlag {
		cfg.Audio.Enabled = false
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)

	// Engine goroutines restore the terminal before dying
	core.SetCrashHandler(func(r any) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "\nworm-sandbox crashed: %v\n%s\n", r, debug.Stack())
		os.Exit(1)
	})
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\nworm-sandbox crashed: %v\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	sb, err := newSandbox(screen, cfg)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "engine: %v\n", err)
		os.Exit(1)
	}
	sb.run()
	sb.close()
	screen.Fini()
}

func newSandbox(screen tcell.Screen, cfg config.Config) (*sandbox, error) {
	layout := obstacle.NewLayoutSource()
	eng, err := engine.New(cfg, engine.Deps{Logger: log.Default(), Obstacles: layout})
	if err != nil {
		return nil, err
	}

	sb := &sandbox{
		screen:   screen,
		renderer: render.NewRenderer(screen, core.Rect{}),
		engine:   eng,
		layout:   layout,
		player:   audio.Open(cfg.Audio, nil, log.Default(), eng.Status()),
		scenes:   make(chan render.Scene, 1),
	}
	eng.Register(sb.player)
	sb.resize()

	eng.Start()
	eng.Post(func() {
		for i := 0; i < *wormsFlag; i++ {
			if err := eng.RequestSpawn(engine.KindBasic, engine.SpawnRequest{Slot: -1}); err != nil {
				log.Printf("sandbox: initial spawn: %v", err)
				break
			}
		}
	})
	return sb, nil
}

// resize fits the arena to the terminal and re-lays the equation
func (sb *sandbox) resize() {
	cols, rows := sb.screen.Size()
	arena := core.NewRect(0, 0, float64(cols)*cellWidth, float64(max(rows-1, 1))*cellHeight)
	sb.renderer.SetArena(arena)
	sb.layout.Set(hudSelector, []core.Rect{sb.renderer.HudRect(hud)})

	symbols := layoutEquation(*equationFlag, sb.renderer.Viewport())
	sb.engine.Post(func() {
		sb.engine.SetBounds(arena)
		sb.engine.LoadSymbols(symbols)
		sb.engine.InvalidateObstacles()
	})
}

func (sb *sandbox) close() {
	sb.engine.Stop()
	sb.player.Close()
}

func (sb *sandbox) run() {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := sb.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if !sb.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			sb.requestScene()
		case sc := <-sb.scenes:
			sb.renderer.Draw(sc)
		}
	}
}

// requestScene captures a scene on the engine goroutine
func (sb *sandbox) requestScene() {
	sb.engine.Post(func() {
		sc := render.Scene{
			Snapshot:  sb.engine.Snapshot(),
			Cursor:    sb.engine.Cursor(),
			Obstacles: sb.layout.QueryRects(hudSelector),
			Hud:       hud,
		}
		select {
		case sb.scenes <- sc:
		default:
		}
	})
}

func (sb *sandbox) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		sb.screen.Sync()
		sb.resize()

	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := sb.renderer.Viewport().ToArena(col, row)
		pressed := ev.Buttons()&tcell.Button1 != 0 && sb.buttons&tcell.Button1 == 0
		sb.buttons = ev.Buttons()
		kind := cursor.KindMove
		if pressed {
			kind = cursor.KindDown
		}
		sb.engine.HandlePointer(cursor.PointerEvent{Kind: kind, X: x, Y: y, PointerType: "mouse"})

	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case 's':
			sb.command("spawn", func(e *engine.Engine) error {
				return e.RequestSpawn(engine.KindBasic, engine.SpawnRequest{Slot: -1})
			})
		case 'p':
			sb.command("spawn purple", func(e *engine.Engine) error {
				return e.RequestSpawn(engine.KindPurple, engine.SpawnRequest{Slot: -1, Purple: true, CanStealBlue: true})
			})
		case '1':
			sb.arm(powerup.KindSpider)
		case '2':
			sb.arm(powerup.KindChain)
		case '3':
			sb.arm(powerup.KindDevil)
		case 'r':
			sb.command("reveal", revealNext)
		case 'c':
			sb.command("clear", func(e *engine.Engine) error {
				e.ClearLevel()
				return nil
			})
		}
	}
	return true
}

func (sb *sandbox) arm(kind powerup.Kind) {
	sb.command("arm "+string(kind), func(e *engine.Engine) error {
		return e.ArmPowerUp(kind)
	})
}

// command runs fn on the engine goroutine, logging failures
func (sb *sandbox) command(name string, fn func(*engine.Engine) error) {
	sb.engine.Post(func() {
		if err := fn(sb.engine); err != nil {
			log.Printf("sandbox: %s: %v", name, err)
		}
	})
}

// revealNext reveals the first hidden symbol, mimicking the player solving a step
func revealNext(e *engine.Engine) error {
	for _, s := range e.Symbols() {
		if s.Class == symbol.Hidden {
			return e.RevealSymbol(s.ID)
		}
	}
	return nil
}
