package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/vrscene/npcseq/internal/animsync"
	"github.com/vrscene/npcseq/internal/config"
	"github.com/vrscene/npcseq/internal/core/event"
	coresys "github.com/vrscene/npcseq/internal/core/system"
	"github.com/vrscene/npcseq/internal/data"
	"github.com/vrscene/npcseq/internal/handler"
	gonet "github.com/vrscene/npcseq/internal/net"
	"github.com/vrscene/npcseq/internal/net/command"
	"github.com/vrscene/npcseq/internal/persist"
	"github.com/vrscene/npcseq/internal/scripting"
	"github.com/vrscene/npcseq/internal/system"
	"github.com/vrscene/npcseq/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main logic ─────────────────────────────────────────────────────

func run() error {
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		hash, err := handler.HashPassword(os.Args[2])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Scene and scripts
	printSection("scene")
	scene, err := data.LoadScene(cfg.Scene.File)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	printStat("npcs", len(scene.NPCs))

	luaEngine, err := scripting.NewEngine(cfg.Scene.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("lua scripts loaded")
	fmt.Println()

	// Optional run journal
	var journalRepo *persist.JournalRepo
	if cfg.Database.DSN != "" {
		printSection("journal")
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		db, err := persist.NewDB(dbCtx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("postgres connected")
		if err := persist.RunMigrations(dbCtx, db); err != nil {
			cancel()
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		journalRepo = persist.NewJournalRepo(db)
		counts, err := journalRepo.Counts(dbCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		for _, c := range counts {
			printStat(c.NPC+" "+c.Outcome, int(c.Runs))
		}
		fmt.Println()
	}

	// World
	bus := event.NewBus()
	deps := &handler.Deps{
		Config:    cfg,
		Log:       log,
		World:     world.NewState(),
		Bus:       bus,
		Scripting: luaEngine,
	}
	if _, err := handler.SpawnScene(scene, deps); err != nil {
		return err
	}
	system.SubscribeDialogue(bus, luaEngine, log)

	reg := command.NewRegistry(log)
	handler.RegisterAll(reg, deps)

	// Console
	store := gonet.NewSessionStore()
	var server *gonet.Server
	if cfg.Console.Enabled {
		server, err = gonet.NewServer(cfg.Console.BindAddress, gonet.SessionConfig{
			InSize:       cfg.Console.InQueueSize,
			OutSize:      cfg.Console.OutQueueSize,
			ReadTimeout:  cfg.Console.ReadTimeout,
			WriteTimeout: cfg.Console.WriteTimeout,
		}, log)
		if err != nil {
			return fmt.Errorf("console: %w", err)
		}
	}

	var keys chan string
	if cfg.Console.Keyboard {
		keys = make(chan string, 8)
		// Not part of the errgroup: a blocked stdin read cannot be interrupted.
		go readKeys(os.Stdin, keys)
	}

	input := system.NewInputSystem(server, store, reg, keys, handler.LogReplier{Log: log}, cfg.Console.MaxCommandsPerTick, log)
	if cfg.Console.PasswordHash != "" {
		input.RequireLogin()
	}

	runner := coresys.NewRunner()
	runner.Register(
		input,
		system.NewEventSystem(bus),
		system.NewSequenceSystem(deps.World),
		system.NewLocomotionSystem(deps.World),
		system.NewAnimSyncSystem(deps.World, animsync.Settings{
			MoveThreshold:    cfg.Sync.MoveThreshold,
			TurnSpeed:        cfg.Sync.TurnSpeed,
			ArrivalThreshold: cfg.Sync.ArrivalThreshold,
		}),
		system.NewOutputSystem(store),
		system.NewCleanupSystem(deps.World, log),
	)
	var journal *system.JournalSystem
	if journalRepo != nil {
		journal = system.NewJournalSystem(bus, journalRepo, cfg.Database.FlushInterval, log)
		runner.Register(journal)
	}

	if cfg.Simulation.AutoStart {
		printStat("sequences started", handler.RestartAll(deps))
	}

	printSection("ready")
	if server != nil {
		printReady(fmt.Sprintf("console on %s", server.Addr()))
	}
	if keys != nil {
		printReady("press r + enter to restart")
	}
	printReady(fmt.Sprintf("tick %s", cfg.Simulation.TickRate))
	fmt.Println()

	g, gctx := errgroup.WithContext(ctx)
	if server != nil {
		g.Go(func() error {
			return server.Serve(gctx)
		})
	}
	g.Go(func() error {
		gameLoop(gctx, runner, cfg.Simulation.TickRate)
		return nil
	})
	err = g.Wait()

	log.Info("shutting down")
	if journal != nil {
		// runs finished during the last tick are still on the bus
		bus.SwapBuffers()
		bus.DispatchAll()
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		journal.Flush(flushCtx)
		cancel()
	}
	store.ForEach(func(s *gonet.Session) { s.Close() })
	return err
}

// gameLoop ticks the runner until ctx is cancelled.
func gameLoop(ctx context.Context, runner *coresys.Runner, tickRate time.Duration) {
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()
	clock := coresys.NewFrameClock(tickRate)

	for {
		select {
		case <-ticker.C:
			runner.Tick(clock.Delta())
		case <-ctx.Done():
			return
		}
	}
}

// readKeys forwards stdin lines until EOF. Lines are dropped while the game
// loop is behind.
func readKeys(r io.Reader, out chan<- string) {
	defer close(out)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		select {
		case out <- line:
		default:
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
