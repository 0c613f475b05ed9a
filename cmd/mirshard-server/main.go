// Command mirshard-server boots the game server process: configuration,
// database/cache connections, content tables, the ECS world, and the
// single fixed-rate tick loop (§4.M), in that order.
//
// Grounded on the teacher's cmd/l1jgo/main.go boot sequence (banner/section
// console helpers, a top-level run() error, ordered collaborator
// construction, signal-driven shutdown with a final persistence flush) —
// collapsed from its dual-frequency loop (a 200ms system ticker plus a
// separate 2ms input-poll ticker) into one fixed-rate ticker whose Input
// phase drains every session's queue each tick, per this repo's tick
// package doc comment.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/mirshard/server/internal/ai"
	"github.com/mirshard/server/internal/combat"
	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/config"
	"github.com/mirshard/server/internal/content"
	"github.com/mirshard/server/internal/dispatch"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/event"
	"github.com/mirshard/server/internal/handler"
	"github.com/mirshard/server/internal/persist"
	"github.com/mirshard/server/internal/snowflake"
	"github.com/mirshard/server/internal/spatial"
	"github.com/mirshard/server/internal/spawn"
	"github.com/mirshard/server/internal/tick"
	"github.com/mirshard/server/internal/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, workerID int64) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              MirShard  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        2.5D MMORPG game server             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(worker: %d)\033[0m\n\n", serverName, workerID)
}

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

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("MIRSHARD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.WorkerID)

	// Database + cache
	printSection("storage")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("postgres connected")

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")

	cache, err := persist.NewCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer cache.Close()
	printOK("redis connected")
	fmt.Println()

	repo := persist.NewRepository(db, cache, log)
	accounts := persist.NewAccountRepo(db)

	ids, err := snowflake.NewGenerator(cfg.Server.WorkerID)
	if err != nil {
		return fmt.Errorf("snowflake: %w", err)
	}

	// ECS world, component stores, spatial index, event bus
	world := ecs.NewWorld()
	stores := component.NewStores(world.Registry())
	grid := spatial.NewGrid(spatial.DefaultCellSize)
	bus := event.NewBus()

	// Content tables
	printSection("content")
	monsters, err := content.LoadMonsterTable(cfg.Content.MonsterTablePath)
	if err != nil {
		return fmt.Errorf("load monster table: %w", err)
	}
	printStat("monster templates", monsters.Count())

	spawnPoints, err := content.LoadSpawnPoints(cfg.Content.SpawnPointsPath)
	if err != nil {
		return fmt.Errorf("load spawn points: %w", err)
	}
	printStat("spawn points", len(spawnPoints))

	dropTables, err := content.LoadDropTables(cfg.Content.DropTablesPath)
	if err != nil {
		return fmt.Errorf("load drop tables: %w", err)
	}
	printOK("drop tables loaded")

	skills, err := content.LoadSkillTable(cfg.Content.SkillTablePath)
	if err != nil {
		return fmt.Errorf("load skill table: %w", err)
	}
	printStat("skill templates", skills.Count())
	fmt.Println()

	// Combat, AI, spawn/drop systems — combat and AI share one seeded Random
	// collaborator; the spawn and drop systems each get their own math/rand
	// source.
	rng := combat.NewSeededRandom(time.Now().UnixNano())
	resolver := combat.NewResolver(world, stores, grid, bus, rng, combat.DefaultConfig())
	aiSys := ai.NewSystem(world, stores, grid, bus, resolver, rng, nil)
	spawnSys := spawn.NewSystem(world, stores, grid, monsters, spawnPoints, bus, rand.New(rand.NewSource(time.Now().UnixNano())), nil)
	_ = spawn.NewDropSystem(world, stores, dropTables, bus, rand.New(rand.NewSource(time.Now().UnixNano())))

	// Handler registry + dispatcher
	deps := handler.NewDeps(world, stores, grid, bus, resolver, repo, accounts, monsters, skills, ids, cfg, log)
	dispatcher := dispatch.NewDispatcher(log)
	handler.RegisterAll(dispatcher, deps)

	// Transport
	listener, err := transport.NewListener(cfg.Network.BindAddress, cfg.Network.InQueueSize, cfg.Network.OutQueueSize, log)
	if err != nil {
		return fmt.Errorf("listener: %w", err)
	}

	// Tick loop systems, in phase order
	runner := tick.NewRunner()
	runner.Register(tick.NewInputSystem(listener, dispatcher, deps.RemoveSession, log))
	runner.Register(tick.NewAISystem(aiSys))
	runner.Register(tick.NewSpawnSystem(spawnSys))
	runner.Register(tick.NewPersistSystem(repo, log, cfg.Persist.FlushInterval))
	runner.Register(tick.NewCleanupSystem(world))

	shutdownCtx, stopNotify := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopNotify()

	// The accept loop and its own shutdown trigger run under one errgroup so
	// a SIGINT/SIGTERM unwinds both cleanly before the final flush below.
	group, groupCtx := errgroup.WithContext(shutdownCtx)
	group.Go(func() error {
		listener.AcceptLoop()
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		listener.Shutdown()
		return nil
	})

	ticker := time.NewTicker(cfg.Tick.Interval)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("listening on %s", listener.Addr().String()))
	printReady(fmt.Sprintf("tick interval %s", cfg.Tick.Interval))
	fmt.Println()

loop:
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Tick.Interval)
		case <-shutdownCtx.Done():
			log.Info("shutdown signal received")
			break loop
		}
	}

	if err := repo.FlushDirtyCharacters(context.Background()); err != nil {
		log.Error("final flush failed", zap.Error(err))
	}
	if err := group.Wait(); err != nil {
		log.Error("shutdown group error", zap.Error(err))
	}
	log.Info("server stopped")
	return nil
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
