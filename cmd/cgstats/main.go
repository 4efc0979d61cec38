package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/srodi/cgstats/pkg/collector/cgroup"
	"github.com/srodi/cgstats/pkg/config"
	"github.com/srodi/cgstats/pkg/identity"
	"github.com/srodi/cgstats/pkg/logger"
	"github.com/srodi/cgstats/pkg/store"
	"github.com/srodi/cgstats/pkg/ui"
	"github.com/srodi/cgstats/pkg/widget"
)

type runConfig struct {
	cfg     *config.Config
	width   int
	noColor bool
}

func parseConfig(args []string) (runConfig, error) {
	fs := flag.NewFlagSet("cgstats", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("CGSTATS_CONFIG"), "path to a YAML config file")
	stateFile := fs.String("state-file", "", "where the previous snapshot is kept (file store)")
	threshold := fs.Float64("threshold", 0, "hide cgroups below this fraction of total CPU")
	cgroupRoot := fs.String("cgroup-root", "", "mount point of the unified cgroup hierarchy")
	width := fs.Int("width", 0, "line width; 0 uses the terminal or the configured progress width")
	noColor := fs.Bool("no-color", false, "disable ANSI colors")
	if err := fs.Parse(args); err != nil {
		return runConfig{}, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return runConfig{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "state-file":
			cfg.StateFile = *stateFile
		case "threshold":
			cfg.Threshold = *threshold
		case "cgroup-root":
			cfg.CgroupRoot = *cgroupRoot
		}
	})
	if err := config.Validate(cfg); err != nil {
		return runConfig{}, err
	}
	return runConfig{cfg: cfg, width: *width, noColor: *noColor}, nil
}

func main() {
	rc, err := parseConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}
	cfg := rc.cfg
	lg := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if unified, err := cgroup.IsUnified(cfg.CgroupRoot); err != nil {
		lg.Debug("cannot check cgroup filesystem type", "root", cfg.CgroupRoot, "error", err)
	} else if !unified {
		lg.Warn("cgroup root is not a cgroup2 mount, counters may be missing", "root", cfg.CgroupRoot)
	}

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		lg.Error("opening snapshot store", "store", cfg.Store, "error", err)
		_ = ui.RenderError(os.Stdout, err)
		return
	}
	defer closeStore()

	stdoutFD := int(os.Stdout.Fd())
	style := ui.Style{
		FullChar:  cfg.Global.ProgressFullCharacter,
		EmptyChar: cfg.Global.ProgressEmptyCharacter,
		Prefix:    cfg.Global.ProgressPrefix,
		Suffix:    cfg.Global.ProgressSuffix,
		Width:     cfg.Global.ProgressWidth,
		Color:     term.IsTerminal(stdoutFD) && !rc.noColor,
	}

	w := widget.New(widget.Options{
		Reader:    cgroup.NewReader(cfg.CgroupRoot, identity.System{}),
		Store:     st,
		Threshold: cfg.Threshold,
		Style:     style,
		Log:       lg,
	})
	constraints, _ := w.Prepare(ctx)

	termWidth := 0
	if term.IsTerminal(stdoutFD) {
		if cols, _, err := term.GetSize(stdoutFD); err == nil {
			termWidth = cols
		}
	}
	width := negotiateWidth(constraints.MinWidth, rc.width, cfg.Global.ProgressWidth, termWidth)
	if err := w.Print(os.Stdout, width); err != nil {
		lg.Error("writing report", "error", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.Store != config.StoreRedis {
		return store.NewFileStore(cfg.StateFile), func() {}, nil
	}
	client, err := store.NewRedisClient(ctx, store.RedisOptions{
		Address:  cfg.Redis.Address,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	return store.NewRedisStore(client, cfg.Redis.Key), func() { _ = client.Close() }, nil
}

// negotiateWidth picks the print width: the requested width (or the
// configured progress width minus one indent), never below minWidth, capped
// by the terminal when the terminal is wide enough.
func negotiateWidth(minWidth, requested, progressWidth, termWidth int) int {
	width := requested
	if width <= 0 {
		width = progressWidth - ui.IndentWidth
	}
	if termWidth >= minWidth && termWidth > 0 {
		width = min(width, termWidth)
	}
	return max(width, minWidth)
}
