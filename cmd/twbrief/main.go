package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/twbrief/internal/common"
	"github.com/ternarybob/twbrief/internal/services/briefing"
	"github.com/ternarybob/twbrief/internal/services/producers"
	"github.com/ternarybob/twbrief/internal/services/scheduler"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: twbrief [-config file]... <pre|post|fetch|schedule> [YYYYMMDD]\n\n")
	fmt.Fprintf(flag.CommandLine.Output(), "  pre       write the pre-market research report\n")
	fmt.Fprintf(flag.CommandLine.Output(), "  post      write the post-market accuracy report\n")
	fmt.Fprintf(flag.CommandLine.Output(), "  fetch     run every configured producer\n")
	fmt.Fprintf(flag.CommandLine.Output(), "  schedule  run producers and reports on the configured schedules\n\n")
	flag.PrintDefaults()
}

func main() {
	defer common.RecoverWithCrashFile("logs")

	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("twbrief version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	if len(configFiles) == 0 {
		if _, err := os.Stat("twbrief.toml"); err == nil {
			configFiles = append(configFiles, "twbrief.toml")
		} else if _, err := os.Stat("deployments/local/twbrief.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/twbrief.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		arbor.NewLogger().Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.Version)

	logger.Debug().
		Str("environment", config.Environment).
		Str("data_root", config.Data.Root).
		Str("timezone", config.Report.Timezone).
		Str("log_level", config.Logging.Level).
		Strs("config_files", configFiles).
		Msg("Resolved configuration")

	service, err := briefing.NewService(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize briefing service")
		os.Exit(1)
	}

	date := service.Today()
	if flag.NArg() == 2 {
		if _, err := common.ParseTradeDate(flag.Arg(1)); err != nil {
			logger.Fatal().Err(err).Str("date", flag.Arg(1)).Msg("Invalid date argument")
			os.Exit(1)
		}
		date = flag.Arg(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command, date, config, service, logger); err != nil {
		stop()
		logger.Fatal().Err(err).Str("command", command).Msg("Command failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, command, date string, config *common.Config, service *briefing.Service, logger arbor.ILogger) error {
	switch command {
	case "pre":
		stats, err := service.RunPreMarket(ctx, date)
		if err != nil {
			return err
		}
		fmt.Println(stats.Path)
		return nil

	case "post":
		stats, err := service.RunPostMarket(ctx, date)
		if err != nil {
			return err
		}
		fmt.Println(stats.Path)
		return nil

	case "fetch":
		runner, err := producers.NewRunner(logger, config.ProducerPacing)
		if err != nil {
			return err
		}
		summary, err := runner.Run(ctx, config.ProducersFor(""), date)
		if err != nil {
			return err
		}
		if failed := summary.Failed(); len(failed) > 0 {
			return fmt.Errorf("%d of %d producers failed", len(failed), len(summary.Outcomes))
		}
		return nil

	case "schedule":
		if !config.Scheduler.Enabled {
			return fmt.Errorf("scheduler is disabled (set scheduler.enabled or TWBRIEF_SCHEDULER_ENABLED)")
		}
		runner, err := producers.NewRunner(logger, config.ProducerPacing)
		if err != nil {
			return err
		}
		sched, err := scheduler.NewScheduler(service, runner, config, logger)
		if err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}

		logger.Info().Msg("Scheduler running - Press Ctrl+C to stop")
		<-ctx.Done()
		logger.Info().Msg("Interrupt signal received")

		done := make(chan struct{})
		go func() {
			sched.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(30 * time.Second):
			logger.Warn().Msg("Timed out waiting for running job to finish")
		}
		return nil

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}
