package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"webwatch/internal/config"
	"webwatch/internal/datastore"
	"webwatch/internal/extractor"
	"webwatch/internal/fetcher"
	"webwatch/internal/logger"
	"webwatch/internal/monitor"
	"webwatch/internal/notifier"
	"webwatch/internal/scheduler"
	"webwatch/internal/urlhandler"
)

func main() {
	globalConfigFile := flag.String("globalconfig", "", "Path to the global YAML/JSON configuration file.")
	globalConfigFileAlias := flag.String("gc", "", "Alias for --globalconfig")

	modeFlag := flag.String("mode", "", "Mode to run the tool: onetime or automated (overrides config file if set)")
	modeFlagAlias := flag.String("m", "", "Alias for --mode")

	targetFile := flag.String("targets", "", "Path to a text file with one target per line ('url | selector'), overriding the config file targets.")
	targetFileAlias := flag.String("t", "", "Alias for --targets")
	flag.Parse()

	if *globalConfigFile == "" && *globalConfigFileAlias != "" {
		*globalConfigFile = *globalConfigFileAlias
	}
	if *modeFlag == "" && *modeFlagAlias != "" {
		*modeFlag = *modeFlagAlias
	}
	if *targetFile == "" && *targetFileAlias != "" {
		*targetFile = *targetFileAlias
	}

	gCfg, err := config.LoadGlobalConfig(*globalConfigFile)
	if err != nil {
		log.Fatalf("[FATAL] Could not load global config from '%s': %v", *globalConfigFile, err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Could not initialize logger: %v", err)
	}

	config.ApplyEnvOverrides(gCfg, zLogger)

	if *modeFlag != "" {
		gCfg.Mode = *modeFlag
		zLogger.Info().Str("mode", gCfg.Mode).Msg("Mode overridden by command line flag")
	}

	if *targetFile != "" {
		targets, err := urlhandler.ReadTargetsFromFile(*targetFile, zLogger)
		if err != nil {
			zLogger.Fatal().Err(err).Str("file", *targetFile).Msg("Failed to load target file")
		}
		gCfg.MonitorConfig.Targets = targets
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	stateStore, err := datastore.NewTargetStateStore(gCfg.StorageConfig.SQLiteDBPath, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize target state store")
	}
	defer stateStore.Close()

	httpClient := &http.Client{Timeout: gCfg.MonitorConfig.HTTPTimeout()}
	contentFetcher := fetcher.NewFetcher(httpClient, zLogger, fetcher.Config{
		UserAgent:      gCfg.MonitorConfig.UserAgent,
		MaxContentSize: gCfg.MonitorConfig.MaxContentSize,
	})

	excludePatterns := extractor.CompileExcludePatterns(gCfg.MonitorConfig.ExcludePatterns, zLogger)

	detector := monitor.NewChangeDetector(monitor.ChangeDetectorConfig{
		Fetcher:         contentFetcher,
		Store:           stateStore,
		ExcludePatterns: excludePatterns,
		CooldownHours:   gCfg.MonitorConfig.CooldownHours,
	}, zLogger)

	digest := notifier.NewDiscordNotifier(gCfg.NotificationConfig.DiscordWebhookURL, nil, zLogger)

	runner := monitor.NewRunner(monitor.RunnerConfig{
		Detector:            detector,
		Digest:              digest,
		MaxConcurrentChecks: gCfg.MonitorConfig.MaxConcurrentChecks,
		RequestsPerSecond:   gCfg.MonitorConfig.RequestsPerSecond,
	}, zLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runOnce := func(ctx context.Context) {
		summary, err := runner.Run(ctx, gCfg.MonitorConfig.Targets)
		if err != nil {
			zLogger.Error().Err(err).Msg("Run failed")
			return
		}
		zLogger.Info().
			Int("targets_checked", summary.TargetsChecked).
			Int("changes_detected", summary.ChangesDetected).
			Msg("Run completed")
	}

	switch gCfg.Mode {
	case "automated":
		sched := scheduler.New(gCfg.SchedulerConfig.CronSpec, runOnce, zLogger)
		if err := sched.Start(ctx); err != nil {
			zLogger.Fatal().Err(err).Msg("Scheduler failed to start")
		}
	default:
		runOnce(ctx)
	}
}
