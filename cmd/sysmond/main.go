package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/sysmond/internal/config"
	"codeberg.org/mutker/sysmond/internal/errors"
	"codeberg.org/mutker/sysmond/internal/hwinfo"
	"codeberg.org/mutker/sysmond/internal/logger"
	"codeberg.org/mutker/sysmond/internal/poller"
	"codeberg.org/mutker/sysmond/internal/probe"
	"codeberg.org/mutker/sysmond/internal/recorder"
	"codeberg.org/mutker/sysmond/internal/state"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, logger.IsService())
	log.Debug().Msg("Config loaded")

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("Daemon exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel, log)

	info := hwinfo.Detect()
	log.Info().
		Str("platform", info.Platform.String()).
		Str("cpu_vendor", info.CPUVendor.String()).
		Int("gpus", len(info.GPUVendors)).
		Msg("Hardware detected")

	shared := state.NewShared(cfg.SamplingInterval())

	registry := probe.NewRegistry(log)
	registry.RegisterDefaults()

	recorderCfg := recorder.DefaultConfig()
	recorderCfg.Enabled = cfg.Recording
	if cfg.Database != "" {
		recorderCfg.DBPath = cfg.Database
	}
	collector, err := recorder.NewService(recorderCfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := collector.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close sample recorder")
		}
	}()

	p := poller.New(shared, registry, info, cfg.SamplingInterval(), log)

	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Poll loop failed")
		}
	}()

	observe(ctx, shared, collector, log)

	<-pollDone
	log.Info().Msg("Exiting...")

	return nil
}

// observe is the session's reader side: once per interval it snapshots
// the shared state, logs a status line and feeds the recorder.
func observe(ctx context.Context, shared *state.Shared, collector recorder.Collector, log logger.Logger) {
	ticker := time.NewTicker(shared.SamplingInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var snapshot *recorder.Snapshot
		shared.Read(func(st *state.State) {
			logStatus(st, log)
			if collector.Enabled() {
				snapshot = recorder.SnapshotFrom(st)
			}
		})

		if snapshot != nil {
			if err := collector.Record(ctx, snapshot); err != nil {
				log.Warn().Err(err).Msg("Failed to record sample")
			}
		}
	}
}

func logStatus(st *state.State, log logger.Logger) {
	event := log.Info()

	if utilization, ok := st.CPU.Utilization.Current(); ok {
		event.Float64("cpu_utilization", utilization)
	}
	if temp, ok := st.CPU.PackageTemperature.Current(); ok {
		event.Float64("cpu_temp", temp)
	}
	if used, ok := st.Memory.UsedMB.Current(); ok {
		event.Uint64("memory_used_mb", used)
	}
	if st.HasGPUData() {
		if utilization, ok := st.GPU.Utilization.Current(); ok {
			event.Float64("gpu_utilization", utilization)
		}
		if temp, ok := st.GPU.PackageTemperature.Current(); ok {
			event.Float64("gpu_temp", temp)
		}
	}

	event.Msg("")
}

func handleSignals(cancel context.CancelFunc, log logger.Logger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info().Msg("Received termination signal.")
	cancel()
}
