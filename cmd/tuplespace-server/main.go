// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ClusterCockpit/tuplespace/internal/config"
	"github.com/ClusterCockpit/tuplespace/internal/repository"
	"github.com/ClusterCockpit/tuplespace/internal/space"
	"github.com/ClusterCockpit/tuplespace/pkg/log"
	"github.com/ClusterCockpit/tuplespace/pkg/runtimeEnv"
	"github.com/google/gops/agent"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var flagConfigFile, flagMetricsAddr string
	var flagGops, flagLogDate bool
	var flagLogLevel string
	flag.StringVar(&flagConfigFile, "config", "./config.json", "Load gate/space configuration from `config.json`")
	flag.StringVar(&flagMetricsAddr, "metrics-addr", ":9401", "Address the Prometheus /metrics endpoint listens on; empty disables it")
	flag.StringVar(&flagLogLevel, "loglevel", "", "Overwrite the configured log level (debug, info, warn, err)")
	flag.BoolVar(&flagLogDate, "logdate", false, "Prefix log lines with date and time")
	flag.BoolVar(&flagGops, "gops", false, "Listen via github.com/google/gops/agent (for debugging)")
	flag.Parse()

	log.SetLogDateTime(flagLogDate)

	if flagGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Fatalf("gops/agent.Listen failed: %s", err.Error())
		}
	}

	if err := config.Init(flagConfigFile); err != nil {
		log.Fatal(err.Error())
	}

	if flagLogLevel != "" {
		log.SetLevel(flagLogLevel)
	} else {
		log.SetLevel(config.Keys.LogLevel)
	}

	repo := repository.New()
	for _, gc := range config.Keys.Gates {
		policy, _ := space.ParsePolicy(gc.Policy)
		repo.AddSpace(gc.SpaceName, space.New(gc.SpaceName, policy))

		if _, err := repo.AddGate(gc.Name, gc.Addr); err != nil {
			log.Fatalf("MAIN> opening gate %q: %s", gc.Name, err.Error())
		}
		log.Infof("MAIN> gate %q serving space %q on %s", gc.Name, gc.SpaceName, gc.Addr)
	}

	var wg sync.WaitGroup
	var metricsServer *http.Server
	if flagMetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{Addr: flagMetricsAddr, Handler: mux}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorf("MAIN> metrics server: %s", err.Error())
			}
		}()
		log.Infof("MAIN> metrics listening at %s/metrics", flagMetricsAddr)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	runtimeEnv.SystemdNotify(true, "running")
	<-sigs
	runtimeEnv.SystemdNotify(false, "shutting down")

	if err := repo.CloseAllGates(); err != nil {
		log.Errorf("MAIN> closing gates: %s", err.Error())
	}
	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		metricsServer.Shutdown(ctx)
		cancel()
	}
	wg.Wait()
	log.Info("MAIN> graceful shutdown completed")
}
