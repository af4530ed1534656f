// Command sortlab fills an integer array from a file, random data or manual
// entry and sorts it with TimSort or library sort, optionally touching only
// the even or odd elements.
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/king54346/sortlab/config"
	"github.com/king54346/sortlab/instrument"
	"github.com/king54346/sortlab/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("sortlab: "+err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv(config.PathEnv))
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log, os.Stderr).With("session_id", uuid.NewString())

	reg := prometheus.NewRegistry()
	metrics := instrument.NewMetrics(reg, cfg.Metrics.Namespace)

	seed := cfg.Random.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a := newApp(cfg, logger, metrics, rand.New(rand.NewSource(seed)), os.Stdout)

	var p prompter = newLineMenu(os.Stdin, os.Stdout)
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		p = formMenu{}
	}
	logger.Debug("session started", "strategy", cfg.Strategy, "mode", cfg.Mode, "seed", seed)

	if err := a.loop(p); err != nil {
		return err
	}
	logSummary(logger, reg, cfg.Metrics.Namespace)
	return nil
}

// logSummary logs sort counts and total operations gathered from reg.
func logSummary(logger *slog.Logger, reg prometheus.Gatherer, namespace string) {
	families, err := reg.Gather()
	if err != nil {
		logger.Warn("gather metrics failed", "error", err)
		return
	}
	var sorts, failed, ops float64
	for _, mf := range families {
		switch strings.TrimPrefix(mf.GetName(), namespace+"_") {
		case "sorts_total":
			for _, m := range mf.GetMetric() {
				sorts += m.GetCounter().GetValue()
				for _, l := range m.GetLabel() {
					if l.GetName() == "result" && l.GetValue() != "ok" {
						failed += m.GetCounter().GetValue()
					}
				}
			}
		case "sort_operations":
			for _, m := range mf.GetMetric() {
				ops += m.GetHistogram().GetSampleSum()
			}
		}
	}
	logger.Info("session finished", "sorts", int(sorts), "failed", int(failed), "operations", int64(ops))
}
