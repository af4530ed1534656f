package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/charmbracelet/lipgloss"

	"github.com/king54346/sortlab/config"
	"github.com/king54346/sortlab/input"
	"github.com/king54346/sortlab/instrument"
	"github.com/king54346/sortlab/sorting"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type readerFunc func(n int) ([]int, error)

func (f readerFunc) Read(n int) ([]int, error) { return f(n) }

type app struct {
	cfg        config.Config
	logger     *slog.Logger
	rng        *rand.Rand
	out        io.Writer
	ctx        *sorting.Context[int]
	strategies map[sorting.Kind]sorting.Strategy[int]
}

func newApp(cfg config.Config, logger *slog.Logger, metrics *instrument.Metrics, rng *rand.Rand, out io.Writer) *app {
	a := &app{
		cfg:        cfg,
		logger:     logger,
		rng:        rng,
		out:        out,
		ctx:        &sorting.Context[int]{},
		strategies: make(map[sorting.Kind]sorting.Strategy[int]),
	}
	for _, k := range []sorting.Kind{sorting.KindTimSort, sorting.KindLibrary} {
		a.strategies[k] = instrument.Wrap(sorting.New[int](k),
			instrument.WithMetrics(metrics),
			instrument.WithLogger(logger),
		)
	}
	return a
}

// defaults turns the configured preselection into menu defaults. Config
// validation guarantees the names parse.
func (a *app) defaults() (sourceChoice, sortChoice) {
	kind, _ := sorting.ParseKind(a.cfg.Strategy)
	mode, _ := sorting.ParseMode(a.cfg.Mode)
	return sourceChoice{Source: sourceRandom, Length: a.cfg.Random.Length},
		sortChoice{Strategy: kind, Mode: mode}
}

func (a *app) reader(p prompter, c sourceChoice) input.Reader {
	switch c.Source {
	case sourceFile:
		return input.FileReader{Path: c.Path, Logger: a.logger}
	case sourceManual:
		return readerFunc(func(int) ([]int, error) { return p.Manual() })
	default:
		return input.RandomReader{Max: a.cfg.Random.Max, Rand: a.rng}
	}
}

// round runs one fill, choose and sort cycle. Read failures are reported and
// end the round without error so the user can try again.
func (a *app) round(p prompter) error {
	srcDef, sortDef := a.defaults()
	src, err := p.Source(srcDef)
	if err != nil {
		return err
	}
	data, err := a.reader(p, src).Read(src.Length)
	if err != nil {
		if isQuit(err) {
			return err
		}
		a.logger.Warn("read input failed", "source", src.Source, "error", err)
		fmt.Fprintln(a.out, errStyle.Render("Could not read data: "+err.Error()))
		return nil
	}
	fmt.Fprintf(a.out, "Input array: %v\n", data)

	choice, err := p.Sort(sortDef)
	if err != nil {
		return err
	}
	a.ctx.SetStrategy(a.strategies[choice.Strategy])
	ops, err := a.ctx.Execute(data, choice.Mode)
	if err != nil {
		a.logger.Error("sort failed", "strategy", choice.Strategy, "mode", choice.Mode, "error", err)
		fmt.Fprintln(a.out, errStyle.Render("Sort failed: "+err.Error()))
		return nil
	}

	fmt.Fprintf(a.out, "Sorted array: %v\n", data)
	fmt.Fprintln(a.out, dimStyle.Render(fmt.Sprintf("Operations: %d", ops)))
	a.logger.Info("array sorted",
		"source", src.Source,
		"strategy", choice.Strategy,
		"mode", choice.Mode,
		"length", len(data),
		"operations", ops,
	)
	return nil
}

// loop runs rounds until the user exits or input ends.
func (a *app) loop(p prompter) error {
	fmt.Fprintln(a.out, titleStyle.Render("sortlab"))
	for {
		if err := a.round(p); err != nil {
			if isQuit(err) {
				return nil
			}
			return err
		}
		again, err := p.Again()
		if err != nil {
			if isQuit(err) {
				return nil
			}
			return err
		}
		if !again {
			return nil
		}
	}
}
