package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/king54346/sortlab/input"
	"github.com/king54346/sortlab/sorting"
)

const (
	sourceFile   = "file"
	sourceRandom = "random"
	sourceManual = "manual"
)

var sources = []string{sourceFile, sourceRandom, sourceManual}

type sourceChoice struct {
	Source string
	Path   string
	Length int
}

type sortChoice struct {
	Strategy sorting.Kind
	Mode     sorting.Mode
}

// prompter asks the user for one round of input. Returning io.EOF or
// huh.ErrUserAborted ends the session.
type prompter interface {
	Source(def sourceChoice) (sourceChoice, error)
	Manual() ([]int, error)
	Sort(def sortChoice) (sortChoice, error)
	Again() (bool, error)
}

func isQuit(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, huh.ErrUserAborted)
}

// lineMenu is the numbered-menu prompter used when stdin is not a terminal.
type lineMenu struct {
	sc  *bufio.Scanner
	out io.Writer
}

func newLineMenu(in io.Reader, out io.Writer) *lineMenu {
	return &lineMenu{sc: bufio.NewScanner(in), out: out}
}

func (m *lineMenu) next() (string, error) {
	if !m.sc.Scan() {
		if err := m.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.sc.Text()), nil
}

func (m *lineMenu) complain(msg string) {
	fmt.Fprintln(m.out, errStyle.Render(msg))
}

// pick shows numbered options and returns the chosen index. An empty line
// takes def.
func (m *lineMenu) pick(title string, options []string, def int) (int, error) {
	for {
		fmt.Fprintln(m.out, title)
		for i, o := range options {
			fmt.Fprintf(m.out, "%d. %s\n", i+1, o)
		}
		line, err := m.next()
		if err != nil {
			return 0, err
		}
		if line == "" {
			return def, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			m.complain("Invalid input, enter a number.")
			continue
		}
		if n < 1 || n > len(options) {
			m.complain(fmt.Sprintf("Invalid choice, pick a value from 1 to %d.", len(options)))
			continue
		}
		return n - 1, nil
	}
}

func (m *lineMenu) positive(title string, def int) (int, error) {
	for {
		fmt.Fprintf(m.out, "%s [%d]:\n", title, def)
		line, err := m.next()
		if err != nil {
			return 0, err
		}
		if line == "" {
			return def, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n <= 0 {
			m.complain("The length must be a positive number.")
			continue
		}
		return n, nil
	}
}

func (m *lineMenu) Source(def sourceChoice) (sourceChoice, error) {
	c := def
	i, err := m.pick("Fill the array from:", []string{"File", "Random data", "Manual entry"}, indexOf(sources, def.Source))
	if err != nil {
		return c, err
	}
	c.Source = sources[i]

	if c.Source == sourceFile {
		for {
			fmt.Fprintln(m.out, "Path to the data file:")
			if c.Path, err = m.next(); err != nil {
				return c, err
			}
			if c.Path != "" {
				break
			}
			m.complain("The path must not be empty.")
		}
	}
	if c.Source != sourceManual {
		if c.Length, err = m.positive("Array length", def.Length); err != nil {
			return c, err
		}
	}
	return c, nil
}

func (m *lineMenu) Manual() ([]int, error) {
	return input.ManualReader{Lines: m.sc, Out: m.out}.Read(0)
}

func (m *lineMenu) Sort(def sortChoice) (sortChoice, error) {
	c := def
	i, err := m.pick("Sort algorithm:", []string{"TimSort", "Library sort"}, int(def.Strategy))
	if err != nil {
		return c, err
	}
	c.Strategy = sorting.Kind(i)

	i, err = m.pick("Sort type:", []string{"All data", "Even only", "Odd only"}, int(def.Mode))
	if err != nil {
		return c, err
	}
	c.Mode = sorting.Mode(i)
	return c, nil
}

func (m *lineMenu) Again() (bool, error) {
	fmt.Fprintln(m.out, "Exit? (yes/no)")
	line, err := m.next()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "yes", "y":
		return false, nil
	}
	return true, nil
}

// formMenu drives the same questions through huh forms on a terminal.
type formMenu struct{}

func (formMenu) Source(def sourceChoice) (sourceChoice, error) {
	c := def
	if c.Source == "" {
		c.Source = sourceRandom
	}
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Fill the array from").
			Options(
				huh.NewOption("File", sourceFile),
				huh.NewOption("Random data", sourceRandom),
				huh.NewOption("Manual entry", sourceManual),
			).
			Value(&c.Source),
	)).Run()
	if err != nil {
		return c, err
	}

	length := strconv.Itoa(def.Length)
	var fields []huh.Field
	if c.Source == sourceFile {
		fields = append(fields, huh.NewInput().
			Title("Path to the data file").
			Value(&c.Path).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("the path must not be empty")
				}
				return nil
			}))
	}
	if c.Source != sourceManual {
		fields = append(fields, huh.NewInput().
			Title("Array length").
			Value(&length).
			Validate(func(s string) error {
				if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n <= 0 {
					return errors.New("the length must be a positive number")
				}
				return nil
			}))
	}
	if len(fields) == 0 {
		return c, nil
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return c, err
	}
	c.Path = strings.TrimSpace(c.Path)
	c.Length, _ = strconv.Atoi(strings.TrimSpace(length))
	return c, nil
}

func (formMenu) Manual() ([]int, error) {
	var text string
	err := huh.NewText().
		Title("Numbers").
		Description("Separate them with commas, spaces or new lines.").
		Value(&text).
		Validate(func(s string) error {
			nums, rejected := input.ParseInts(s)
			if len(rejected) > 0 {
				return fmt.Errorf("%q is not an integer", rejected[0])
			}
			if len(nums) == 0 {
				return errors.New("enter at least one number")
			}
			return nil
		}).
		Run()
	if err != nil {
		return nil, err
	}
	nums, _ := input.ParseInts(text)
	return nums, nil
}

func (formMenu) Sort(def sortChoice) (sortChoice, error) {
	c := def
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[sorting.Kind]().
			Title("Sort algorithm").
			Options(
				huh.NewOption("TimSort", sorting.KindTimSort),
				huh.NewOption("Library sort", sorting.KindLibrary),
			).
			Value(&c.Strategy),
		huh.NewSelect[sorting.Mode]().
			Title("Sort type").
			Options(
				huh.NewOption("All data", sorting.ModeAll),
				huh.NewOption("Even only", sorting.ModeEven),
				huh.NewOption("Odd only", sorting.ModeOdd),
			).
			Value(&c.Mode),
	)).Run()
	return c, err
}

func (formMenu) Again() (bool, error) {
	again := true
	err := huh.NewConfirm().
		Title("Sort another array?").
		Affirmative("Yes").
		Negative("Exit").
		Value(&again).
		Run()
	return again, err
}

func indexOf(options []string, v string) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return 0
}
