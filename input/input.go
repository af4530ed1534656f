// Package input fills an integer slice for sorting: from a file, from a
// random generator, or from numbers typed one per line.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

var (
	// ErrNoNumbers is returned when a source yields no integers at all.
	ErrNoNumbers = errors.New("no numbers found")
	// ErrInvalidLength is returned for a non-positive requested length.
	ErrInvalidLength = errors.New("length must be positive")
)

// Reader produces the data to sort. n is the requested length; readers that
// cannot honour it exactly document what they return.
type Reader interface {
	Read(n int) ([]int, error)
}

// ParseInts splits s on commas and whitespace and parses every token as an
// integer. Tokens that are not integers are returned in rejected.
func ParseInts(s string) (nums []int, rejected []string) {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	for _, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			rejected = append(rejected, tok)
			continue
		}
		nums = append(nums, v)
	}
	return nums, rejected
}

// FileReader reads integers separated by commas or whitespace from Path.
// Tokens that are not integers are logged and skipped. With n > 0 at most n
// numbers are returned; n <= 0 returns everything in the file.
type FileReader struct {
	Path   string
	Logger *slog.Logger
}

func (r FileReader) Read(n int) ([]int, error) {
	info, err := os.Stat(r.Path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("data file %s is not a regular file", r.Path)
	}
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	nums, rejected := ParseInts(string(data))
	if len(rejected) > 0 {
		logger(r.Logger).Warn("skipped tokens that are not integers",
			"path", r.Path,
			"count", len(rejected),
			"first", rejected[0],
		)
	}
	if len(nums) == 0 {
		return nil, fmt.Errorf("%s: %w", r.Path, ErrNoNumbers)
	}
	if n > 0 && len(nums) > n {
		nums = nums[:n]
	}
	return nums, nil
}

// DefaultRandomMax is the exclusive upper bound RandomReader uses when Max
// is not set.
const DefaultRandomMax = 100

// RandomReader generates n integers uniformly in [0, Max).
type RandomReader struct {
	Max  int
	Rand *rand.Rand
}

func (r RandomReader) Read(n int) ([]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("random data of length %d: %w", n, ErrInvalidLength)
	}
	bound := r.Max
	if bound <= 0 {
		bound = DefaultRandomMax
	}
	intn := rand.Intn
	if r.Rand != nil {
		intn = r.Rand.Intn
	}
	return lo.Times(n, func(int) int { return intn(bound) }), nil
}

// ManualReader reads one integer per line from In until a line reading
// "end". Prompts and complaints about invalid lines go to Out. The requested
// length is ignored; the user decides how many numbers to enter.
//
// Set Lines instead of In when the caller already scans the same stream.
type ManualReader struct {
	In    io.Reader
	Lines *bufio.Scanner
	Out   io.Writer
}

func (r ManualReader) Read(int) ([]int, error) {
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	fmt.Fprintln(out, "Enter numbers, one per line ('end' to finish):")

	var nums []int
	sc := r.Lines
	if sc == nil {
		sc = bufio.NewScanner(r.In)
	}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.EqualFold(line, "end") {
			if len(nums) == 0 {
				fmt.Fprintln(out, "Enter at least one number:")
				continue
			}
			return nums, nil
		}
		if line == "" {
			continue
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(out, "Invalid input %q, enter an integer.\n", line)
			continue
		}
		nums = append(nums, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read numbers: %w", err)
	}
	if len(nums) == 0 {
		return nil, ErrNoNumbers
	}
	return nums, nil
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
