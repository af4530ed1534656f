package input

import (
	"bytes"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInts(t *testing.T) {
	nums, rejected := ParseInts("1, 2,3\n-4\t5 ,, x7 08")
	assert.Equal(t, []int{1, 2, 3, -4, 5, 8}, nums)
	assert.Equal(t, []string{"x7"}, rejected)

	nums, rejected = ParseInts("   ")
	assert.Empty(t, nums)
	assert.Empty(t, rejected)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileReader(t *testing.T) {
	logs := &bytes.Buffer{}
	r := FileReader{
		Path:   writeFile(t, "5, 3 4\n1,2\nabc\n"),
		Logger: slog.New(slog.NewTextHandler(logs, nil)),
	}

	nums, err := r.Read(0)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 3, 4, 1, 2}, nums)
	assert.Contains(t, logs.String(), "abc")

	nums, err = r.Read(3)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 3, 4}, nums)

	nums, err = r.Read(100)
	require.NoError(t, err)
	assert.Len(t, nums, 5)
}

func TestFileReaderErrors(t *testing.T) {
	_, err := FileReader{Path: filepath.Join(t.TempDir(), "missing.txt")}.Read(1)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = FileReader{Path: t.TempDir()}.Read(1)
	assert.Error(t, err)

	_, err = FileReader{Path: writeFile(t, "a b c")}.Read(1)
	assert.ErrorIs(t, err, ErrNoNumbers)
}

func TestRandomReader(t *testing.T) {
	r := RandomReader{Rand: rand.New(rand.NewSource(1))}
	nums, err := r.Read(1000)
	require.NoError(t, err)
	require.Len(t, nums, 1000)
	for _, v := range nums {
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, DefaultRandomMax)
	}

	nums, err = RandomReader{Max: 3}.Read(50)
	require.NoError(t, err)
	for _, v := range nums {
		require.Less(t, v, 3)
	}

	_, err = r.Read(0)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestManualReader(t *testing.T) {
	out := &bytes.Buffer{}
	r := ManualReader{
		In:  strings.NewReader("end\n4\n\nseven\n -2 \nEND\n9\n"),
		Out: out,
	}
	nums, err := r.Read(0)
	require.NoError(t, err)
	assert.Equal(t, []int{4, -2}, nums)
	assert.Contains(t, out.String(), "at least one number")
	assert.Contains(t, out.String(), `"seven"`)
}

func TestManualReaderEOF(t *testing.T) {
	nums, err := ManualReader{In: strings.NewReader("1\n2")}.Read(0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, nums)

	_, err = ManualReader{In: strings.NewReader("")}.Read(0)
	assert.ErrorIs(t, err, ErrNoNumbers)
}
