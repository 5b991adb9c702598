package storage

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestAllowed(t *testing.T) {
	s := newStore(t)

	for _, name := range []string{"a.txt", "b.PDF", "deck.docx", "chart.jpeg"} {
		assert.True(t, s.Allowed(name), name)
	}
	for _, name := range []string{"malware.exe", "archive.zip", "noext", ""} {
		assert.False(t, s.Allowed(name), name)
	}
}

func TestSaveAndOpen_RoundTrip(t *testing.T) {
	s := newStore(t)

	ref, err := s.Save("Q3 report.pdf", strings.NewReader("the pdf bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, "_Q3_report.pdf"))
	assert.NotContains(t, ref, "/")

	f, err := s.Open(ref)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "the pdf bytes", string(data))
}

func TestSave_Rejected(t *testing.T) {
	s := newStore(t)

	_, err := s.Save("report.exe", strings.NewReader("MZ"))
	assert.ErrorIs(t, err, ErrRejected)

	_, err = s.Save("  ", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrRejected)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPath_RejectsTraversal(t *testing.T) {
	s := newStore(t)

	for _, ref := range []string{
		"../secrets.txt",
		"..%2Fsecrets.txt",
		"/etc/passwd",
		`..\windows`,
		"a/b.txt",
		"",
	} {
		_, err := s.Path(ref)
		assert.ErrorIs(t, err, ErrNotFound, ref)
	}

	path, err := s.Path("20240101000000_a.txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, s.Dir()))
}

func TestOpen_Missing(t *testing.T) {
	s := newStore(t)

	_, err := s.Open("20240101000000_gone.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove_Tolerant(t *testing.T) {
	s := newStore(t)

	// missing reference and empty reference are no-ops
	assert.NoError(t, s.Remove("20240101000000_gone.txt"))
	assert.NoError(t, s.Remove(""))
	assert.NoError(t, s.Remove("../outside.txt"))

	ref, err := s.Save("note.txt", strings.NewReader("n"))
	require.NoError(t, err)
	require.NoError(t, s.Remove(ref))

	_, err = s.Open(ref)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSanitizeFallback(t *testing.T) {
	s := newStore(t)

	// a stem that sanitizes to nothing gets a generated one, extension kept
	ref, err := s.Save("файл.txt", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".txt"))
	assert.NotContains(t, ref, "файл")

	f, err := s.Open(ref)
	require.NoError(t, err)
	f.Close()
}