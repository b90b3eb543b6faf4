package iocli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Проверяем что NewStdio возвращает валидный объект
func TestNewStdio(t *testing.T) {
	stdio := NewStdio()
	assert.NotNil(t, stdio)
}

func TestPrintlnAndPrintf(t *testing.T) {
	var out bytes.Buffer
	s := NewStream(strings.NewReader(""), &out)

	s.Println("hello", "world")
	s.Printf("test %d %s", 1, "abc")
	_, err := s.Write([]byte("!"))
	require.NoError(t, err)

	assert.Equal(t, "hello world\ntest 1 abc!", out.String())
}

// Тест ReadInput: читаем из буфера вместо os.Stdin
func TestReadInput(t *testing.T) {
	var out bytes.Buffer
	s := NewStream(strings.NewReader("  user input \nsecond\n"), &out)

	first, err := s.ReadInput("Prompt: ")
	require.NoError(t, err)
	assert.Equal(t, "user input", first)
	assert.Equal(t, "Prompt: ", out.String())

	second, err := s.ReadInput("")
	require.NoError(t, err)
	assert.Equal(t, "second", second)
}

// Последняя строка без перевода строки тоже читается
func TestReadInput_NoTrailingNewline(t *testing.T) {
	s := NewStream(strings.NewReader("yes"), io.Discard)

	got, err := s.ReadInput("> ")
	require.NoError(t, err)
	assert.Equal(t, "yes", got)

	_, err = s.ReadInput("> ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestTerminalDetection_NonFile(t *testing.T) {
	s := NewStream(strings.NewReader(""), &bytes.Buffer{})

	assert.False(t, s.IsTerminal())
	assert.Equal(t, DefaultWidth, s.Width())
}

func TestTerminalDetection_Pipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() {
		_ = r.Close()
		_ = w.Close()
	}()

	s := NewStream(strings.NewReader(""), w)
	assert.False(t, s.IsTerminal())
	assert.Equal(t, DefaultWidth, s.Width())
}
