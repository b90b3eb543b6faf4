package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// DefaultWidth ширина вывода, если размер терминала неизвестен
const DefaultWidth = 100

type Stdio struct {
	in  *bufio.Reader
	out io.Writer
}

func NewStdio() IO {
	return NewStream(os.Stdin, os.Stdout)
}

// NewStream создает IO поверх произвольных потоков
func NewStream(in io.Reader, out io.Writer) IO {
	return &Stdio{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	input, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (s *Stdio) IsTerminal() bool {
	fd, ok := s.fd()
	return ok && term.IsTerminal(fd)
}

func (s *Stdio) Width() int {
	fd, ok := s.fd()
	if !ok {
		return DefaultWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

func (s *Stdio) fd() (int, bool) {
	f, ok := s.out.(*os.File)
	if !ok {
		return 0, false
	}
	return int(f.Fd()), true
}
