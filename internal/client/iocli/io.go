package iocli

//go:generate moq -out io_mock.go . IO

// IO is the terminal the command line client talks to
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	Write(p []byte) (n int, err error)
	// IsTerminal сообщает, что вывод идет в терминал (цвета, ширина)
	IsTerminal() bool
	// Width ширина терминала в колонках
	Width() int
}
