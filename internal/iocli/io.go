package iocli

//go:generate moq -out io_mock.go . IO

// IO ввод-вывод командной строки: вывод результатов и запрос секретов
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadPassword(prompt string) (string, error)
	IsInteractive() bool
}
