package logging

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsInteractive reports whether file is attached to a terminal.
func IsInteractive(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
