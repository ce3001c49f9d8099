package display

import (
	"fmt"
	"os"

	"github.com/clipforge/dubmix/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Magenta != "" {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, ` ____        _     __  __ _
|  _ \ _   _| |__ |  \/  (_)_  __
| | | | | | | '_ \| |\/| | \ \/ /
| |_| | |_| | |_) | |  | | |>  <
|____/ \__,_|_.__/|_|  |_|_/_/\_\
`)
	if term.Magenta != "" {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
