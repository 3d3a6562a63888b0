package display

import (
	"fmt"
	"io"

	"github.com/backmassage/clipstack/internal/term"
)

// PrintBanner prints the ASCII art banner to w; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `       _ _           _             _
   ___| (_)_ __  ___| |_ __ _  ___| | __
  / __| | | '_ \/ __| __/ _`+"`"+` |/ __| |/ /
 | (__| | | |_) \__ \ || (_| | (__|   <
  \___|_|_| .__/|___/\__\__,_|\___|_|\_\
          |_|
`)
	if term.Enabled() {
		fmt.Fprint(w, term.NC)
	}
}
