package display

import (
	"fmt"
	"os"

	"github.com/spookworks/ganprep/internal/term"
)

// PrintBanner prints the ASCII art banner; colored when colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Cyan)
	}
	fmt.Fprint(os.Stdout, `  ____             ____
 / ___| __ _ _ __ |  _ \ _ __ ___ _ __
| |  _ / _`+"`"+` | '_ \| |_) | '__/ _ \ '_ \
| |_| | (_| | | | |  __/| | |  __/ |_) |
 \____|\__,_|_| |_|_|   |_|  \___| .__/
                                 |_|
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
