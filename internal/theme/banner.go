package theme

import (
	"fmt"
	"io"
	"os"
)

// Banner returns the CLI banner.
func Banner() string {
	const cyan = "\033[36m"
	const blue = "\033[34m"
	const reset = "\033[0m"

	art := "" +
		blue + "  ╦ ╦╔═╗╦  ╦  ╔═╗╔═╗╔╦╗╔═╗╦ ╦\n" + reset +
		blue + "  ║║║╠═╣║  ║  ╠╣ ║╣  ║ ║  ╠═╣\n" + reset +
		blue + "  ╚╩╝╩ ╩╩═╝╩═╝╚  ╚═╝ ╩ ╚═╝╩ ╩\n" + reset +
		cyan + "  posts and comment threads from VK community walls\n" + reset
	return art
}

// PrintBanner prints the banner to stderr so stdout stays machine-readable.
func PrintBanner() {
	FprintBanner(os.Stderr)
}

// FprintBanner writes the banner to w.
func FprintBanner(w io.Writer) {
	fmt.Fprint(w, Banner())
}
