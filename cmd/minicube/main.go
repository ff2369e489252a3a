// minicube - interactive 2x2x2 cube simulator with a turn journal.
package main

import (
	"github.com/SeamusWaldron/minicube/internal/cli"
)

func main() {
	cli.Execute()
}
