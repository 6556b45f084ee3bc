package main

import (
	"github.com/vanpelt/catnip-tui/internal/cmd"
)

func main() {
	cmd.Execute()
}
