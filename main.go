package main

import (
	"github.com/ninja0404/old-runners/internal/cli"
)

func main() {
	cli.Execute()
}
