package main

import (
	"github.com/nohumanman/desc-comp-toolkit/internal/cli"
)

func main() {
	cli.Execute()
}
