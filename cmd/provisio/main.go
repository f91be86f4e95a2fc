package main

import (
	"github.com/arencloud/provisio/internal/cli"
)

func main() {
	cli.Execute()
}
