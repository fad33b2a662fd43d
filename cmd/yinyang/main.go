package main

import (
	"os"

	"github.com/funvibe/yinyang/pkg/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
