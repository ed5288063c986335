package main

import (
	"os"

	"github.com/AreaLayer/elements-miniscript-ci/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
