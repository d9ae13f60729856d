package main

import (
	"github.com/saveguard/saveguard/cmd"
	"github.com/saveguard/saveguard/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
