package main

import "github.com/simkit/sim-cli/cmd"

func main() {
	cmd.Execute()
}
