package main

import "github.com/michaelcadilhac/oink/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
