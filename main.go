package main

import "github.com/dotcommander/scorecard/cmd"

func main() {
	cmd.Execute()
}
