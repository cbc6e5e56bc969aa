package main

import "github.com/jameshorton2486/transcript-creator-processor/cmd"

func main() {
	cmd.Execute()
}
