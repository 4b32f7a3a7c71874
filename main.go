package main

import "github.com/xvierd/eclipse-cli/cmd"

func main() {
	cmd.Execute()
}
