package main

import "github.com/wrenlabs/specwright/cmd"

func main() {
	cmd.Execute()
}
