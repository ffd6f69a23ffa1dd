package main

import "github.com/tracemark/agent/tracemark/cmd"

func main() {
	cmd.Execute()
}
