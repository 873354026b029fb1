package main

import "martianoff/tsclosure/cmd/tsclosure/commands"

func main() {
	commands.Execute()
}
