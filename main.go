package main

import "stagesync/cmd"

func main() {
	cmd.Execute()
}
