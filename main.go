package main

import "github.com/timvw/mukduk/cmd"

func main() {
	cmd.Execute()
}
