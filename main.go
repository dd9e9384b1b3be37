package main

import "github.com/shelfmetrics/skuratio-cli/cmd"

func main() {
	cmd.Execute()
}
