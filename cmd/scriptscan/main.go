package main

import "scriptscan/internal/cli"

func main() {
	cli.Execute()
}
