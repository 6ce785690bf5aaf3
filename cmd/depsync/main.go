package main

import "depsync/internal/cli"

func main() {
	cli.Execute()
}
