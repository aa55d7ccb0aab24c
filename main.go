package main

import "github.com/msomdec/daybook/internal/cli"

func main() {
	cli.Execute()
}
