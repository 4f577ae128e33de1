package main

import "github.com/avido/experiments-data-api/cmd"

func main() {
	cmd.Execute()
}
