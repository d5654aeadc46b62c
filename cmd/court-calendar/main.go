package main

import "github.com/pfrederiksen/court-calendar/internal/cli"

func main() {
	cli.Execute()
}
