package main

import "github.com/vitormoschetta/travel-supervisor/internal/cli"

func main() {
	cli.Execute()
}
