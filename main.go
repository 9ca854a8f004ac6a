package main

import "rota-engine/internal/cli"

func main() {
	cli.Execute()
}
