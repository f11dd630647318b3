package main

import (
	"mercadillo/internal/cli"
)

func main() {
	cli.Execute()
}
