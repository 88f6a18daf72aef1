package main

import "github.com/vietkubers/quest-count/internal/cli"

func main() {
	cli.Execute()
}
