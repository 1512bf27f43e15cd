package main

import "github.com/vietddude/beacon/internal/cli"

func main() {
	cli.Execute()
}
