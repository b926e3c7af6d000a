package main

import "github.com/vietddude/codementor/internal/cli"

func main() {
	cli.Execute()
}
