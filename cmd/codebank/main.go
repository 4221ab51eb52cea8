package main

import "github.com/tyrchen/codebank/internal/cli"

func main() {
	cli.Execute()
}
