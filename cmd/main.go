package main

import (
	cmd "github.com/kerbaras/mangagrab/cmd/mangagrab"
)

func main() {
	cmd.Execute()
}
