package main

import "github.com/binderworks/tcg-binder/internal/commands"

func main() {
	commands.Execute()
}
