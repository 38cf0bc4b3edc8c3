package main

import (
	"os"

	"pomodoro_tui/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
