package main

import (
	"os"

	"github.com/winglish-nk/Winglish-bot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
