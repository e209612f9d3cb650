package main

import (
	"github.com/darkron008/tipsplit/internal/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// Local .env is optional; flags and config take precedence anyway.
	_ = godotenv.Load()

	cmd.Execute()
}
