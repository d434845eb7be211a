package main

import (
	"random-coffee/internal/cli"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
