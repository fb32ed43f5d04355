package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/sungsigun/SignageManagement/internal/cli"
)

func main() {
	// .env 로드
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cli.Execute()
}
