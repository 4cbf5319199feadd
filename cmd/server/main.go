package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/indatwa/events-api/cmd/server/cmd"
)

func main() {
	loadLocalEnv()
	cmd.Execute()
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found; relying on existing environment")
	}
}
