package main

import (
	"context"
	"log"

	"github.com/avolkovs/sessionkeeper/internal/server"
	"github.com/avolkovs/sessionkeeper/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
