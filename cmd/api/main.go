package main

import (
	"context"
	"log"

	"library-service/cmd/api/app"
	"library-service/cmd/api/server"
)

func main() {
	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	application, err := app.New()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}
