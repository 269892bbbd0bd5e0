package main

import (
	"context"
	"log"

	// Embedded zone database so organization time zones resolve on hosts without one.
	_ "time/tzdata"

	"github.com/dalemusser/timeclock/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
