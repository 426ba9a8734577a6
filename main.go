package main

import (
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/openroadmotors/dealership-api/api/handlers"
	"github.com/openroadmotors/dealership-api/config"
	"github.com/openroadmotors/dealership-api/logging"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()
	_ = zap.ReplaceGlobals(logging.New().Desugar())

	if err := a.Initialize(); err != nil {
		log.Fatal(err)
	}

	a.Scheduler.Start()
	defer a.Scheduler.Stop()

	zap.S().Infow("dealership-api is up and running",
		"port", a.Config.Port,
		"url", a.Config.BaseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", a.Config.Port), a.Router))
}
