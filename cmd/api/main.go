package main

import (
	"context"
	"log"

	"riskgraph/cmd"
	"riskgraph/internal/logger"
)

func main() {
	defer logger.ReplaceGlobals()()

	deps, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(deps)

	logger.FromContext(context.Background()).Infow("starting api", "port", deps.Config.Port, "price_source", deps.Config.PriceSource)
	err = deps.ApiHandler.StartApi(deps.Config.Port)
	if err != nil {
		log.Fatal(err)
	}
}
