package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/02loveslollipop/building-feature-engineering/services/featurize/internal/config"
	"github.com/02loveslollipop/building-feature-engineering/services/featurize/internal/featureapi"
	"github.com/02loveslollipop/building-feature-engineering/services/featurize/internal/utils"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("featurize failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	payload, err := utils.ReadPayload(cfg.InputPath)
	if err != nil {
		return err
	}

	var result string
	if cfg.Local {
		result, err = utils.ApplyLocal(cfg.Transform, payload)
		if err != nil {
			return err
		}
		log.Printf("applied %s locally", cfg.Transform)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+10*time.Second)
		defer cancel()

		client := &http.Client{Timeout: cfg.RequestTimeout}
		result, err = featureapi.Transform(ctx, client, cfg.APIURL, cfg.Transform, payload)
		if err != nil {
			return err
		}
		log.Printf("applied %s via %s", cfg.Transform, cfg.APIURL)
	}

	if summary, err := utils.Summarize(result); err == nil {
		log.Printf("result: %d buildings, %d sensors, %d rows", summary.Buildings, summary.Sensors, summary.Rows)
	}

	return utils.WritePayload(cfg.OutputPath, result)
}
