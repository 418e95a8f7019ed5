package config_test

import (
	"fmt"
	"log"

	"github.com/wonny/ratioservice/pkg/config"
)

// ExampleLoadFrom reads an explicit env file before the process environment
func ExampleLoadFrom() {
	cfg, err := config.LoadFrom(".env.production")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	fmt.Printf("%d-year window, cache TTL %s\n", cfg.Ratio.YearWindow, cfg.Ratio.CacheTTL)
	fmt.Printf("crawl %v at %q (%s) with %d workers\n",
		cfg.Collector.Companies, cfg.Collector.Schedule, cfg.Collector.Timezone, cfg.Collector.Workers)
}
