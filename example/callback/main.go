package main

import (
	"context"
	"fmt"
	"log"
	"time"

	devinfo "github.com/anhprgm/dev-info"
)

func main() {
	dash, err := devinfo.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dash.CaptureSample(ctx)

	callback := func(batch []devinfo.Sample) error {
		for _, s := range batch {
			fmt.Printf("%s battery=%d%% cpu=%.1f%% ram_free=%d\n",
				time.UnixMilli(s.Timestamp).Format(time.RFC3339),
				s.BatteryLevel,
				s.CPUUsagePercent,
				s.AvailableRAMBytes,
			)
		}
		return nil
	}

	if _, err := dash.Export(ctx, devinfo.NewCallbackSink("stdout", callback)); err != nil {
		log.Fatalf("export: %v", err)
	}
}
