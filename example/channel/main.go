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

	sink, batches, closeBatches := devinfo.NewChannelSink("fanout", 4)

	done := make(chan struct{})
	go func() {
		defer close(done)
		fanoutWorker("upload", batches)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := dash.Export(ctx, sink)
	closeBatches()
	<-done
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	fmt.Printf("exported %d samples\n", n)
}

func fanoutWorker(name string, batches <-chan []devinfo.Sample) {
	for batch := range batches {
		fmt.Printf("[%s] forwarding %d samples at %s\n", name, len(batch), time.Now().Format(time.RFC3339))
	}
}
