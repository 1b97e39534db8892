package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/krakenpriv/exchange/kraken"
	"github.com/lukehollenback/krakenpriv/trader"
	"github.com/lukehollenback/krakenpriv/trader/broker"
	"github.com/lukehollenback/krakenpriv/trader/feed"
	"github.com/lukehollenback/krakenpriv/trader/writer"
)

const (
	KeyEnv    = "KRAKEN_API_KEY"
	SecretEnv = "KRAKEN_API_SECRET"
)

var (
	cfgAPIHost = flag.String("api-host", kraken.BaseURL, "The scheme and host of the Kraken REST API.")
	cfgFeed    = flag.Bool("feed", false, "Whether or not to stay up and monitor the private websocket feed.")
)

func main() {
	flag.Parse()

	//
	// Register a kill signal handler with the operating system so that we can gracefully shutdown if
	// necessary.
	//
	osInterrupt := make(chan os.Signal, 1)

	signal.Notify(osInterrupt, os.Interrupt)

	//
	// Build an authenticated client. Any problem with the credential is fatal; nothing is ever sent
	// with a partially signed request.
	//
	client := kraken.NewClient(kraken.NewBuilder(kraken.WithHost(*cfgAPIHost)), nil)

	err := client.Auth(strings.TrimSpace(os.Getenv(KeyEnv)), strings.TrimSpace(os.Getenv(SecretEnv)))
	if err != nil {
		log.Fatalf("Failed to load credentials from %s and %s. (Error: %s)", KeyEnv, SecretEnv, err)
	}

	cfg, err := broker.ConfigFromFlags()
	if err != nil {
		log.Fatalf("Failed to parse the order configuration. (Error: %s)", err)
	}

	//
	// Start up all necessary services.
	//
	brokerSvc := broker.New(client, cfg)
	services := []trader.Service{writer.Instance(), brokerSvc}

	if err := trader.StartAll(services...); err != nil {
		log.Fatalf("Failed to start services. (Error: %s)", err)
	}

	//
	// Place the configured orders and report balances.
	//
	if _, err := brokerSvc.Execute(context.Background()); err != nil {
		trader.StopAll(services...)

		log.Fatalf("Failed to execute the broker service. (Error: %s)", err)
	}

	//
	// Optionally stay up and monitor the private feed until we are shut down by the operating system.
	//
	if *cfgFeed {
		feedSvc := feed.New(client)
		feedSvc.RegisterHandler(func(evt *feed.Event) {
			log.Printf("Received %s message %d. (Payload: %s)", aurora.Bold(evt.Channel), evt.Sequence, evt.Payload)
		})

		if err := trader.StartAll(feedSvc); err != nil {
			trader.StopAll(services...)

			log.Fatalf("Failed to start the feed service. (Error: %s)", err)
		}

		services = append(services, feedSvc)

		<-osInterrupt

		log.Print("An operating system interrupt has been received. Shutting down all services...")
	}

	//
	// Stop all running services.
	//
	trader.StopAll(services...)

	//
	// Wrap everything up.
	//
	log.Print("Goodbye.")
}
