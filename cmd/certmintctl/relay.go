package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/certmint/certmint/pkg/config"
	"github.com/certmint/certmint/pkg/db"
	"github.com/certmint/certmint/pkg/events"
)

// relayCmd represents the relay command
var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the Kafka event relay",
	Long: `Run the Kafka event relay in the foreground.

The relay tails the event log and publishes new events to Kafka in order,
resuming from the last published sequence after a restart. When
relay_enabled is set in the configuration, 'certmintctl server' runs the
relay itself; this command runs it as a separate process instead.

Requires DATABASE_URL and the kafka_brokers configuration attribute.

Example:
  certmintctl relay
  certmintctl relay --interval 5s --batch-size 500`,
	Run: func(cmd *cobra.Command, args []string) {
		topic, _ := cmd.Flags().GetString("topic")
		interval, _ := cmd.Flags().GetDuration("interval")
		batchSize, _ := cmd.Flags().GetInt("batch-size")

		if err := runRelay(topic, interval, batchSize); err != nil {
			fmt.Fprintf(os.Stderr, "Relay failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(relayCmd)
	relayCmd.Flags().String("topic", "", "Kafka topic to publish to (default: the kafka_topic configuration attribute)")
	relayCmd.Flags().Duration("interval", events.DefaultInterval, "Polling interval")
	relayCmd.Flags().Int("batch-size", events.DefaultBatchSize, "Maximum events published per poll")
}

func runRelay(topic string, interval time.Duration, batchSize int) error {
	if os.Getenv("DATABASE_URL") == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg := config.Get()
	if len(cfg.KafkaBrokers) == 0 {
		return fmt.Errorf("kafka_brokers must be configured")
	}
	if topic == "" {
		topic = cfg.KafkaTopic
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	producer, err := events.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		return err
	}
	defer producer.Close()

	relay := events.NewRelay(database, producer, topic,
		events.WithInterval(interval),
		events.WithBatchSize(batchSize),
	)

	fmt.Printf("Relaying events to Kafka topic %q (brokers: %v)\n", topic, cfg.KafkaBrokers)

	// Handle signals for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
