package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/certmint/certmint/pkg/config"
	"github.com/certmint/certmint/pkg/db"
	"github.com/certmint/certmint/pkg/events"
	"github.com/certmint/certmint/pkg/metrics"
	"github.com/certmint/certmint/pkg/server"
	"github.com/certmint/certmint/pkg/server/endpoints"
	"github.com/certmint/certmint/pkg/token"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the CertMint application server",
	Long: `Run the CertMint application server

To run the server requires the environment variables CERTMINT_TOKEN_SIGNING_KEY
and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		if _, ok := os.LookupEnv(token.SigningKeyEnvVar); !ok {
			fmt.Fprintf(os.Stderr, "%s environment variable is required\n", token.SigningKeyEnvVar)
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		key, err := token.LoadKey()
		if err != nil {
			fmt.Println("Bad CERTMINT_TOKEN_SIGNING_KEY:", err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Println("Invalid configuration:", err)
			os.Exit(1)
		}

		signer := token.NewSigner(key, cfg.TokenTTL())

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(database, cfg, signer, host, port)

		if cfg.MetricsEnabled {
			s.Metrics = metrics.New()
		}

		endpoints.RegisterAll(s)

		// Reload the config file on SIGHUP ("certmintctl configuration apply"
		// sends it). Settings captured at startup still need a restart.
		hupChan := make(chan os.Signal, 1)
		signal.Notify(hupChan, syscall.SIGHUP)
		go func() {
			for range hupChan {
				if err := config.Reload(); err != nil {
					log.Printf("Configuration reload failed: %v", err)
					continue
				}
				log.Println("Configuration file reloaded")
			}
		}()

		if cfg.RelayEnabled {
			if len(cfg.KafkaBrokers) == 0 {
				fmt.Println("Invalid configuration: relay_enabled requires kafka_brokers")
				os.Exit(1)
			}
			producer, err := events.NewProducer(cfg.KafkaBrokers)
			if err != nil {
				fmt.Println("Unable to create Kafka producer:", err)
				os.Exit(1)
			}
			relay := events.NewRelay(database, producer, cfg.KafkaTopic)
			log.Printf("Relaying events to Kafka topic %q...\n", cfg.KafkaTopic)
			go func() {
				if err := relay.Run(context.Background()); err != nil {
					log.Printf("Event relay stopped: %v", err)
				}
			}()
		}

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// serverCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
