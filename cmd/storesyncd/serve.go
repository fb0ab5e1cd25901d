package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/storeform/storesync"
	"github.com/storeform/storesync/server"
	"github.com/storeform/storesync/tabular"
)

var (
	flagAddr        string
	flagBackend     string
	flagDynamoTable string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":3000", "listen address")
	serveCmd.Flags().StringVar(&flagBackend, "backend", "http", "tabular backend: http, dynamodb or memory")
	serveCmd.Flags().StringVar(&flagDynamoTable, "dynamo-table", "storesync", "DynamoDB table name (dynamodb backend)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})

	client, err := buildClient(cmd.Context())
	if err != nil {
		return err
	}

	svc := storesync.New(client, storesync.WithLogger(log.Logger))
	srv := server.New(svc, server.WithLogger(log.Logger))

	go func() {
		log.Info().Str("address", flagAddr).Str("backend", flagBackend).Msg("Starting HTTP server")
		if err := srv.Listen(flagAddr); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := srv.Shutdown(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server stopped")
	return nil
}

func buildClient(ctx context.Context) (storesync.TableClient, error) {
	switch flagBackend {
	case "memory":
		return tabular.NewMemoryClient(), nil

	case "dynamodb":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS configuration: %w", err)
		}
		return tabular.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), flagDynamoTable), nil

	case "http":
		cfg, err := storesync.LoadConfig()
		if err != nil {
			return nil, err
		}
		return tabular.NewHTTPClient(cfg)

	default:
		return nil, fmt.Errorf("unsupported backend %q", flagBackend)
	}
}
