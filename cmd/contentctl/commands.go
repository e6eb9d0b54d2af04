package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"content-engine-be/internal/bootstrap"
	"content-engine-be/internal/repository/memory"
	"content-engine-be/internal/repository/unitofwork"
	"content-engine-be/internal/service"
	"content-engine-be/pkg/embedding"
	"content-engine-be/pkg/events"
	pktNats "content-engine-be/pkg/nats"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create extensions, tables and the vector index",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := bootstrap.MigrateSchema(db); err != nil {
			return err
		}
		fmt.Println("Migration complete")
		return nil
	},
}

var backfillBatch int

var backfillCmd = &cobra.Command{
	Use:   "backfill-embeddings",
	Short: "Embed every source that has no vector yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		embedder, err := embedding.NewProvider(
			cfg.Ai.EmbeddingProvider,
			cfg.Ai.EmbeddingModel,
			cfg.Ai.OpenAIKey,
			embeddingBaseURL(),
		)
		if err != nil {
			return err
		}

		var publisher events.Publisher = events.NopPublisher{}
		if pub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLog); err == nil {
			defer pub.Close()
			publisher = pub
		}

		consumer := service.NewConsumerService(
			nil,
			service.EmbedSourceTopic,
			unitofwork.NewRepositoryFactory(db),
			embedder,
			publisher,
			cfg.Retrieval.EmbedCharLimit,
			sysLog,
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		n, err := consumer.Backfill(ctx, backfillBatch)
		fmt.Printf("Embedded %d sources\n", n)
		return err
	},
}

var seedFile string

var seedVoiceCmd = &cobra.Command{
	Use:   "seed-voice",
	Short: "Load company, platform and profile voices from a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return fmt.Errorf("open seed file: %w", err)
		}
		defer f.Close()

		seed, err := service.ParseVoiceSeed(f)
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		uowFactory := unitofwork.NewRepositoryFactory(db)
		voices := service.NewVoiceService(uowFactory, memory.NewVoiceCache(0), sysLog)

		res, err := service.ApplyVoiceSeed(cmd.Context(), uowFactory, voices, seed)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded company=%t platforms=%d profiles=%d\n", res.Company, res.Platforms, res.Profiles)
		return nil
	},
}

var eventsType string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print domain events from the bus until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLog)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer sub.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		subject := pktNats.Subject(">")
		if eventsType != "" {
			subject = pktNats.Subject(eventsType)
		}
		err = sub.Subscribe(ctx, subject, "", func(ctx context.Context, event events.Event) error {
			payload := event.Payload()
			keys := make([]string, 0, len(payload))
			for k := range payload {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			fmt.Printf("%s %s", event.Timestamp().Format("15:04:05"), event.EventType())
			for _, k := range keys {
				fmt.Printf(" %s=%v", k, payload[k])
			}
			fmt.Println()
			return nil
		})
		if err != nil {
			return err
		}

		<-ctx.Done()
		return nil
	},
}

func init() {
	backfillCmd.Flags().IntVar(&backfillBatch, "batch", 50, "Sources fetched per round")
	seedVoiceCmd.Flags().StringVarP(&seedFile, "file", "f", "voice.yaml", "Seed file path")
	eventsCmd.Flags().StringVarP(&eventsType, "type", "t", "", "Only show one event type, e.g. source.embedded")
}

func embeddingBaseURL() string {
	if cfg.Ai.EmbeddingProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.OpenAIBaseURL
}
