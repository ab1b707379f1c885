package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/voicecare/relay/internal/config"
	"github.com/voicecare/relay/internal/platform/logger"
	"github.com/voicecare/relay/internal/platform/pubsub"
)

func newPublishCmd() *cobra.Command {
	flags := &taskFlags{}
	var topic string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a task to the queue",
		Long:  "Publishes a task to the configured Pub/Sub topic using the same configuration as the services.",
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := flags.task()
			if err != nil {
				return err
			}
			data, err := task.Encode()
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log, err := logger.New(cfg.Server, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if topic == "" {
				topic = cfg.PubSub.Topic
			}

			client, err := pubsub.NewClient(cmd.Context(), cfg.GCP.ProjectID, log)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			messageID, err := client.Publisher(topic, cfg.PubSub.PublishTimeout).
				Publish(cmd.Context(), data, map[string]string{"source": "voicectl"})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "published %s to %s: %s\n", task.Kind, topic, messageID)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&topic, "topic", "", "topic to publish to (default: pubsub.topic)")
	return cmd
}
