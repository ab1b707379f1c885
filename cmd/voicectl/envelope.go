package main

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/voicecare/relay/internal/dispatch"
)

func newEnvelopeCmd() *cobra.Command {
	flags := &taskFlags{}
	var subscription string

	cmd := &cobra.Command{
		Use:   "envelope",
		Short: "Print a Pub/Sub push envelope for a task",
		Long: "Prints the JSON body Pub/Sub would POST to the worker for a task, e.g.\n\n" +
			"  voicectl envelope --room r1 | curl -d @- localhost:8081/pubsub/push",
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := flags.task()
			if err != nil {
				return err
			}
			data, err := task.Encode()
			if err != nil {
				return err
			}

			env := dispatch.NewEnvelope(data, map[string]string{"source": "voicectl"}, uuid.NewString(), subscription)
			return json.NewEncoder(cmd.OutOrStdout()).Encode(env)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&subscription, "subscription", "projects/local/subscriptions/worker-push", "subscription name to embed")
	return cmd
}
