package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "voicectl",
		Short:         "Operate the voicecare relay",
		Long:          "voicectl issues LiveKit tokens, publishes tasks to the queue and builds Pub/Sub push envelopes for manual testing.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newTokenCmd())
	root.AddCommand(newPublishCmd())
	root.AddCommand(newEnvelopeCmd())
	return root
}
