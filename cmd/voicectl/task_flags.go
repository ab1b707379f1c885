package main

import (
	"github.com/spf13/cobra"
	"github.com/voicecare/relay/internal/domain"
)

type taskFlags struct {
	kind   string
	room   string
	userID string
	text   string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", string(domain.TaskKindJoinRoom), "task kind: join_room, ai_response or task")
	cmd.Flags().StringVar(&f.room, "room", "", "room name")
	cmd.Flags().StringVar(&f.userID, "user", "", "user id")
	cmd.Flags().StringVar(&f.text, "text", "", "task text")
}

// task builds and validates the task described by the flags.
func (f *taskFlags) task() (domain.Task, error) {
	t := domain.Task{
		Kind:   domain.TaskKind(f.kind),
		Room:   f.room,
		UserID: f.userID,
		Text:   f.text,
	}
	if err := t.Validate(); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}
