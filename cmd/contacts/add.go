package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-contacts/internal/prompt"
	"github.com/goliatone/go-contacts/pkg/contact"
	"github.com/goliatone/go-contacts/pkg/store"
)

// ErrEmailTaken is returned when a new contact reuses an existing address.
var ErrEmailTaken = errors.New(contact.MessageEmailTaken)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a contact interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg.Database, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		driver := prompt.NewSurveyDriver()
		created, err := addContact(cmd.Context(), driver, st)
		if errors.Is(err, prompt.ErrDeclined) || errors.Is(err, prompt.ErrAborted) {
			return driver.Info(cmd.Context(), "Nothing saved.")
		}
		if err != nil {
			return err
		}
		logger.Debug("contact created", zap.Int64("id", int64(created.ID)))
		return driver.Info(cmd.Context(), fmt.Sprintf("Created contact #%s", created.ID))
	},
}

func addContact(ctx context.Context, d prompt.Driver, st store.Store) (contact.Contact, error) {
	input, err := prompt.AskContact(ctx, d)
	if err != nil {
		return contact.Contact{}, err
	}
	taken, err := st.EmailInUse(ctx, input.EmailAddress, 0)
	if err != nil {
		return contact.Contact{}, err
	}
	if taken {
		return contact.Contact{}, fmt.Errorf("%s: %w", input.EmailAddress, ErrEmailTaken)
	}
	return st.Create(ctx, input)
}
