package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contacts/pkg/contact"
	"github.com/goliatone/go-contacts/pkg/store"
)

var seedFile string

// seedDocument is the fixture format:
//
//	contacts:
//	  - first_name: Ada
//	    last_name: Lovelace
//	    phone: 555-0100
//	    email_address: ada@example.com
type seedDocument struct {
	Contacts []contact.Pending `yaml:"contacts"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert contacts from a YAML fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(seedFile)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		inputs, err := parseSeed(data)
		if err != nil {
			return err
		}

		st, err := openStore(cmd.Context(), cfg.Database, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		created, skipped, err := seedContacts(cmd.Context(), st, inputs, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d contacts, skipped %d\n", created, skipped)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "contacts.seed.yaml", "YAML fixture to load")
}

// parseSeed decodes and validates every fixture entry before anything is
// written.
func parseSeed(data []byte) ([]contact.Input, error) {
	var doc seedDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("seed: parsing: %w", err)
	}

	inputs := make([]contact.Input, 0, len(doc.Contacts))
	for i, pending := range doc.Contacts {
		input, errs := pending.Normalize().Validate()
		if err := errs.Err(); err != nil {
			return nil, fmt.Errorf("seed: entry %d: %w", i+1, err)
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

// seedContacts inserts inputs, skipping addresses that are already taken.
func seedContacts(ctx context.Context, st store.Store, inputs []contact.Input, log *zap.Logger) (created, skipped int, err error) {
	for _, input := range inputs {
		taken, err := st.EmailInUse(ctx, input.EmailAddress, 0)
		if err != nil {
			return created, skipped, err
		}
		if taken {
			log.Warn("skipping duplicate email", zap.String("email", input.EmailAddress))
			skipped++
			continue
		}
		if _, err := st.Create(ctx, input); err != nil {
			return created, skipped, err
		}
		created++
	}
	return created, skipped, nil
}
