package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-contacts/pkg/apispec"
)

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print the embedded OpenAPI document",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(apispec.Raw())
		return err
	},
}
