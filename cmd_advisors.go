package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var advisorsLocal bool

func init() {
	advisorsCmd.Flags().BoolVar(&advisorsLocal, "local", false, "read the dataset in-process instead of calling the Retrieval Service")
	rootCmd.AddCommand(advisorsCmd)
}

var advisorsCmd = &cobra.Command{
	Use:   "advisors",
	Short: "List every financial advisor name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		retriever, closeRetriever, err := newRetriever(advisorsLocal)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeRetriever(); err != nil {
				log.Warn().Err(err).Msg("close retriever")
			}
		}()

		names, err := retriever.AdvisorNames(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}
