package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var askLocal bool

func init() {
	askCmd.Flags().BoolVar(&askLocal, "local", false, "read the dataset in-process instead of calling the Retrieval Service")
	rootCmd.AddCommand(askCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		retriever, closeRetriever, err := newRetriever(askLocal)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeRetriever(); err != nil {
				log.Warn().Err(err).Msg("close retriever")
			}
		}()

		d, err := newDispatcher(cmd.Context(), retriever, nil)
		if err != nil {
			return err
		}

		answer := d.Answer(cmd.Context(), strings.Join(args, " "))
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}
