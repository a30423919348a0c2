package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"capstan/internal/language"
	"capstan/internal/services/transcriber"
)

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "models",
		Short:       "List the whisper model sizes the backend accepts",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, model := range transcriber.Models() {
				rows = append(rows, []string{model.ID, model.Name, model.SizeLabel, model.Description})
			}
			headers := []string{"Model", "Name", "Size", "Description"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, nil))
			return nil
		},
	}
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "languages",
		Short:       "List the transcription languages the backend accepts",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, option := range language.Options() {
				rows = append(rows, []string{option.Key, option.Display})
			}
			headers := []string{"Key", "Language"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, nil))
			return nil
		},
	}
}
