// Package ui provides the interactive terminal form that collects an
// extraction prompt and target format.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/shpitdev/llm-data-extract/internal/extract"
)

// Input is one submission from the interactive form.
type Input struct {
	Prompt string
	Format extract.Format
}

// PromptForm collects a prompt and output format. Returns huh.ErrUserAborted
// when the user cancels.
func PromptForm(defaultPrompt string) (Input, error) {
	prompt := defaultPrompt
	format := string(extract.FormatJSON)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Prompt").
				Description("Text and extraction instructions for the model").
				Placeholder("Extract the name, age, and city from the following sentence: ...").
				Value(&prompt).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("prompt is required")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Output format").
				Description("Shape the model reply will be parsed as").
				Options(
					huh.NewOption("JSON (a single object)", string(extract.FormatJSON)),
					huh.NewOption("CSV (header row plus records)", string(extract.FormatCSV)),
				).
				Value(&format),
		),
	)

	if err := form.Run(); err != nil {
		return Input{}, err
	}

	parsed, err := extract.ParseFormat(format)
	if err != nil {
		return Input{}, err
	}
	return Input{Prompt: prompt, Format: parsed}, nil
}

// ConfirmAnother asks whether to run another extraction.
func ConfirmAnother() (bool, error) {
	again := false
	err := huh.NewConfirm().
		Title("Run another extraction?").
		Value(&again).
		Run()
	if err != nil {
		return false, err
	}
	return again, nil
}
