package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/voice2doc/internal/classify"
	"github.com/grovetools/voice2doc/internal/display"
	"github.com/grovetools/voice2doc/internal/pipeline"
	"github.com/grovetools/voice2doc/internal/render"
	"github.com/grovetools/voice2doc/internal/structure"
	"github.com/grovetools/voice2doc/internal/transcript"
)

func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <transcript-file>",
		Short: "Run the synthesis pipeline on a raw transcript",
		Long: `Run the full pipeline on a transcript file and print a report.

The input is plain text, or timed JSON ({"text": ..., "words": [...]})
when --timed is set or the file ends in .json. Use "-" to read stdin.
An accepted document is written as markdown when --out is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			requestedType, _ := cmd.Flags().GetString("type")
			if requestedType != "" {
				cfg.Pipeline.RequestedType = requestedType
			}
			project, _ := cmd.Flags().GetString("project")
			if project != "" {
				cfg.Project = project
			}

			raw, err := readTranscript(cmd, args[0])
			if err != nil {
				return err
			}

			registry, err := loadRegistry(cfg)
			if err != nil {
				return err
			}

			coordinator := pipeline.New(registry, pipeline.Options{
				Normalizer: transcript.Options{
					Fillers:                  cfg.Normalizer.Fillers,
					PauseSplitSeconds:        cfg.Normalizer.PauseSplitSeconds,
					CanonicalizeEnumerations: !cfg.Normalizer.DisableEnumerationRewrite,
				},
				Classifier: classify.Options{
					Threshold:     cfg.Pipeline.ClassifierThreshold,
					RequestedType: cfg.Pipeline.RequestedType,
				},
				Engine: structure.Options{
					MinAffinity: cfg.Pipeline.StructuringMinAffinity,
					TieMargin:   cfg.Pipeline.TieMargin,
				},
			})

			outcome, err := coordinator.Run(cmd.Context(), raw)
			if err != nil {
				display.WriteOutcome(cmd.OutOrStdout(), outcome)
				return err
			}
			display.WriteOutcome(cmd.OutOrStdout(), outcome)

			outPath, _ := cmd.Flags().GetString("out")
			if outPath == "" {
				return nil
			}
			if outcome.State != pipeline.StateAccepted {
				return fmt.Errorf("document was not accepted; re-record the missing sections and try again")
			}

			includeUnassigned, _ := cmd.Flags().GetBool("include-unassigned")
			title, _ := cmd.Flags().GetString("title")
			md := render.Markdown(outcome.Document, outcome.Template, render.Options{
				Title:             title,
				Project:           cfg.Project,
				IncludeUnassigned: includeUnassigned,
			})
			if err := os.WriteFile(outPath, []byte(md), 0644); err != nil {
				return fmt.Errorf("writing markdown: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", "", "Document type (adr, prd, rfc, pr); overrides auto-detection ties and threshold fallback")
	cmd.Flags().StringP("out", "o", "", "Write the accepted document as markdown to this file")
	cmd.Flags().String("title", "", "Override the derived document title")
	cmd.Flags().StringP("project", "p", "", "Project name for the document header")
	cmd.Flags().Bool("timed", false, "Treat the input as timed transcript JSON")
	cmd.Flags().Bool("include-unassigned", false, "Append the unassigned bucket to the markdown output")

	return cmd
}

// readTranscript loads the transcript input, detecting timed JSON by flag or
// file extension.
func readTranscript(cmd *cobra.Command, path string) (transcript.RawTranscript, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return transcript.RawTranscript{}, fmt.Errorf("reading transcript: %w", err)
	}

	timed, _ := cmd.Flags().GetBool("timed")
	if timed || strings.HasSuffix(path, ".json") {
		var payload struct {
			Text  string                 `json:"text"`
			Words []transcript.TimedWord `json:"words"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return transcript.RawTranscript{}, fmt.Errorf("parsing timed transcript: %w", err)
		}
		raw := transcript.RawTranscript{Text: payload.Text}
		if len(payload.Words) > 0 {
			raw.Timing = &transcript.Timing{Words: payload.Words}
		}
		return raw, nil
	}

	return transcript.RawTranscript{Text: string(data)}, nil
}
