package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-matcher/internal/extraction"
	"github.com/jonathan/skill-matcher/internal/observability"
)

// inlineTitle labels text output for skills extracted from --text.
const inlineTitle = "inline text"

func newExtractCmd(a *app) *cobra.Command {
	var (
		text string
		raw  bool
	)

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract skills from a document or inline text",
		Long: "Read a PDF, DOCX, HTML, Markdown or plain text document, or the text given with --text, " +
			"and list the technical skills, soft skills and experience keywords it mentions.",
		Example: "  skillmatch extract resume.pdf\n" +
			"  skillmatch extract --text \"I use Go daily\"\n" +
			"  skillmatch extract resume.docx --raw",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			textSet := cmd.Flags().Changed("text")
			switch {
			case textSet && len(args) == 1:
				return errors.New("provide either a file or --text, not both")
			case !textSet && len(args) == 0:
				return errors.New("provide a file or --text")
			case textSet && strings.TrimSpace(text) == "":
				return errors.New("--text cannot be empty")
			}

			title, content := inlineTitle, text
			out := cmd.OutOrStdout()
			if !textSet {
				doc, err := a.readDocument(args[0])
				if err != nil {
					return err
				}
				if raw {
					if a.output == outputJSON {
						return writeJSON(out, doc)
					}
					_, err := out.Write([]byte(doc.Text + "\n"))
					return err
				}
				title, content = doc.Filename, doc.Text
			}

			vocab, err := a.vocabulary()
			if err != nil {
				return err
			}
			result := extraction.New(vocab).Extract(content)

			if a.output == outputJSON {
				return writeJSON(out, result)
			}
			observability.NewPrinter(out).PrintExtraction(title, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Extract skills from this text instead of a file")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the cleaned document text instead of skills")
	cmd.MarkFlagsMutuallyExclusive("text", "raw")
	return cmd
}
