package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/vocabsrs/internal/excel"
	"github.com/example/vocabsrs/pkg/models"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	cfg := excel.DefaultImportConfig()
	var defaultLevel string

	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import vocabulary items from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.FilePath = args[0]
			if defaultLevel != "" {
				level, err := models.ParseLevel(defaultLevel)
				if err != nil {
					return err
				}
				cfg.DefaultLevel = level
			}

			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := excel.NewImporter(a.words, a.logger).ImportWords(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, result, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "processed\t%d\n", result.TotalProcessed)
				fmt.Fprintf(tw, "created\t%d\n", result.Created)
				fmt.Fprintf(tw, "updated\t%d\n", result.Updated)
				fmt.Fprintf(tw, "skipped\t%d\n", result.Skipped)
				for _, e := range result.Errors {
					fmt.Fprintf(tw, "error\t%s\n", e)
				}
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.SheetName, "sheet", "", "sheet to import (default first sheet)")
	f.IntVar(&cfg.StartRow, "start-row", cfg.StartRow, "first data row, 1-based")
	f.StringVar(&cfg.TextColumn, "text-column", cfg.TextColumn, "column holding the word")
	f.StringVar(&cfg.LanguageColumn, "language-column", cfg.LanguageColumn, "column holding the language code")
	f.StringVar(&cfg.LevelColumn, "level-column", cfg.LevelColumn, "column holding the level")
	f.StringVar(&cfg.AudioColumn, "audio-column", cfg.AudioColumn, "column holding the audio URL")
	f.StringVar(&cfg.DefaultLanguage, "default-language", cfg.DefaultLanguage, "language for rows without one")
	f.StringVar(&defaultLevel, "default-level", "", "level for rows without one")
	return cmd
}
