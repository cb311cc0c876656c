// Package categorize handles transaction categorization commands
package categorize

import (
	"dkhurana/bankledger/cmd/root"
	"dkhurana/bankledger/internal/logging"

	"github.com/spf13/cobra"
)

var skipProcess bool

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Process new statements and apply categorization rules",
	Long: `Process the raw data directory, then run the rule engine over every
stored transaction that has no category yet and persist the assignments.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().BoolVar(&skipProcess, "skip-process", false,
		"Categorize existing transactions without processing the raw directory")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	st, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p := root.NewPipeline(st)
	if err := p.SeedCategories(); err != nil {
		return err
	}

	if !skipProcess {
		if _, err := p.Process(); err != nil {
			return err
		}
	}

	result, err := p.Categorize()
	if err != nil {
		return err
	}

	root.Log.Info("Categorized transactions",
		logging.Field{Key: logging.FieldCount, Value: result.Total},
		logging.Field{Key: logging.FieldCategory, Value: result.Categorized})
	for name, count := range result.PerCategory {
		root.Log.Info("Category summary",
			logging.Field{Key: logging.FieldCategory, Value: name},
			logging.Field{Key: logging.FieldCount, Value: count})
	}

	return p.WriteOutputCSV()
}
