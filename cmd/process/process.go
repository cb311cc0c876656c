// Package process handles the statement ingestion command
package process

import (
	"dkhurana/bankledger/cmd/root"
	"dkhurana/bankledger/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process",
	Short: "Parse statement files from the raw directory into the store",
	Long: `Parse every PDF and CSV statement in the raw data directory, persist
the extracted transactions, write the combined output CSV, and move the
handled files to the processed directory.`,
	RunE: processFunc,
}

func processFunc(cmd *cobra.Command, args []string) error {
	st, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p := root.NewPipeline(st)
	if err := p.SeedCategories(); err != nil {
		return err
	}

	result, err := p.Process()
	if err != nil {
		return err
	}

	root.Log.Info("Processing run complete",
		logging.Field{Key: logging.FieldCount, Value: len(result.Files)},
		logging.Field{Key: logging.FieldInserted, Value: result.Inserted},
		logging.Field{Key: logging.FieldDuplicate, Value: result.Duplicates})
	if result.Failed > 0 {
		root.Log.Warn("Some statement files failed",
			logging.Field{Key: logging.FieldCount, Value: result.Failed})
	}
	return nil
}
