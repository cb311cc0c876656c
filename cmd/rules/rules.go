// Package rules handles categorization rule management commands
package rules

import (
	"fmt"
	"os"

	"dkhurana/bankledger/cmd/root"
	"dkhurana/bankledger/internal/fileutils"
	"dkhurana/bankledger/internal/logging"
	"dkhurana/bankledger/internal/models"
	"dkhurana/bankledger/internal/parsererror"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	pattern       string
	categoryID    int64
	priority      int
	isRegex       bool
	rulesFile     string
	clearExisting bool
)

// Cmd represents the rules command group
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage categorization rules",
	Long: `Add, list, delete, import, and export the categorization rules the
engine evaluates. Rules with higher priority are tried first.`,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a categorization rule",
	RunE:  addFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules in evaluation order",
	RunE:  listFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <rule-id>",
	Short: "Delete a rule by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import rules from a YAML file",
	Long: `Import rule definitions from a YAML file in one atomic step: either
every rule is accepted or none is. With --clear the current rule set is
replaced instead of extended.`,
	RunE: importFunc,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all rules to a YAML file",
	RunE:  exportFunc,
}

func init() {
	addCmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Rule pattern (required)")
	addCmd.Flags().Int64VarP(&categoryID, "category", "c", 0, "Target category ID (required)")
	addCmd.Flags().IntVar(&priority, "priority", 0, "Rule priority, higher is tried first")
	addCmd.Flags().BoolVarP(&isRegex, "regex", "r", false, "Treat the pattern as a regular expression")
	addCmd.MarkFlagRequired("pattern")
	addCmd.MarkFlagRequired("category")

	importCmd.Flags().StringVarP(&rulesFile, "file", "f", "", "Rules YAML file (required)")
	importCmd.Flags().BoolVar(&clearExisting, "clear", false, "Replace the current rule set")
	importCmd.MarkFlagRequired("file")

	exportCmd.Flags().StringVarP(&rulesFile, "file", "f", "", "Destination YAML file (required)")
	exportCmd.MarkFlagRequired("file")

	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(importCmd)
	Cmd.AddCommand(exportCmd)
}

func addFunc(cmd *cobra.Command, args []string) error {
	st, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.AddRule(models.RuleDefinition{
		Pattern:    pattern,
		CategoryID: categoryID,
		Priority:   priority,
		IsRegex:    isRegex,
	})
	if err != nil {
		return err
	}

	root.Log.Info("Rule added", logging.Field{Key: logging.FieldRule, Value: id})
	return nil
}

func listFunc(cmd *cobra.Command, args []string) error {
	st, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rules, err := st.ListRules()
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		fmt.Println("No rules defined")
		return nil
	}

	for _, r := range rules {
		name, err := st.CategoryName(r.CategoryID)
		if err != nil {
			name = fmt.Sprintf("category %d", r.CategoryID)
		}
		fmt.Printf("%4d  prio=%-4d %-9s %-40q -> %s\n",
			r.ID, r.Priority, r.Kind(), r.Pattern, name)
	}
	return nil
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	var id int64
	if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
		return fmt.Errorf("invalid rule ID %q", args[0])
	}

	st, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteRule(id); err != nil {
		return err
	}
	root.Log.Info("Rule deleted", logging.Field{Key: logging.FieldRule, Value: id})
	return nil
}

// rulesDocument is the import/export file structure.
type rulesDocument struct {
	Rules []models.RuleDefinition `yaml:"rules"`
}

func importFunc(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(rulesFile)
	if err != nil {
		return fmt.Errorf("failed to read rules file: %w", err)
	}
	var doc rulesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &parsererror.ParseError{
			Parser: "rules", Field: "file", Value: rulesFile, Err: err,
		}
	}

	st, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer st.Close()

	count, err := st.ImportRules(doc.Rules, clearExisting)
	if err != nil {
		return err
	}
	root.Log.Info("Rules imported",
		logging.Field{Key: logging.FieldCount, Value: count},
		logging.Field{Key: logging.FieldFile, Value: rulesFile})
	return nil
}

func exportFunc(cmd *cobra.Command, args []string) error {
	st, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer st.Close()

	defs, err := st.ExportRules()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(rulesDocument{Rules: defs})
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	if err := fileutils.WriteFile(rulesFile, data, 0o644); err != nil {
		return err
	}

	root.Log.Info("Rules exported",
		logging.Field{Key: logging.FieldCount, Value: len(defs)},
		logging.Field{Key: logging.FieldFile, Value: rulesFile})
	return nil
}
