// Package analyze implements the analyze command: read a transaction batch,
// run it through the engine, and write the analyzed result.
package analyze

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ethicheck/societal-debt/cmd/root"
	"ethicheck/societal-debt/internal/classifier"
	"ethicheck/societal-debt/internal/config"
	"ethicheck/societal-debt/internal/engine"
	"ethicheck/societal-debt/internal/export"
	"ethicheck/societal-debt/internal/logging"
	"ethicheck/societal-debt/internal/models"
	"ethicheck/societal-debt/internal/store"
)

var (
	inputFile  string
	outputFile string
	csvFile    string
	user       string
)

// Cmd is the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a batch of transactions for societal debt.",
	Long: `Reads a JSON file of transactions, classifies the ones not yet
analyzed, and writes the aggregated result. With --user, previously analyzed
transactions are loaded from the data directory first and the new result is
saved back.`,
	RunE: runAnalyze,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input JSON file with transactions (required)")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output JSON file for the analyzed batch")
	Cmd.Flags().StringVar(&csvFile, "csv", "", "Optional CSV report file")
	Cmd.Flags().StringVarP(&user, "user", "u", "", "User whose history to load and update")
	_ = Cmd.MarkFlagRequired("input")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}
	log := logging.NewLogrusAdapterFromLogger(root.Log)

	transactions, err := readTransactions(inputFile)
	if err != nil {
		return err
	}

	var batchStore *store.BatchStore
	if user != "" {
		batchStore = store.NewBatchStore(cfg.Data.Directory, log)
		history, err := batchStore.LoadLatest(user)
		if err != nil {
			return err
		}
		transactions = mergeHistory(history, transactions)
	}

	practices, err := store.LoadPractices(cfg.Data.PracticesFile, log)
	if err != nil {
		return err
	}

	apiKey := cfg.AI.APIKey
	if apiKey == "" {
		apiKey = config.GetGeminiAPIKey()
	}

	client, err := classifier.NewGeminiClient(cmd.Context(), apiKey, cfg.AI.Model, practices, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("Failed to close classifier client")
		}
	}()

	batch, err := engine.New(client, log).Analyze(cmd.Context(), transactions)
	if err != nil {
		return err
	}

	if batchStore != nil {
		if err := batchStore.SaveBatch(user, batch); err != nil {
			return err
		}
	}

	if csvFile != "" {
		delimiter := []rune(cfg.Export.Delimiter)[0]
		if err := export.WriteFile(csvFile, batch, delimiter, cfg.Export.IncludeHeaders, log); err != nil {
			return err
		}
	}

	return writeBatch(outputFile, batch)
}

// readTransactions loads the input batch from a JSON file shaped either as a
// bare array or as {"transactions": [...]}.
func readTransactions(path string) ([]models.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	var transactions []models.Transaction
	if err := json.Unmarshal(data, &transactions); err == nil {
		return transactions, nil
	}

	var wrapped struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing input file %s: %w", path, err)
	}
	return wrapped.Transactions, nil
}

// mergeHistory combines stored history with new input. Stored transactions
// win on identity-key collisions, so previously analyzed results stay
// untouched.
func mergeHistory(history, input []models.Transaction) []models.Transaction {
	seen := make(map[string]struct{}, len(history))
	merged := make([]models.Transaction, 0, len(history)+len(input))
	for _, tx := range history {
		seen[tx.Key()] = struct{}{}
		merged = append(merged, tx)
	}
	for _, tx := range input {
		if _, ok := seen[tx.Key()]; ok {
			continue
		}
		merged = append(merged, tx)
	}
	return merged
}

func writeBatch(path string, batch models.AnalyzedBatch) error {
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling analyzed batch: %w", err)
	}

	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
