package engine

import (
	"dkhurana/bankledger/internal/logging"
	"dkhurana/bankledger/internal/models"
)

// Strategy decides the category for a transaction. A nil category ID with a
// nil error means the strategy has no opinion and the next strategy in the
// chain is consulted.
type Strategy interface {
	Name() string
	Categorize(txn models.Transaction) (*int64, error)
}

// MLStrategy is the machine-learning fallback seam. The model integration
// is not implemented; the strategy is registered only when enabled in
// configuration and currently never produces a category.
type MLStrategy struct {
	modelPath string
	logger    logging.Logger
}

func NewMLStrategy(modelPath string, logger logging.Logger) *MLStrategy {
	return &MLStrategy{modelPath: modelPath, logger: logger}
}

func (m *MLStrategy) Name() string { return "ml" }

func (m *MLStrategy) Categorize(txn models.Transaction) (*int64, error) {
	// TODO: load the model at modelPath and score the normalized vendor.
	return nil, nil
}
