package store_test

import (
	"path/filepath"
	"testing"

	"dkhurana/bankledger/internal/logging"
	"dkhurana/bankledger/internal/models"
	"dkhurana/bankledger/internal/parsererror"
	"dkhurana/bankledger/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), &logging.MockLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedCategory(t *testing.T, s *store.Store, name string) int64 {
	t.Helper()
	id, err := s.EnsureCategory(name, nil)
	require.NoError(t, err)
	return id
}

func TestAddRuleValidatesPattern(t *testing.T) {
	s := newTestStore(t)
	catID := seedCategory(t, s, "Shopping")

	tests := []struct {
		name    string
		def     models.RuleDefinition
		wantErr bool
	}{
		{
			name: "substring pattern",
			def:  models.RuleDefinition{Pattern: "NETFLIX", CategoryID: catID},
		},
		{
			name: "valid regex",
			def:  models.RuleDefinition{Pattern: "^AMZN", CategoryID: catID, IsRegex: true},
		},
		{
			name:    "invalid regex",
			def:     models.RuleDefinition{Pattern: "([unclosed", CategoryID: catID, IsRegex: true},
			wantErr: true,
		},
		{
			name: "valid amount predicate",
			def:  models.RuleDefinition{Pattern: "amount:gt:1000", CategoryID: catID},
		},
		{
			name:    "unknown amount operator",
			def:     models.RuleDefinition{Pattern: "amount:between:10", CategoryID: catID},
			wantErr: true,
		},
		{
			name:    "bad amount threshold",
			def:     models.RuleDefinition{Pattern: "amount:gt:lots", CategoryID: catID},
			wantErr: true,
		},
		{
			name:    "empty pattern",
			def:     models.RuleDefinition{Pattern: "  ", CategoryID: catID},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddRule(tt.def)
			if tt.wantErr {
				var verr *parsererror.ValidationError
				require.ErrorAs(t, err, &verr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestListRulesOrdering(t *testing.T) {
	s := newTestStore(t)
	catID := seedCategory(t, s, "Shopping")

	// inserted out of priority order on purpose
	idC, err := s.AddRule(models.RuleDefinition{Pattern: "C", CategoryID: catID, Priority: 5})
	require.NoError(t, err)
	idA, err := s.AddRule(models.RuleDefinition{Pattern: "A", CategoryID: catID, Priority: 10})
	require.NoError(t, err)
	idB, err := s.AddRule(models.RuleDefinition{Pattern: "B", CategoryID: catID, Priority: 10})
	require.NoError(t, err)

	rules, err := s.ListRules()
	require.NoError(t, err)
	require.Len(t, rules, 3)

	// priority descending, then insertion order for equal priorities
	assert.Equal(t, idA, rules[0].ID)
	assert.Equal(t, idB, rules[1].ID)
	assert.Equal(t, idC, rules[2].ID)
}

func TestUpdateRule(t *testing.T) {
	s := newTestStore(t)
	catID := seedCategory(t, s, "Shopping")
	otherID := seedCategory(t, s, "Groceries")

	id, err := s.AddRule(models.RuleDefinition{Pattern: "TESCO", CategoryID: catID, Priority: 1})
	require.NoError(t, err)

	// empty update is a no-op
	require.NoError(t, s.UpdateRule(id, store.RuleUpdate{}))

	newPriority := 7
	require.NoError(t, s.UpdateRule(id, store.RuleUpdate{
		CategoryID: &otherID,
		Priority:   &newPriority,
	}))

	rules, err := s.ListRules()
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, otherID, rules[0].CategoryID)
	assert.Equal(t, 7, rules[0].Priority)
	assert.Equal(t, "TESCO", rules[0].Pattern)
}

func TestUpdateRuleRejectsInvalidRegex(t *testing.T) {
	s := newTestStore(t)
	catID := seedCategory(t, s, "Shopping")

	id, err := s.AddRule(models.RuleDefinition{Pattern: "TESCO", CategoryID: catID})
	require.NoError(t, err)

	bad := "([unclosed"
	isRegex := true
	err = s.UpdateRule(id, store.RuleUpdate{Pattern: &bad, IsRegex: &isRegex})

	var verr *parsererror.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDeleteRule(t *testing.T) {
	s := newTestStore(t)
	catID := seedCategory(t, s, "Shopping")

	id, err := s.AddRule(models.RuleDefinition{Pattern: "TESCO", CategoryID: catID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteRule(id))

	rules, err := s.ListRules()
	require.NoError(t, err)
	assert.Empty(t, rules)

	assert.Error(t, s.DeleteRule(id))
}

func TestImportRulesAtomic(t *testing.T) {
	s := newTestStore(t)
	catID := seedCategory(t, s, "Shopping")

	_, err := s.AddRule(models.RuleDefinition{Pattern: "EXISTING", CategoryID: catID})
	require.NoError(t, err)

	// one invalid definition rejects the whole batch
	_, err = s.ImportRules([]models.RuleDefinition{
		{Pattern: "NETFLIX", CategoryID: catID},
		{Pattern: "([unclosed", CategoryID: catID, IsRegex: true},
	}, false)
	require.Error(t, err)

	rules, err := s.ListRules()
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "EXISTING", rules[0].Pattern)
}

func TestImportRulesClearExisting(t *testing.T) {
	s := newTestStore(t)
	catID := seedCategory(t, s, "Shopping")

	_, err := s.AddRule(models.RuleDefinition{Pattern: "OLD", CategoryID: catID})
	require.NoError(t, err)

	count, err := s.ImportRules([]models.RuleDefinition{
		{Pattern: "NEW", CategoryID: catID, Priority: 3},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rules, err := s.ListRules()
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "NEW", rules[0].Pattern)
}

func TestExportImportRoundTrip(t *testing.T) {
	s := newTestStore(t)
	catID := seedCategory(t, s, "Shopping")

	defs := []models.RuleDefinition{
		{Pattern: "NETFLIX", CategoryID: catID, Priority: 10},
		{Pattern: "^AMZN", CategoryID: catID, Priority: 5, IsRegex: true},
		{Pattern: "amount:gt:1000", CategoryID: catID},
	}
	_, err := s.ImportRules(defs, false)
	require.NoError(t, err)

	exported, err := s.ExportRules()
	require.NoError(t, err)

	other := newTestStore(t)
	_, err = other.EnsureCategory("Shopping", nil)
	require.NoError(t, err)
	_, err = other.ImportRules(exported, false)
	require.NoError(t, err)

	reexported, err := other.ExportRules()
	require.NoError(t, err)
	assert.Equal(t, exported, reexported)
}
