package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/courtside/courtside-agents/pkg/trader/ledger"
)

// DefaultStartingBankroll seeds a fresh bankroll file.
var DefaultStartingBankroll = decimal.NewFromInt(1000)

// LoadBankroll reads the bankroll file, creating a fresh one at the
// default starting balance if it does not exist.
func LoadBankroll(path string) (*ledger.Ledger, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		l := ledger.New(DefaultStartingBankroll)
		if err := SaveBankroll(path, l.Snapshot()); err != nil {
			return nil, err
		}
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading bankroll file: %w", err)
	}

	var bank ledger.Bankroll
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("parsing bankroll file: %w", err)
	}
	l, err := ledger.Load(bank)
	if err != nil {
		return nil, fmt.Errorf("loading bankroll: %w", err)
	}
	return l, nil
}

// SaveBankroll writes the bankroll state atomically via a temp file
// rename.
func SaveBankroll(path string, bank ledger.Bankroll) error {
	raw, err := json.MarshalIndent(bank, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bankroll: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating bankroll dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("writing bankroll file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing bankroll file: %w", err)
	}
	return nil
}
