// Package ledger tracks the bankroll as an append-only transaction
// log. The current balance is always derivable from the starting
// balance plus the sum of all transactions.
package ledger

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// TxType classifies a bankroll transaction.
type TxType string

const (
	// TxBet debits the stake when a bet is placed.
	TxBet TxType = "bet"
	// TxResult credits the payout when a bet settles.
	TxResult TxType = "result"
	// TxAdjustment is a manual deposit or withdrawal.
	TxAdjustment TxType = "adjustment"
	// TxEarlyExit credits the returned stake when a bet is abandoned
	// before the game.
	TxEarlyExit TxType = "early_exit"
)

// Transaction is one bankroll movement. Amount is signed: debits are
// negative, credits positive.
type Transaction struct {
	Date        string          `json:"date"`
	Type        TxType          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	BetID       string          `json:"bet_id,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Bankroll is the serializable ledger state.
type Bankroll struct {
	Starting     decimal.Decimal `json:"starting"`
	Current      decimal.Decimal `json:"current"`
	Transactions []Transaction   `json:"transactions"`
}

// Ledger is a concurrency-safe bankroll. All mutations go through
// Commit so a slate of related transactions lands atomically.
type Ledger struct {
	mu   sync.RWMutex
	bank Bankroll
}

// New starts a ledger at the given bankroll.
func New(starting decimal.Decimal) *Ledger {
	return &Ledger{bank: Bankroll{Starting: starting, Current: starting}}
}

// Load restores a ledger from persisted state. The state must satisfy
// the balance invariant.
func Load(bank Bankroll) (*Ledger, error) {
	if err := verify(bank); err != nil {
		return nil, err
	}
	l := &Ledger{bank: bank}
	return l, nil
}

func verify(bank Bankroll) error {
	sum := bank.Starting
	for _, tx := range bank.Transactions {
		sum = sum.Add(tx.Amount)
	}
	if !sum.Equal(bank.Current) {
		return fmt.Errorf("ledger out of balance: starting %s plus transactions is %s, current says %s",
			bank.Starting, sum, bank.Current)
	}
	return nil
}

// Available returns the spendable balance.
func (l *Ledger) Available() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.bank.Current
}

// Snapshot returns a copy of the full bankroll state.
func (l *Ledger) Snapshot() Bankroll {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := l.bank
	out.Transactions = make([]Transaction, len(l.bank.Transactions))
	copy(out.Transactions, l.bank.Transactions)
	return out
}

// Commit applies a batch of transactions atomically. If any debit in
// the batch would take the running balance negative, nothing is
// applied.
func (l *Ledger) Commit(batch []Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	running := l.bank.Current
	for i, tx := range batch {
		running = running.Add(tx.Amount)
		if running.IsNegative() {
			return fmt.Errorf("transaction %d (%s %s) would overdraw the bankroll", i, tx.Type, tx.Amount)
		}
	}
	l.bank.Transactions = append(l.bank.Transactions, batch...)
	l.bank.Current = running
	return nil
}

// Debit records a single stake leaving the bankroll.
func (l *Ledger) Debit(date, betID string, amount decimal.Decimal, description string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("debit amount must be positive, got %s", amount)
	}
	return l.Commit([]Transaction{{
		Date:        date,
		Type:        TxBet,
		Amount:      amount.Neg(),
		BetID:       betID,
		Description: description,
	}})
}

// Credit records a settlement payout returning to the bankroll. A
// zero payout (a lost bet) records no transaction since the stake
// already left at placement.
func (l *Ledger) Credit(date, betID string, payout decimal.Decimal, description string) error {
	if payout.IsNegative() {
		return fmt.Errorf("payout cannot be negative, got %s", payout)
	}
	if payout.IsZero() {
		return nil
	}
	return l.Commit([]Transaction{{
		Date:        date,
		Type:        TxResult,
		Amount:      payout,
		BetID:       betID,
		Description: description,
	}})
}

// Adjust records a manual deposit (positive) or withdrawal (negative).
func (l *Ledger) Adjust(date string, amount decimal.Decimal, description string) error {
	return l.Commit([]Transaction{{
		Date:        date,
		Type:        TxAdjustment,
		Amount:      amount,
		Description: description,
	}})
}

// RevertDate removes every transaction recorded for a date and
// recomputes the balance. Used to unwind a slate that was committed
// against a postponed card.
func (l *Ledger) RevertDate(date string) (removed int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.bank.Transactions[:0]
	current := l.bank.Starting
	for _, tx := range l.bank.Transactions {
		if tx.Date == date {
			removed++
			continue
		}
		kept = append(kept, tx)
		current = current.Add(tx.Amount)
	}
	l.bank.Transactions = kept
	l.bank.Current = current
	return removed
}

// Verify checks the balance invariant over the live state.
func (l *Ledger) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return verify(l.bank)
}
