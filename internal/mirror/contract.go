// Package mirror models the on-chain settlement contract in process.
// The contract is value-authoritative: it holds its own group state,
// derives balances with its own arithmetic and rejects settlements the
// advisory ledger would accept, such as overpayment past zero. Keeping
// the implementation independent of the ledger packages lets the two
// be cross-checked against each other during reconciliation.
package mirror

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/iho/gosettle/internal/domain"
)

// ValueTransfer moves value between two parties when a settlement
// executes. It stands in for the contract's external send; a nil
// transfer makes settlements pure bookkeeping.
type ValueTransfer func(from, to domain.Address, amount *big.Int) error

// SettlementEvent is one entry in the contract's settlement log,
// ordered per group by a monotonic sequence number. Ref is the
// transaction-hash-like identifier the ledger records as externalRef.
type SettlementEvent struct {
	Seq        uint64
	Ref        string
	GroupID    string
	From       domain.Address
	To         domain.Address
	Amount     *big.Int
	OccurredAt time.Time
}

// Transfer is one leg of the contract's read-only settlement plan.
type Transfer struct {
	From   domain.Address
	To     domain.Address
	Amount *big.Int
}

type groupState struct {
	id       string
	creator  domain.Address
	members  []domain.Address
	memberAt map[domain.Address]int
	balances []*big.Int
	seq      uint64
	events   []SettlementEvent
}

func (g *groupState) index(addr domain.Address) (int, bool) {
	i, ok := g.memberAt[addr]
	return i, ok
}

// Contract is the in-process mirror of the settlement contract.
type Contract struct {
	mu       sync.RWMutex
	guard    reentrancyGuard
	transfer ValueTransfer
	groups   map[string]*groupState
	now      func() time.Time
}

// NewContract creates a contract with the given value transfer hook.
func NewContract(transfer ValueTransfer) *Contract {
	return &Contract{
		transfer: transfer,
		groups:   make(map[string]*groupState),
		now:      time.Now,
	}
}

// CreateGroup registers a group under the ledger's identifier. The
// creator must appear in the member list.
func (c *Contract) CreateGroup(groupID string, creator domain.Address, members []domain.Address) error {
	if len(members) == 0 {
		return domain.ErrEmptyRoster
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.groups[groupID]; exists {
		return domain.ErrGroupExists
	}

	g := &groupState{
		id:       groupID,
		creator:  creator,
		members:  make([]domain.Address, 0, len(members)),
		memberAt: make(map[domain.Address]int, len(members)),
		balances: make([]*big.Int, 0, len(members)),
	}
	for _, m := range members {
		if _, dup := g.memberAt[m]; dup {
			return domain.ErrMemberExists
		}
		g.memberAt[m] = len(g.members)
		g.members = append(g.members, m)
		g.balances = append(g.balances, new(big.Int))
	}
	if _, ok := g.memberAt[creator]; !ok {
		return domain.ErrNotAGroupMember
	}

	c.groups[groupID] = g
	return nil
}

// AddMember appends a member to the roster with a zero balance.
func (c *Contract) AddMember(groupID string, member domain.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.groups[groupID]
	if !ok {
		return domain.ErrGroupNotFound
	}
	if _, dup := g.memberAt[member]; dup {
		return domain.ErrMemberExists
	}
	g.memberAt[member] = len(g.members)
	g.members = append(g.members, member)
	g.balances = append(g.balances, new(big.Int))
	return nil
}

// AddExpense applies a shared expense: the payer is credited one share
// per participant and every participant is debited one share, where a
// share is the floor of amount over the participant count. The dropped
// remainder is returned to the caller and never enters any balance.
func (c *Contract) AddExpense(groupID string, payer domain.Address, amount *big.Int, participants []domain.Address) (share, remainder *big.Int, err error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, nil, domain.ErrInvalidAmount
	}
	if len(participants) == 0 {
		return nil, nil, domain.ErrEmptyParticipants
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.groups[groupID]
	if !ok {
		return nil, nil, domain.ErrGroupNotFound
	}

	pi, ok := g.index(payer)
	if !ok {
		return nil, nil, domain.ErrNotAGroupMember
	}

	idx := make([]int, 0, len(participants))
	seen := make(map[int]bool, len(participants))
	for _, p := range participants {
		i, ok := g.index(p)
		if !ok {
			return nil, nil, domain.ErrNotAGroupMember
		}
		if seen[i] {
			return nil, nil, domain.ErrDuplicateParticipant
		}
		seen[i] = true
		idx = append(idx, i)
	}

	k := big.NewInt(int64(len(idx)))
	share = new(big.Int).Div(amount, k)
	remainder = new(big.Int).Mod(amount, k)

	g.balances[pi].Add(g.balances[pi], new(big.Int).Mul(share, k))
	for _, i := range idx {
		g.balances[i].Sub(g.balances[i], share)
	}

	return new(big.Int).Set(share), remainder, nil
}

// MemberBalance returns a copy of one member's signed balance.
func (c *Contract) MemberBalance(groupID string, member domain.Address) (*big.Int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ok := c.groups[groupID]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	i, ok := g.index(member)
	if !ok {
		return nil, domain.ErrNotAGroupMember
	}
	return new(big.Int).Set(g.balances[i]), nil
}

// AllBalances returns a copy of every member's signed balance.
func (c *Contract) AllBalances(groupID string) (map[domain.Address]*big.Int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ok := c.groups[groupID]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	out := make(map[domain.Address]*big.Int, len(g.members))
	for i, m := range g.members {
		out[m] = new(big.Int).Set(g.balances[i])
	}
	return out, nil
}

// Members returns the roster in registration order.
func (c *Contract) Members(groupID string) ([]domain.Address, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ok := c.groups[groupID]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	out := make([]domain.Address, len(g.members))
	copy(out, g.members)
	return out, nil
}

// SimplifiedDebts derives the minimal transfer plan as a read-only
// view. The derivation walks the roster picking the largest remaining
// creditor and debtor each round; on equal magnitudes the earlier
// roster position wins, so the view is deterministic. State is not
// modified.
func (c *Contract) SimplifiedDebts(groupID string) ([]Transfer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ok := c.groups[groupID]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}

	working := make([]*big.Int, len(g.balances))
	for i, b := range g.balances {
		working[i] = new(big.Int).Set(b)
	}

	var plan []Transfer
	for {
		maxCredit, maxDebt := -1, -1
		for i, b := range working {
			if b.Sign() > 0 && (maxCredit == -1 || b.Cmp(working[maxCredit]) > 0) {
				maxCredit = i
			}
			if b.Sign() < 0 && (maxDebt == -1 || b.Cmp(working[maxDebt]) < 0) {
				maxDebt = i
			}
		}
		if maxCredit == -1 || maxDebt == -1 {
			break
		}

		amount := new(big.Int).Neg(working[maxDebt])
		if working[maxCredit].Cmp(amount) < 0 {
			amount.Set(working[maxCredit])
		}

		plan = append(plan, Transfer{
			From:   g.members[maxDebt],
			To:     g.members[maxCredit],
			Amount: amount,
		})
		working[maxCredit] = new(big.Int).Sub(working[maxCredit], amount)
		working[maxDebt] = new(big.Int).Add(working[maxDebt], amount)
	}

	return plan, nil
}

// Settle executes a value-bearing repayment from caller to creditor.
// Validation order follows the contract: positive value, creditor on
// the roster, caller on the roster, caller actually in debt, creditor
// actually owed, and no payment past zero on either side. The value
// transfer hook runs under the reentrancy guard; entering Settle again
// while one call is in flight fails with ErrReentrantCall.
func (c *Contract) Settle(groupID string, caller, creditor domain.Address, value *big.Int) (SettlementEvent, error) {
	if !c.guard.enter() {
		return SettlementEvent{}, domain.ErrReentrantCall
	}
	defer c.guard.exit()

	if value == nil || value.Sign() <= 0 {
		return SettlementEvent{}, domain.ErrInvalidAmount
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.groups[groupID]
	if !ok {
		return SettlementEvent{}, domain.ErrGroupNotFound
	}
	ci, ok := g.index(creditor)
	if !ok {
		return SettlementEvent{}, domain.ErrNotAGroupMember
	}
	di, ok := g.index(caller)
	if !ok {
		return SettlementEvent{}, domain.ErrNotAGroupMember
	}
	if g.balances[di].Sign() >= 0 {
		return SettlementEvent{}, domain.ErrNotDebtor
	}
	if g.balances[ci].Sign() <= 0 {
		return SettlementEvent{}, domain.ErrNotCreditor
	}
	debt := new(big.Int).Neg(g.balances[di])
	if value.Cmp(debt) > 0 || value.Cmp(g.balances[ci]) > 0 {
		return SettlementEvent{}, domain.ErrOverpaymentRejected
	}

	// The value transfer runs before any balance moves; if it fails
	// nothing is applied. The hook must not call back into the
	// contract: a nested Settle is rejected by the guard before it can
	// touch the lock.
	if c.transfer != nil {
		if err := c.transfer(caller, creditor, new(big.Int).Set(value)); err != nil {
			return SettlementEvent{}, fmt.Errorf("value transfer: %w", err)
		}
	}

	g.balances[di].Add(g.balances[di], value)
	g.balances[ci].Sub(g.balances[ci], value)
	g.seq++

	ev := SettlementEvent{
		Seq:        g.seq,
		Ref:        settlementRef(groupID, g.seq),
		GroupID:    groupID,
		From:       caller,
		To:         creditor,
		Amount:     new(big.Int).Set(value),
		OccurredAt: c.now().UTC(),
	}
	g.events = append(g.events, ev)
	return ev, nil
}

// EventsAfter returns up to limit settlement events with Seq greater
// than afterSeq, oldest first. limit <= 0 means no limit.
func (c *Contract) EventsAfter(groupID string, afterSeq uint64, limit int) ([]SettlementEvent, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ok := c.groups[groupID]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}

	var out []SettlementEvent
	for _, ev := range g.events {
		if ev.Seq <= afterSeq {
			continue
		}
		ev.Amount = new(big.Int).Set(ev.Amount)
		out = append(out, ev)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func settlementRef(groupID string, seq uint64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", groupID, seq)))
	return "0x" + hex.EncodeToString(sum[:])
}
