// Package chain provides the gateway to the on-chain mirror: an HTTP
// client for a real indexer and an in-process simulator backed by the
// mirror contract model for development.
package chain

import (
	"context"
	"math/big"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/mirror"
)

// Simulator implements usecase.ChainGateway against an in-process
// mirror contract. Writes go through the exported passthroughs, the
// same way a wallet would call the deployed contract.
type Simulator struct {
	contract *mirror.Contract
}

// NewSimulator creates a Simulator over the given contract.
func NewSimulator(contract *mirror.Contract) *Simulator {
	return &Simulator{contract: contract}
}

// SettlementEvents returns mirror settlement events after the cursor.
func (s *Simulator) SettlementEvents(ctx context.Context, groupID string, afterSeq uint64, limit int) ([]domain.MirrorSettlement, error) {
	events, err := s.contract.EventsAfter(groupID, afterSeq, limit)
	if err != nil {
		return nil, err
	}

	settlements := make([]domain.MirrorSettlement, 0, len(events))
	for _, ev := range events {
		settlements = append(settlements, domain.MirrorSettlement{
			Seq:        ev.Seq,
			Ref:        ev.Ref,
			GroupID:    ev.GroupID,
			From:       ev.From,
			To:         ev.To,
			Amount:     domain.MoneyFromBig(ev.Amount),
			OccurredAt: ev.OccurredAt,
		})
	}

	return settlements, nil
}

// GroupBalances returns the mirror's signed balance per member.
func (s *Simulator) GroupBalances(ctx context.Context, groupID string) (map[domain.Address]domain.Money, error) {
	balances, err := s.contract.AllBalances(groupID)
	if err != nil {
		return nil, err
	}

	out := make(map[domain.Address]domain.Money, len(balances))
	for addr, v := range balances {
		out[addr] = domain.MoneyFromBig(v)
	}

	return out, nil
}

// CreateGroup registers a group on the simulated contract.
func (s *Simulator) CreateGroup(groupID string, creator domain.Address, members []domain.Address) error {
	return s.contract.CreateGroup(groupID, creator, members)
}

// AddMember adds a member on the simulated contract.
func (s *Simulator) AddMember(groupID string, member domain.Address) error {
	return s.contract.AddMember(groupID, member)
}

// AddExpense records an expense on the simulated contract.
func (s *Simulator) AddExpense(groupID string, payer domain.Address, amount domain.Money, participants []domain.Address) (share, remainder domain.Money, err error) {
	sh, rem, err := s.contract.AddExpense(groupID, payer, amount.BigInt(), participants)
	if err != nil {
		return domain.Money{}, domain.Money{}, err
	}

	return domain.MoneyFromBig(sh), domain.MoneyFromBig(rem), nil
}

// Settle pays down debt on the simulated contract and returns the
// resulting settlement event, reference included.
func (s *Simulator) Settle(groupID string, caller, creditor domain.Address, value domain.Money) (domain.MirrorSettlement, error) {
	ev, err := s.contract.Settle(groupID, caller, creditor, value.BigInt())
	if err != nil {
		return domain.MirrorSettlement{}, err
	}

	return domain.MirrorSettlement{
		Seq:        ev.Seq,
		Ref:        ev.Ref,
		GroupID:    ev.GroupID,
		From:       ev.From,
		To:         ev.To,
		Amount:     domain.MoneyFromBig(ev.Amount),
		OccurredAt: ev.OccurredAt,
	}, nil
}

// NewLosslessTransfer returns a value-transfer callback that always
// succeeds, for simulations that do not model token balances.
func NewLosslessTransfer() mirror.ValueTransfer {
	return func(from, to domain.Address, amount *big.Int) error {
		return nil
	}
}
