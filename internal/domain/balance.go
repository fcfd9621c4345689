package domain

// MemberBalance pairs a roster member with their net balance. Positive
// means the member is owed money, negative means the member owes.
type MemberBalance struct {
	Member  Address `json:"member"`
	Balance Money   `json:"balance"`
}

// ComputeBalances folds a group's full history into per-member net
// balances. Every roster member starts at zero. Each expense credits the
// payer with share*participants and debits each participant one share;
// each settlement credits the payer and debits the receiver.
//
// The result is closed: the balances always sum to exactly zero, because
// the payer credit equals the participant debits by construction and the
// floor-division remainder never enters any balance.
func ComputeBalances(roster []Address, expenses []*Expense, settlements []*Settlement) map[Address]Money {
	balances := make(map[Address]Money, len(roster))
	for _, m := range roster {
		balances[m] = Money{}
	}

	for _, e := range expenses {
		share := e.Share()
		balances[e.Payer] = balances[e.Payer].Add(share.MulCount(len(e.Participants)))
		for _, p := range e.Participants {
			balances[p] = balances[p].Sub(share)
		}
	}

	for _, s := range settlements {
		balances[s.From] = balances[s.From].Add(s.Amount)
		balances[s.To] = balances[s.To].Sub(s.Amount)
	}

	return balances
}

// BalanceSum adds up a balance map, for closed-ledger checks.
func BalanceSum(balances map[Address]Money) Money {
	sum := Money{}
	for _, b := range balances {
		sum = sum.Add(b)
	}
	return sum
}

// OrderBalances lists balances in roster order.
func OrderBalances(roster []Address, balances map[Address]Money) []MemberBalance {
	out := make([]MemberBalance, 0, len(roster))
	for _, m := range roster {
		out = append(out, MemberBalance{Member: m, Balance: balances[m]})
	}
	return out
}
