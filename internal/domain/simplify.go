package domain

// SimplifiedDebt is one transfer in a settlement plan: From pays Amount
// to To. Amounts are always strictly positive.
type SimplifiedDebt struct {
	From   Address `json:"from"`
	To     Address `json:"to"`
	Amount Money   `json:"amount"`
}

// SimplifyDebts reduces a balance map to a minimal transfer plan using
// greedy maximum matching: repeatedly settle the largest remaining debtor
// against the largest remaining creditor for min(credit, |debt|), until
// nothing is owed. Members with zero balance never appear, every amount
// is strictly positive, and a closed balance map yields at most
// len(roster)-1 transfers whose execution zeroes every balance.
//
// The function is pure and deterministic: ties on magnitude resolve to
// the earlier roster member, so identical roster order and balances
// produce an identical plan.
func SimplifyDebts(roster []Address, balances map[Address]Money) []SimplifiedDebt {
	type position struct {
		addr      Address
		remaining Money
	}

	var creditors, debtors []*position
	for _, m := range roster {
		b := balances[m]
		switch {
		case b.IsPositive():
			creditors = append(creditors, &position{addr: m, remaining: b})
		case b.IsNegative():
			debtors = append(debtors, &position{addr: m, remaining: b.Neg()})
		}
	}

	plan := make([]SimplifiedDebt, 0, len(creditors)+len(debtors))
	for len(creditors) > 0 && len(debtors) > 0 {
		// Strictly-greater comparisons keep the earlier roster member
		// on ties, which fixes the plan order.
		ci := 0
		for i := 1; i < len(creditors); i++ {
			if creditors[i].remaining.Cmp(creditors[ci].remaining) > 0 {
				ci = i
			}
		}
		di := 0
		for i := 1; i < len(debtors); i++ {
			if debtors[i].remaining.Cmp(debtors[di].remaining) > 0 {
				di = i
			}
		}

		creditor, debtor := creditors[ci], debtors[di]
		amount := MinMoney(creditor.remaining, debtor.remaining)
		plan = append(plan, SimplifiedDebt{From: debtor.addr, To: creditor.addr, Amount: amount})

		creditor.remaining = creditor.remaining.Sub(amount)
		debtor.remaining = debtor.remaining.Sub(amount)
		if creditor.remaining.IsZero() {
			creditors = append(creditors[:ci], creditors[ci+1:]...)
		}
		if debtor.remaining.IsZero() {
			debtors = append(debtors[:di], debtors[di+1:]...)
		}
	}

	return plan
}
