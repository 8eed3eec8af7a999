package services

import "eventplanner/internal/domain"

// itemPlan is the set of writes that brings an event's stored items in line with an incoming list.
type itemPlan struct {
	updates []domain.Item // ItemID of an existing row with its new quantity
	inserts []domain.Item
	deletes []int64
}

func (p itemPlan) empty() bool {
	return len(p.updates) == 0 && len(p.inserts) == 0 && len(p.deletes) == 0
}

// planItems matches incoming items to existing ones by name. existing must be ordered by
// ItemID. Each incoming item consumes the oldest unmatched row with the same name, so a
// name repeated in the incoming list only matches as many rows as exist. Unmatched incoming
// items are inserted and unmatched existing rows are deleted. Rows whose quantity does not
// change are left alone.
func planItems(existing, incoming []domain.Item) itemPlan {
	queues := make(map[string][]domain.Item, len(existing))
	for _, it := range existing {
		queues[it.ItemName] = append(queues[it.ItemName], it)
	}

	var plan itemPlan
	for _, in := range incoming {
		q := queues[in.ItemName]
		if len(q) == 0 {
			plan.inserts = append(plan.inserts, domain.Item{ItemName: in.ItemName, Quantity: in.Quantity})
			continue
		}
		match := q[0]
		queues[in.ItemName] = q[1:]
		if match.Quantity != in.Quantity {
			plan.updates = append(plan.updates, domain.Item{ItemID: match.ItemID, ItemName: match.ItemName, Quantity: in.Quantity})
		}
	}

	// walk existing again so deletes keep ItemID order
	left := make(map[int64]bool)
	for _, q := range queues {
		for _, it := range q {
			left[it.ItemID] = true
		}
	}
	for _, it := range existing {
		if left[it.ItemID] {
			plan.deletes = append(plan.deletes, it.ItemID)
		}
	}
	return plan
}
