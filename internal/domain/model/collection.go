package model

import "time"

// Collection is a named batch of orders, such as a seasonal run.
type Collection struct {
	ID              int64
	AccountID       int64
	Name            string
	Description     string
	TotalOrders     int
	CompletedOrders int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CounterDelta is a change applied to a collection's counters.
type CounterDelta struct {
	Total     int
	Completed int
}

// IsZero reports whether applying the delta changes nothing.
func (d CounterDelta) IsZero() bool {
	return d.Total == 0 && d.Completed == 0
}

// Sub returns d minus other.
func (d CounterDelta) Sub(other CounterDelta) CounterDelta {
	return CounterDelta{Total: d.Total - other.Total, Completed: d.Completed - other.Completed}
}

// Contribution is what a member order in the given state adds to its collection.
// A nil status means the order does not exist. Cancelled orders leave the denominator.
func Contribution(status *OrderStatus) CounterDelta {
	if status == nil || *status == OrderStatusCancelled {
		return CounterDelta{}
	}
	if *status == OrderStatusCompleted {
		return CounterDelta{Total: 1, Completed: 1}
	}
	return CounterDelta{Total: 1}
}

// CollectionChange is a counter delta bound to a collection.
type CollectionChange struct {
	CollectionID int64
	Delta        CounterDelta
}

// MembershipState is an order's collection and status at one point in time.
// Both fields are nil when the order does not exist.
type MembershipState struct {
	CollectionID *int64
	Status       *OrderStatus
}

// MembershipOf captures the membership state of an existing order.
func MembershipOf(o Order) MembershipState {
	status := o.Status
	var collectionID *int64
	if o.CollectionID != nil {
		id := *o.CollectionID
		collectionID = &id
	}
	return MembershipState{CollectionID: collectionID, Status: &status}
}

// CollectionChanges computes every counter adjustment implied by moving an order
// from before to after. It is the only place counter deltas are derived.
func CollectionChanges(before, after MembershipState) []CollectionChange {
	var changes []CollectionChange
	if before.CollectionID != nil && after.CollectionID != nil && *before.CollectionID == *after.CollectionID {
		delta := Contribution(after.Status).Sub(Contribution(before.Status))
		if !delta.IsZero() {
			changes = append(changes, CollectionChange{CollectionID: *after.CollectionID, Delta: delta})
		}
		return changes
	}
	if before.CollectionID != nil {
		delta := CounterDelta{}.Sub(Contribution(before.Status))
		if !delta.IsZero() {
			changes = append(changes, CollectionChange{CollectionID: *before.CollectionID, Delta: delta})
		}
	}
	if after.CollectionID != nil {
		delta := Contribution(after.Status)
		if !delta.IsZero() {
			changes = append(changes, CollectionChange{CollectionID: *after.CollectionID, Delta: delta})
		}
	}
	return changes
}

// Apply adds the delta to the counters, never letting them go below zero.
func (c *Collection) Apply(d CounterDelta) {
	c.TotalOrders = max(c.TotalOrders+d.Total, 0)
	c.CompletedOrders = max(c.CompletedOrders+d.Completed, 0)
}
