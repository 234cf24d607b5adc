package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func statusPtr(s OrderStatus) *OrderStatus { return &s }

func idPtr(id int64) *int64 { return &id }

func TestContribution(t *testing.T) {
	assert.Equal(t, CounterDelta{}, Contribution(nil))
	assert.Equal(t, CounterDelta{}, Contribution(statusPtr(OrderStatusCancelled)))
	assert.Equal(t, CounterDelta{Total: 1}, Contribution(statusPtr(OrderStatusFittingDone)))
	assert.Equal(t, CounterDelta{Total: 1, Completed: 1}, Contribution(statusPtr(OrderStatusCompleted)))
}

func TestCollectionChanges(t *testing.T) {
	coll := idPtr(7)
	other := idPtr(9)

	cases := []struct {
		name   string
		before MembershipState
		after  MembershipState
		want   []CollectionChange
	}{
		{
			name:  "created in collection",
			after: MembershipState{CollectionID: coll, Status: statusPtr(OrderStatusPending)},
			want:  []CollectionChange{{CollectionID: 7, Delta: CounterDelta{Total: 1}}},
		},
		{
			name:   "completed",
			before: MembershipState{CollectionID: coll, Status: statusPtr(OrderStatusConfirmed)},
			after:  MembershipState{CollectionID: coll, Status: statusPtr(OrderStatusCompleted)},
			want:   []CollectionChange{{CollectionID: 7, Delta: CounterDelta{Completed: 1}}},
		},
		{
			name:   "cancelled",
			before: MembershipState{CollectionID: coll, Status: statusPtr(OrderStatusInProgress)},
			after:  MembershipState{CollectionID: coll, Status: statusPtr(OrderStatusCancelled)},
			want:   []CollectionChange{{CollectionID: 7, Delta: CounterDelta{Total: -1}}},
		},
		{
			name:   "completed order deleted",
			before: MembershipState{CollectionID: coll, Status: statusPtr(OrderStatusCompleted)},
			want:   []CollectionChange{{CollectionID: 7, Delta: CounterDelta{Total: -1, Completed: -1}}},
		},
		{
			name:   "cancelled order deleted",
			before: MembershipState{CollectionID: coll, Status: statusPtr(OrderStatusCancelled)},
		},
		{
			name:   "same status",
			before: MembershipState{CollectionID: coll, Status: statusPtr(OrderStatusInProgress)},
			after:  MembershipState{CollectionID: coll, Status: statusPtr(OrderStatusInProgress)},
		},
		{
			name:   "moved between collections",
			before: MembershipState{CollectionID: coll, Status: statusPtr(OrderStatusPending)},
			after:  MembershipState{CollectionID: other, Status: statusPtr(OrderStatusPending)},
			want: []CollectionChange{
				{CollectionID: 7, Delta: CounterDelta{Total: -1}},
				{CollectionID: 9, Delta: CounterDelta{Total: 1}},
			},
		},
		{
			name:   "not a member",
			before: MembershipState{Status: statusPtr(OrderStatusPending)},
			after:  MembershipState{Status: statusPtr(OrderStatusCompleted)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CollectionChanges(tc.before, tc.after))
		})
	}
}

func TestCollectionApplyNeverNegative(t *testing.T) {
	c := Collection{TotalOrders: 1}
	c.Apply(CounterDelta{Total: -2, Completed: -1})
	assert.Equal(t, 0, c.TotalOrders)
	assert.Equal(t, 0, c.CompletedOrders)
}
