package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v uint64) *uint64 { return &v }

func TestOwnerScope(t *testing.T) {
	assert.True(t, OwnerScope(Actor{ID: 7, IsStaff: true}).All())

	s := OwnerScope(Actor{ID: 7})
	assert.False(t, s.All())
	assert.True(t, s.Matches(ptr(7)))
	assert.False(t, s.Matches(ptr(8)))
	assert.False(t, s.Matches(nil))
}

func TestContent(t *testing.T) {
	owner := Actor{ID: 1}
	other := Actor{ID: 2}
	staff := Actor{ID: 3, IsStaff: true}

	tests := []struct {
		name    string
		actor   Actor
		action  Action
		owner   *uint64
		allowed bool
	}{
		{"owner creates", owner, Create, nil, true},
		{"staff cannot create", staff, Create, nil, false},
		{"owner retrieves", owner, Retrieve, ptr(1), true},
		{"staff retrieves any", staff, Retrieve, ptr(1), true},
		{"stranger cannot retrieve", other, Retrieve, ptr(1), false},
		{"unowned content is not readable by non-staff", other, Retrieve, nil, false},
		{"owner updates", owner, Update, ptr(1), true},
		{"staff updates any", staff, Update, ptr(1), true},
		{"stranger cannot update", other, Update, ptr(1), false},
		{"owner destroys", owner, Destroy, ptr(1), true},
		{"staff cannot destroy", staff, Destroy, ptr(3), false},
		{"stranger cannot destroy", other, Destroy, ptr(1), false},
		{"anyone lists", other, List, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Content(tt.actor, tt.action, tt.owner)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDenied))
		})
	}
}

func TestPayment(t *testing.T) {
	payer := Actor{ID: 1}
	staff := Actor{ID: 9, IsStaff: true}

	assert.NoError(t, Payment(payer, Create, nil))
	assert.NoError(t, Payment(payer, Retrieve, ptr(1)))
	assert.NoError(t, Payment(staff, Retrieve, ptr(1)))
	assert.ErrorIs(t, Payment(Actor{ID: 2}, Retrieve, ptr(1)), ErrDenied)
	assert.NoError(t, Payment(payer, Destroy, ptr(1)))
	assert.ErrorIs(t, Payment(staff, Destroy, ptr(9)), ErrDenied)
	assert.ErrorIs(t, Payment(Actor{ID: 2}, Destroy, ptr(1)), ErrDenied)
}

func TestSubscribe(t *testing.T) {
	u := Actor{ID: 5}

	assert.NoError(t, Subscribe(u, 5, false))

	err := Subscribe(u, 5, true)
	require.ErrorIs(t, err, ErrDenied)
	assert.Equal(t, ReasonAlreadySubscribed, err.Error())

	err = Subscribe(u, 6, false)
	require.ErrorIs(t, err, ErrDenied)
	assert.Equal(t, ReasonForeignSubscriber, err.Error())

	// the duplicate check wins when both apply
	err = Subscribe(u, 6, true)
	assert.Equal(t, ReasonAlreadySubscribed, err.Error())

	assert.ErrorIs(t, Subscribe(Actor{ID: 5, IsStaff: true}, 5, false), ErrDenied)
}

func TestUnsubscribe(t *testing.T) {
	assert.NoError(t, Unsubscribe(Actor{ID: 5}, 5))
	assert.ErrorIs(t, Unsubscribe(Actor{ID: 5}, 6), ErrDenied)
	assert.ErrorIs(t, Unsubscribe(Actor{ID: 5, IsStaff: true}, 5), ErrDenied)
}
