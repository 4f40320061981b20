// Package access decides whether an acting user may perform an operation
// on a course, lesson, subscription or payment.  Every function here is
// pure: callers pass the actor and the owner recorded on the target and
// receive nil or an error wrapping ErrDenied.
package access

import (
	"errors"
	"fmt"
)

// ErrDenied is the sentinel wrapped by every authorization failure.
// Handlers translate it into an HTTP 403 response.
var ErrDenied = errors.New("permission denied")

// Reasons shown to API callers.
const (
	ReasonAlreadySubscribed = "У вас уже есть подписка на этот курс."
	ReasonForeignSubscriber = "Нельзя оформлять подписки на другого пользователя."
	ReasonStaffAuthoring    = "staff users cannot perform this action"
	ReasonNotOwner          = "you do not have permission to perform this action"
)

// Actor is the authenticated user on whose behalf an operation runs.  It
// is passed explicitly through every service call.
type Actor struct {
	ID      uint64
	Email   string
	IsStaff bool
}

// Action names the operation being authorized.
type Action int

const (
	List Action = iota
	Create
	Retrieve
	Update
	Destroy
)

func (a Action) String() string {
	switch a {
	case List:
		return "list"
	case Create:
		return "create"
	case Retrieve:
		return "retrieve"
	case Update:
		return "update"
	case Destroy:
		return "destroy"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Denied is an authorization failure with a user-facing reason.
type Denied struct {
	Reason string
}

func (d *Denied) Error() string { return d.Reason }

func (d *Denied) Unwrap() error { return ErrDenied }

func deny(reason string) error { return &Denied{Reason: reason} }

// Scope restricts a list query.  A zero UserID means every row is visible.
type Scope struct {
	UserID uint64
}

// All reports whether the scope is unrestricted.
func (s Scope) All() bool { return s.UserID == 0 }

// Matches reports whether a row owned by ownerID is inside the scope.
func (s Scope) Matches(ownerID *uint64) bool {
	if s.All() {
		return true
	}
	return ownerID != nil && *ownerID == s.UserID
}

// OwnerScope returns the list scope for owned resources: staff see
// everything, everyone else only what they own.
func OwnerScope(a Actor) Scope {
	if a.IsStaff {
		return Scope{}
	}
	return Scope{UserID: a.ID}
}

// IsOwner reports whether the actor is the recorded owner.
func IsOwner(a Actor, ownerID *uint64) bool {
	return ownerID != nil && *ownerID == a.ID
}

// Content authorizes an action on a course or lesson owned by ownerID.
// Authoring (create, destroy) is reserved for non-staff accounts; reads
// and updates are open to the owner and to staff.
func Content(a Actor, act Action, ownerID *uint64) error {
	switch act {
	case List:
		return nil
	case Create:
		if a.IsStaff {
			return deny(ReasonStaffAuthoring)
		}
		return nil
	case Retrieve, Update:
		if a.IsStaff || IsOwner(a, ownerID) {
			return nil
		}
		return deny(ReasonNotOwner)
	case Destroy:
		if a.IsStaff {
			return deny(ReasonStaffAuthoring)
		}
		if IsOwner(a, ownerID) {
			return nil
		}
		return deny(ReasonNotOwner)
	}
	return deny(ReasonNotOwner)
}

// Payment authorizes an action on a payment made by userID.  Anyone may
// create a payment for themselves; staff may read every payment but only
// the paying non-staff user may delete one.
func Payment(a Actor, act Action, userID *uint64) error {
	switch act {
	case List, Create:
		return nil
	case Retrieve, Update:
		if a.IsStaff || IsOwner(a, userID) {
			return nil
		}
		return deny(ReasonNotOwner)
	case Destroy:
		if a.IsStaff {
			return deny(ReasonStaffAuthoring)
		}
		if IsOwner(a, userID) {
			return nil
		}
		return deny(ReasonNotOwner)
	}
	return deny(ReasonNotOwner)
}

// PaymentScope returns the list scope for payments.
func PaymentScope(a Actor) Scope { return OwnerScope(a) }

// Subscribe authorizes creating a subscription for requestedUser.  The
// duplicate check runs before the on-behalf check.
func Subscribe(a Actor, requestedUser uint64, alreadySubscribed bool) error {
	if a.IsStaff {
		return deny(ReasonStaffAuthoring)
	}
	if alreadySubscribed {
		return deny(ReasonAlreadySubscribed)
	}
	if requestedUser != a.ID {
		return deny(ReasonForeignSubscriber)
	}
	return nil
}

// Unsubscribe authorizes deleting a subscription held by subscriber.
func Unsubscribe(a Actor, subscriber uint64) error {
	if a.IsStaff {
		return deny(ReasonStaffAuthoring)
	}
	if subscriber != a.ID {
		return deny(ReasonNotOwner)
	}
	return nil
}
