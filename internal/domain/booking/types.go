package booking

type Status string

const (
	StatusPending   Status = "pending"   // waiting for host approval
	StatusConfirmed Status = "confirmed" // approved, payment captured or auto-accepted
	StatusActive    Status = "active"    // renter checked in, session in progress
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
	StatusNoShow    Status = "no_show"
	StatusExpired   Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusActive, StatusCompleted,
		StatusCancelled, StatusFailed, StatusNoShow, StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusFailed, StatusNoShow, StatusExpired:
		return true
	default:
		return false
	}
}

// Blocks reports whether a booking in this status occupies the charger for
// availability purposes.
func (s Status) Blocks() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusActive:
		return true
	default:
		return false
	}
}

func (s Status) CanExtend() bool {
	return s == StatusConfirmed || s == StatusActive
}

func (s Status) CanCancel() bool {
	return s != StatusCompleted && s != StatusCancelled
}

func (s Status) CanCheckIn() bool {
	return s == StatusConfirmed
}

// BlockingStatuses is the fixed set consulted by availability queries.
var BlockingStatuses = []Status{StatusPending, StatusConfirmed, StatusActive}

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentProcessing    PaymentStatus = "processing"
	PaymentCompleted     PaymentStatus = "completed"
	PaymentFailed        PaymentStatus = "failed"
	PaymentRefunded      PaymentStatus = "refunded"
	PaymentPartialRefund PaymentStatus = "partial_refund"
)

func (p PaymentStatus) String() string {
	return string(p)
}

// CancelActor identifies who initiated a cancellation.
type CancelActor string

const (
	CancelledByRenter CancelActor = "renter"
	CancelledByHost   CancelActor = "host"
	CancelledBySystem CancelActor = "system"
	CancelledByAdmin  CancelActor = "admin"
)

func (a CancelActor) IsValid() bool {
	switch a {
	case CancelledByRenter, CancelledByHost, CancelledBySystem, CancelledByAdmin:
		return true
	default:
		return false
	}
}
