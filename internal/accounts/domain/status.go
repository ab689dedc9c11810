package domain

// Status is the closed set of account statuses, mirrored into the seeded
// statuses table.
type Status int

const (
	StatusActive      Status = 1
	StatusInactive    Status = 2
	StatusDeactivated Status = 3
	StatusPending     Status = 4
)

var statusNames = map[Status]string{
	StatusActive:      "ACTIVE",
	StatusInactive:    "INACTIVE",
	StatusDeactivated: "DEACTIVATE",
	StatusPending:     "PENDING",
}

// Statuses returns every known status in id order.
func Statuses() []Status {
	return []Status{StatusActive, StatusInactive, StatusDeactivated, StatusPending}
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func ParseStatus(id int) (Status, bool) {
	s := Status(id)
	return s, s.Valid()
}

func ParseStatusName(name string) (Status, bool) {
	for s, n := range statusNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}
