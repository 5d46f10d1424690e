package status

// Status is the closed enumeration of work order lifecycle stages.
type Status string

const (
	Pending    Status = "pending"
	Scheduled  Status = "scheduled"
	InProgress Status = "in-progress"
	OnHold     Status = "on-hold"
	Completed  Status = "completed"
	Cancelled  Status = "cancelled"
)

type Category uint

const (
	InBacklog Category = iota
	InProcess
	Done
	Rejected
)

type Config struct {
	Label    string   `json:"label"`
	Style    string   `json:"style"`
	Category Category `json:"category"`

	AllowedNext []Status `json:"allowedNext"`
}

// configs is the single source of truth for the status graph.
// Terminal statuses keep an empty AllowedNext, self transitions are never listed.
var configs = map[Status]Config{
	Pending: {
		Label: "Pending", Style: "warning", Category: InBacklog,
		AllowedNext: []Status{Scheduled, InProgress, OnHold, Cancelled},
	},
	Scheduled: {
		Label: "Scheduled", Style: "info", Category: InBacklog,
		AllowedNext: []Status{Pending, InProgress, OnHold, Cancelled},
	},
	InProgress: {
		Label: "In Progress", Style: "primary", Category: InProcess,
		AllowedNext: []Status{OnHold, Completed, Cancelled},
	},
	OnHold: {
		Label: "On Hold", Style: "secondary", Category: InProcess,
		AllowedNext: []Status{InProgress, Cancelled},
	},
	Completed: {
		Label: "Completed", Style: "success", Category: Done,
		AllowedNext: []Status{},
	},
	Cancelled: {
		Label: "Cancelled", Style: "destructive", Category: Rejected,
		AllowedNext: []Status{},
	},
}

var all = []Status{Pending, Scheduled, InProgress, OnHold, Completed, Cancelled}

func All() []Status {
	r := make([]Status, len(all))
	copy(r, all)
	return r
}

func Of(name string) (Status, bool) {
	s := Status(name)
	_, found := configs[s]
	return s, found
}

// ConfigOf fails closed: an unknown status yields a config with an
// empty AllowedNext instead of an error.
func ConfigOf(s Status) Config {
	c, found := configs[s]
	if !found {
		return Config{AllowedNext: []Status{}}
	}
	next := make([]Status, len(c.AllowedNext))
	copy(next, c.AllowedNext)
	c.AllowedNext = next
	return c
}

// IsAllowed reports whether the transition current -> requested is listed
// in the status graph. Equal statuses are not a transition and the graph
// never lists them, callers handle that case as a no-op beforehand.
func IsAllowed(current, requested Status) bool {
	c, found := configs[current]
	if !found {
		return false
	}
	for _, next := range c.AllowedNext {
		if next == requested {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	c, found := configs[s]
	return found && len(c.AllowedNext) == 0
}

func (s Status) Category() Category {
	return configs[s].Category
}

func (s Status) String() string {
	return string(s)
}
