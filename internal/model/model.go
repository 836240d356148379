package model

import (
	"time"
)

// Status is the task lifecycle state. The progression new -> in_progress ->
// completed -> paid is conventional; nothing enforces it mechanically.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusPaid       Status = "paid"
)

func AllStatuses() []Status {
	return []Status{StatusNew, StatusInProgress, StatusCompleted, StatusPaid}
}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted, StatusPaid:
		return true
	}
	return false
}

type TaskType string

const (
	TypeResearch     TaskType = "research"
	TypePresentation TaskType = "presentation"
	TypeHomework     TaskType = "homework"
	TypeExam         TaskType = "exam"
	TypeProject      TaskType = "project"
	TypeOther        TaskType = "other"
)

func AllTaskTypes() []TaskType {
	return []TaskType{TypeResearch, TypePresentation, TypeHomework, TypeExam, TypeProject, TypeOther}
}

func (t TaskType) Valid() bool {
	switch t {
	case TypeResearch, TypePresentation, TypeHomework, TypeExam, TypeProject, TypeOther:
		return true
	}
	return false
}

type Client struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Task struct {
	ID    int    `json:"id"`
	Title string `json:"title"`

	// ClientID is a weak reference: a non-zero id that no longer resolves
	// means the client was removed out-of-band (legacy data); zero means the
	// task was never tied to a client. ClientName is the denormalized name
	// snapshot rendered when resolution fails.
	ClientID   int    `json:"clientId"`
	ClientName string `json:"clientName"`

	Type     TaskType  `json:"type"`
	Price    float64   `json:"price"`
	Prepaid  float64   `json:"prepaid"`
	Deadline time.Time `json:"deadline"`

	Status           Status     `json:"status"`
	LastStatusUpdate *time.Time `json:"lastStatusUpdate,omitempty"`
}

// Remaining may be negative when a task is overpaid; aggregate debt clamps
// it, display does not.
func (t Task) Remaining() float64 {
	return t.Price - t.Prepaid
}

// Snapshot is the persisted shape of the whole store. The id counters are
// part of the snapshot; Normalize restores them from the collections when a
// legacy file predates them.
type Snapshot struct {
	Clients      []Client `json:"clients"`
	Tasks        []Task   `json:"tasks"`
	LastClientID int      `json:"lastClientId"`
	LastTaskID   int      `json:"lastTaskId"`
}

// Normalize repairs a freshly loaded snapshot: nil collections become empty,
// and counters never sit below the highest allocated id.
func (s *Snapshot) Normalize() {
	if s.Clients == nil {
		s.Clients = []Client{}
	}
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	for _, c := range s.Clients {
		if c.ID > s.LastClientID {
			s.LastClientID = c.ID
		}
	}
	for _, t := range s.Tasks {
		if t.ID > s.LastTaskID {
			s.LastTaskID = t.ID
		}
	}
}

// FindClient resolves a client id against the snapshot.
func (s *Snapshot) FindClient(id int) (Client, bool) {
	for _, c := range s.Clients {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}
