package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SADD1990/Taskmanager/internal/model"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicatePhone = errors.New("phone already belongs to another client")
	ErrUnknownClient  = errors.New("unknown client")
	ErrClientInUse    = errors.New("client is referenced by existing tasks")
)

// ClientPatch is a partial client update. nil pointer => "no change".
type ClientPatch struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// TaskPatch is a partial task update. nil pointer => "no change". Setting a
// field to its current value is a no-op: nothing is persisted and no
// timestamp moves.
type TaskPatch struct {
	Title    *string         `json:"title,omitempty"`
	ClientID *int            `json:"clientId,omitempty"`
	Type     *model.TaskType `json:"type,omitempty"`
	Price    *float64        `json:"price,omitempty"`
	Prepaid  *float64        `json:"prepaid,omitempty"`
	Deadline *time.Time      `json:"deadline,omitempty"`
	Status   *model.Status   `json:"status,omitempty"`
}

// Store owns the client and task collections and every mutation that must
// preserve their invariants. All mutations run behind one mutex; the
// snapshot is written through to the gateway after each successful mutation,
// best-effort: a failed write is reported through the alert hook and the
// in-memory state stays authoritative.
type Store struct {
	mu      sync.Mutex
	snap    model.Snapshot
	gateway Gateway
	clock   Clock
	alert   func(error)
}

type Option func(*Store)

func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithSaveAlert replaces the hook invoked when a write-through fails.
func WithSaveAlert(fn func(error)) Option {
	return func(s *Store) { s.alert = fn }
}

func New(gw Gateway, opts ...Option) *Store {
	s := &Store{
		snap:    model.Snapshot{Clients: []model.Client{}, Tasks: []model.Task{}},
		gateway: gw,
		clock:   RealClock{},
		alert: func(err error) {
			logrus.WithError(err).Warn("snapshot write failed; in-memory state kept")
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load pulls the snapshot from the gateway. A missing or unreadable backing
// resource falls back to empty collections; the caller proceeds either way.
// Name snapshots on tasks are reconciled against the live client list, and
// the repaired snapshot is written back if anything changed.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.gateway.Load()
	if err != nil {
		s.snap = model.Snapshot{Clients: []model.Client{}, Tasks: []model.Task{}}
		return err
	}
	snap.Normalize()

	changed := false
	for i := range snap.Tasks {
		t := &snap.Tasks[i]
		if c, ok := snap.FindClient(t.ClientID); ok && t.ClientName != c.Name {
			t.ClientName = c.Name
			changed = true
		}
	}
	s.snap = snap
	if changed {
		s.persistLocked()
	}
	return nil
}

// Snapshot returns a copy safe to read without holding the store's lock.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSnapshot(s.snap)
}

func (s *Store) Clients() []model.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Client, len(s.snap.Clients))
	copy(out, s.snap.Clients)
	return out
}

func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.snap.Tasks))
	copy(out, s.snap.Tasks)
	return out
}

func (s *Store) GetClient(id int) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.snap.FindClient(id); ok {
		return c, nil
	}
	return model.Client{}, ErrNotFound
}

func (s *Store) GetTask(id int) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.snap.Tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, ErrNotFound
}

// NormalizePhone builds the stored phone form. With a country code the raw
// value is treated as a local number: non-digits and leading zeros are
// stripped before the code is prepended. With an empty country code the raw
// value is taken as a complete number and only cleaned down to digits plus
// an optional leading +.
func NormalizePhone(countryCode, raw string) string {
	raw = strings.TrimSpace(raw)
	if countryCode == "" {
		plus := strings.HasPrefix(raw, "+")
		digits := keepDigits(raw)
		if plus {
			return "+" + digits
		}
		return digits
	}
	local := strings.TrimLeft(keepDigits(raw), "0")
	return countryCode + local
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AddClient allocates the next client id. countryCode may be empty when the
// phone is already complete (the import path).
func (s *Store) AddClient(name, phone, countryCode string) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	full := NormalizePhone(countryCode, phone)
	if s.phoneTakenLocked(full, 0) {
		return model.Client{}, ErrDuplicatePhone
	}

	s.snap.LastClientID++
	c := model.Client{
		ID:    s.snap.LastClientID,
		Name:  strings.TrimSpace(name),
		Phone: full,
	}
	s.snap.Clients = append(s.snap.Clients, c)
	s.persistLocked()
	return c, nil
}

// EditClient applies a patch. A phone collision rejects the whole patch and
// leaves the stored record untouched; a name change cascades into every
// task's name snapshot.
func (s *Store) EditClient(id int, p ClientPatch) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.snap.Clients {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Client{}, ErrNotFound
	}

	c := s.snap.Clients[idx]
	changed := false

	if p.Phone != nil {
		full := NormalizePhone("", *p.Phone)
		if full != c.Phone {
			if s.phoneTakenLocked(full, id) {
				return model.Client{}, ErrDuplicatePhone
			}
			c.Phone = full
			changed = true
		}
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name != c.Name {
			c.Name = name
			for i := range s.snap.Tasks {
				if s.snap.Tasks[i].ClientID == id {
					s.snap.Tasks[i].ClientName = name
				}
			}
			changed = true
		}
	}

	if !changed {
		return c, nil
	}
	s.snap.Clients[idx] = c
	s.persistLocked()
	return c, nil
}

// DeleteClient refuses while any task still references the client.
func (s *Store) DeleteClient(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.snap.Clients {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	for _, t := range s.snap.Tasks {
		if t.ClientID == id {
			return ErrClientInUse
		}
	}

	s.snap.Clients = append(s.snap.Clients[:idx], s.snap.Clients[idx+1:]...)
	s.persistLocked()
	return nil
}

// AddTask allocates the next task id. The client must resolve; its name is
// snapshotted onto the task for display resilience.
func (s *Store) AddTask(title string, clientID int, typ model.TaskType, price, prepaid float64, deadline time.Time) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.snap.FindClient(clientID)
	if !ok {
		return model.Task{}, ErrUnknownClient
	}

	s.snap.LastTaskID++
	t := model.Task{
		ID:         s.snap.LastTaskID,
		Title:      strings.TrimSpace(title),
		ClientID:   clientID,
		ClientName: c.Name,
		Type:       typ,
		Price:      price,
		Prepaid:    prepaid,
		Deadline:   deadline,
		Status:     model.StatusNew,
	}
	s.snap.Tasks = append(s.snap.Tasks, t)
	s.persistLocked()
	return t, nil
}

// EditTask applies a patch. A status transition to a different value stamps
// LastStatusUpdate; re-applying the current status does not. A clientId
// change re-resolves the name snapshot, falling back to "" when the id does
// not resolve.
func (s *Store) EditTask(id int, p TaskPatch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.snap.Tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Task{}, ErrNotFound
	}

	t := s.snap.Tasks[idx]
	changed := false

	if p.Title != nil && *p.Title != t.Title {
		t.Title = *p.Title
		changed = true
	}
	if p.ClientID != nil && *p.ClientID != t.ClientID {
		t.ClientID = *p.ClientID
		if c, ok := s.snap.FindClient(*p.ClientID); ok {
			t.ClientName = c.Name
		} else {
			t.ClientName = ""
		}
		changed = true
	}
	if p.Type != nil && *p.Type != t.Type {
		t.Type = *p.Type
		changed = true
	}
	if p.Price != nil && *p.Price != t.Price {
		t.Price = *p.Price
		changed = true
	}
	if p.Prepaid != nil && *p.Prepaid != t.Prepaid {
		t.Prepaid = *p.Prepaid
		changed = true
	}
	if p.Deadline != nil && !p.Deadline.Equal(t.Deadline) {
		t.Deadline = *p.Deadline
		changed = true
	}
	if p.Status != nil && *p.Status != t.Status {
		t.Status = *p.Status
		now := s.clock.Now()
		t.LastStatusUpdate = &now
		changed = true
	}

	if !changed {
		return t, nil
	}
	s.snap.Tasks[idx] = t
	s.persistLocked()
	return t, nil
}

// DeleteTask removes the task unconditionally; clients are never affected.
func (s *Store) DeleteTask(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.snap.Tasks {
		if t.ID == id {
			s.snap.Tasks = append(s.snap.Tasks[:i], s.snap.Tasks[i+1:]...)
			s.persistLocked()
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) phoneTakenLocked(phone string, exceptID int) bool {
	for _, c := range s.snap.Clients {
		if c.ID != exceptID && c.Phone == phone {
			return true
		}
	}
	return false
}

func (s *Store) persistLocked() {
	if s.gateway == nil {
		return
	}
	if err := s.gateway.Save(cloneSnapshot(s.snap)); err != nil && s.alert != nil {
		s.alert(err)
	}
}

func cloneSnapshot(in model.Snapshot) model.Snapshot {
	out := in
	out.Clients = make([]model.Client, len(in.Clients))
	copy(out.Clients, in.Clients)
	out.Tasks = make([]model.Task, len(in.Tasks))
	copy(out.Tasks, in.Tasks)
	return out
}
