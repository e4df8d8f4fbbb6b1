package models

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/greatlakespos/pricebook_backend/utils"
)

// ScanEvent records one barcode resolution against a session. ScannedBarcode
// keeps the raw value the scanner emitted, which may differ from the
// catalog's zero-padded UPC; exports re-emit the scanned value.
type ScanEvent struct {
	ID             string `json:"id"`
	SessionID      string `json:"sessionId"`
	LiquorRecordID string `json:"liquorRecordId,omitempty"`
	ScannedBarcode string `json:"scannedBarcode"`
	ScannedAt      string `json:"scannedAt"`
	Quantity       int    `json:"quantity"`
}

// ScanEventDetail joins a scan event against the current catalog at read
// time. Product is nil when the referenced record has been replaced by a
// later feed ingestion.
type ScanEventDetail struct {
	*ScanEvent
	Product *LiquorRecord `json:"product"`
}

// Session is a named scanning workspace owning an ordered scan event list.
// Each session carries its own mutex so work on different sessions never
// contends; the store-level lock only guards membership and the active
// pointer.
type Session struct {
	ID        string
	Name      string
	CreatedAt string
	UpdatedAt string

	mu     sync.Mutex
	events []*ScanEvent
}

// SessionInfo is the API shape of a session.
type SessionInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	ItemCount int    `json:"itemCount"`
	IsActive  bool   `json:"isActive"`
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// DefaultSessionName names the auto-created replacement session.
func DefaultSessionName() string {
	return "Scan Session " + time.Now().Format("2006-01-02")
}

// SessionStore manages named sessions and their scan events. Exactly one
// session is active at a time; the store tracks a single current pointer
// rather than per-record flags.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	activeID string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

func (s *Session) info(active bool) *SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &SessionInfo{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		ItemCount: len(s.events),
		IsActive:  active,
	}
}

// touch must be called with s.mu held.
func (s *Session) touch() {
	s.UpdatedAt = nowStamp()
}

// updatedAt reads the timestamp under the session lock; touch writes it under
// the same lock, so store-level readers must come through here.
func (s *Session) updatedAt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UpdatedAt
}

// createLocked inserts a new session and makes it active. Caller holds the
// store write lock.
func (st *SessionStore) createLocked(name string) *Session {
	now := nowStamp()
	session := &Session{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.sessions[session.ID] = session
	st.activeID = session.ID
	return session
}

// CreateSession creates a session and makes it the active one.
func (st *SessionStore) CreateSession(name string) *SessionInfo {
	st.mu.Lock()
	session := st.createLocked(name)
	st.mu.Unlock()
	return session.info(true)
}

// ListSessions returns all sessions ordered by updatedAt descending.
func (st *SessionStore) ListSessions() []*SessionInfo {
	st.mu.RLock()
	defer st.mu.RUnlock()
	infos := make([]*SessionInfo, 0, len(st.sessions))
	for id, session := range st.sessions {
		infos = append(infos, session.info(id == st.activeID))
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].UpdatedAt != infos[j].UpdatedAt {
			return infos[i].UpdatedAt > infos[j].UpdatedAt
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// ActiveSession returns the current active session, creating a default one
// if the store is empty.
func (st *SessionStore) ActiveSession() *SessionInfo {
	st.mu.Lock()
	session, ok := st.sessions[st.activeID]
	if !ok {
		session = st.createLocked(DefaultSessionName())
	}
	st.mu.Unlock()
	return session.info(true)
}

// ActivateSession marks the session as the current one.
func (st *SessionStore) ActivateSession(id string) (*SessionInfo, error) {
	st.mu.Lock()
	session, ok := st.sessions[id]
	if !ok {
		st.mu.Unlock()
		return nil, utils.ErrorRecordNotFound
	}
	st.activeID = id
	st.mu.Unlock()
	return session.info(true), nil
}

// DeleteSession removes a session and cascades deletion of its scan events.
// An active session always exists afterwards: deleting the active session
// activates the most recently updated survivor, and deleting the last
// session auto-creates a default-named replacement.
func (st *SessionStore) DeleteSession(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[id]
	if !ok {
		return false
	}
	delete(st.sessions, id)

	session.mu.Lock()
	session.events = nil
	session.mu.Unlock()

	if st.activeID != id {
		return true
	}

	st.activeID = ""
	var latest *Session
	var latestStamp string
	for _, candidate := range st.sessions {
		stamp := candidate.updatedAt()
		if latest == nil || stamp > latestStamp {
			latest = candidate
			latestStamp = stamp
		}
	}
	if latest != nil {
		st.activeID = latest.ID
	} else {
		st.createLocked(DefaultSessionName())
	}
	return true
}

func (st *SessionStore) get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	session, ok := st.sessions[id]
	return session, ok
}

// AddScanEvent appends a scan event to the session.
func (st *SessionStore) AddScanEvent(sessionID string, barcode string, recordID string, quantity int) (*ScanEvent, error) {
	session, ok := st.get(sessionID)
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	if quantity <= 0 {
		quantity = 1
	}
	event := &ScanEvent{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		LiquorRecordID: recordID,
		ScannedBarcode: barcode,
		ScannedAt:      nowStamp(),
		Quantity:       quantity,
	}
	session.mu.Lock()
	session.events = append(session.events, event)
	session.touch()
	snapshot := *event
	session.mu.Unlock()
	return &snapshot, nil
}

// ListScanEvents returns the session's events in scan order. Events are
// copied by value, so callers can read them after the session lock is
// released while UpdateScanEventPrice repoints the stored originals.
func (st *SessionStore) ListScanEvents(sessionID string) ([]*ScanEvent, error) {
	session, ok := st.get(sessionID)
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	session.mu.Lock()
	events := make([]*ScanEvent, 0, len(session.events))
	for _, event := range session.events {
		snapshot := *event
		events = append(events, &snapshot)
	}
	session.mu.Unlock()
	return events, nil
}

// ListScanEventDetails joins the session's events against the catalog's
// current contents. Events whose record was replaced by a later ingestion
// come back with a nil Product; callers render those as product-not-found.
func (st *SessionStore) ListScanEventDetails(sessionID string, catalog *Catalog) ([]*ScanEventDetail, error) {
	events, err := st.ListScanEvents(sessionID)
	if err != nil {
		return nil, err
	}
	details := make([]*ScanEventDetail, 0, len(events))
	for _, event := range events {
		detail := &ScanEventDetail{ScanEvent: event}
		if event.LiquorRecordID != "" {
			if record, ok := catalog.Get(event.LiquorRecordID); ok {
				detail.Product = record
			}
		}
		details = append(details, detail)
	}
	return details, nil
}

// DeleteScanEvent removes one event; false when the id is unknown.
func (st *SessionStore) DeleteScanEvent(eventID string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, session := range st.sessions {
		session.mu.Lock()
		for i, event := range session.events {
			if event.ID == eventID {
				session.events = append(session.events[:i], session.events[i+1:]...)
				session.touch()
				session.mu.Unlock()
				return true
			}
		}
		session.mu.Unlock()
	}
	return false
}

// ClearScanEvents drops all of the session's events.
func (st *SessionStore) ClearScanEvents(sessionID string) error {
	session, ok := st.get(sessionID)
	if !ok {
		return utils.ErrorRecordNotFound
	}
	session.mu.Lock()
	session.events = nil
	session.touch()
	session.mu.Unlock()
	return nil
}

// UpdateScanEventPrice applies a per-session price override. The linked
// catalog record is never mutated (other sessions may reference it); instead
// a shadow copy with the new shelf price is inserted into the catalog and the
// event is repointed at it. Returns false when the event or its linked record
// no longer exists.
func (st *SessionStore) UpdateScanEventPrice(eventID string, price decimal.Decimal, catalog *Catalog) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, session := range st.sessions {
		session.mu.Lock()
		for _, event := range session.events {
			if event.ID != eventID {
				continue
			}
			record, ok := catalog.Get(event.LiquorRecordID)
			if !ok {
				session.mu.Unlock()
				return false
			}
			shadow := record.CloneWithShelfPrice(NumericPrice(price))
			catalog.Insert(shadow)
			event.LiquorRecordID = shadow.ID
			session.touch()
			session.mu.Unlock()
			return true
		}
		session.mu.Unlock()
	}
	return false
}
