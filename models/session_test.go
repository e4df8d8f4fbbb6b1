package models

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCreateSessionBecomesActive(t *testing.T) {
	st := NewSessionStore()
	first := st.CreateSession("morning count")
	second := st.CreateSession("evening count")

	if !second.IsActive {
		t.Fatal("newly created session must be active")
	}
	active := st.ActiveSession()
	if active.ID != second.ID {
		t.Fatalf("expected active %s, got %s", second.ID, active.ID)
	}

	sessions := st.ListSessions()
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	for _, s := range sessions {
		if s.ID == first.ID && s.IsActive {
			t.Fatal("only one session may be active")
		}
	}
}

func TestActivateSession(t *testing.T) {
	st := NewSessionStore()
	first := st.CreateSession("one")
	st.CreateSession("two")

	info, err := st.ActivateSession(first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsActive {
		t.Fatal("activated session should report active")
	}
	if st.ActiveSession().ID != first.ID {
		t.Fatal("active pointer not moved")
	}

	if _, err := st.ActivateSession("nope"); err == nil {
		t.Fatal("activating an unknown session must fail")
	}
}

func TestListSessionsOrderedByUpdatedAtDesc(t *testing.T) {
	st := NewSessionStore()
	old := st.CreateSession("old")
	fresh := st.CreateSession("fresh")

	// Force distinct timestamps, then touch the older session.
	if s, ok := st.get(old.ID); ok {
		s.mu.Lock()
		s.UpdatedAt = time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
		s.mu.Unlock()
	}

	sessions := st.ListSessions()
	if sessions[0].ID != old.ID || sessions[1].ID != fresh.ID {
		t.Fatalf("expected most recently updated first, got %s then %s", sessions[0].Name, sessions[1].Name)
	}
}

func TestDeleteLastSessionAutoRecreates(t *testing.T) {
	st := NewSessionStore()
	only := st.CreateSession("only")

	if !st.DeleteSession(only.ID) {
		t.Fatal("delete failed")
	}

	sessions := st.ListSessions()
	if len(sessions) != 1 {
		t.Fatalf("expected exactly one auto-created session, got %d", len(sessions))
	}
	if sessions[0].ID == only.ID {
		t.Fatal("replacement must be a new session")
	}
	if !strings.HasPrefix(sessions[0].Name, "Scan Session ") {
		t.Fatalf("expected default name, got %q", sessions[0].Name)
	}
	if !sessions[0].IsActive {
		t.Fatal("replacement must be active")
	}
}

func TestDeleteActiveSessionActivatesSurvivor(t *testing.T) {
	st := NewSessionStore()
	survivor := st.CreateSession("survivor")
	doomed := st.CreateSession("doomed")

	if !st.DeleteSession(doomed.ID) {
		t.Fatal("delete failed")
	}
	if st.ActiveSession().ID != survivor.ID {
		t.Fatal("surviving session should become active")
	}
	if st.DeleteSession(doomed.ID) {
		t.Fatal("double delete should report false")
	}
}

func TestScanEventLifecycle(t *testing.T) {
	st := NewSessionStore()
	session := st.CreateSession("shelf walk")

	first, err := st.AddScanEvent(session.ID, "012345", "rec-1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if first.Quantity != 1 {
		t.Fatalf("quantity should default to 1, got %d", first.Quantity)
	}
	second, err := st.AddScanEvent(session.ID, "067890", "rec-2", 2)
	if err != nil {
		t.Fatal(err)
	}

	events, err := st.ListScanEvents(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].ID != first.ID || events[1].ID != second.ID {
		t.Fatalf("expected scan order preserved, got %+v", events)
	}
	if st.ActiveSession().ItemCount != 2 {
		t.Fatalf("item count expected 2, got %d", st.ActiveSession().ItemCount)
	}

	if !st.DeleteScanEvent(first.ID) {
		t.Fatal("delete event failed")
	}
	if st.DeleteScanEvent(first.ID) {
		t.Fatal("deleting a deleted event should report false")
	}
	events, _ = st.ListScanEvents(session.ID)
	if len(events) != 1 || events[0].ID != second.ID {
		t.Fatalf("expected only the second event, got %+v", events)
	}

	if err := st.ClearScanEvents(session.ID); err != nil {
		t.Fatal(err)
	}
	events, _ = st.ListScanEvents(session.ID)
	if len(events) != 0 {
		t.Fatalf("expected cleared session, got %d events", len(events))
	}

	if _, err := st.AddScanEvent("nope", "1", "r", 1); err == nil {
		t.Fatal("adding to unknown session must fail")
	}
}

func TestDeleteSessionCascadesEvents(t *testing.T) {
	st := NewSessionStore()
	session := st.CreateSession("doomed")
	event, _ := st.AddScanEvent(session.ID, "012345", "rec-1", 1)

	st.DeleteSession(session.ID)

	if st.DeleteScanEvent(event.ID) {
		t.Fatal("events must be cascade-deleted with their session")
	}
}

func TestListScanEventDetails_LazyJoin(t *testing.T) {
	catalog := NewCatalog()
	record := testRecord("Jack Daniel's", "0123456789012", "")
	catalog.ReplaceAll([]*LiquorRecord{record})

	st := NewSessionStore()
	session := st.CreateSession("walk")
	st.AddScanEvent(session.ID, "123456789012", record.ID, 1)

	details, err := st.ListScanEventDetails(session.ID, catalog)
	if err != nil {
		t.Fatal(err)
	}
	if details[0].Product == nil || details[0].Product.ID != record.ID {
		t.Fatalf("expected joined product, got %+v", details[0].Product)
	}
	if details[0].ScannedBarcode != "123456789012" {
		t.Fatalf("scanned barcode must be preserved verbatim, got %q", details[0].ScannedBarcode)
	}

	// A feed reload orphans the event; the join must degrade, not crash.
	catalog.ReplaceAll([]*LiquorRecord{testRecord("Other", "9999", "")})
	details, err = st.ListScanEventDetails(session.ID, catalog)
	if err != nil {
		t.Fatal(err)
	}
	if details[0].Product != nil {
		t.Fatalf("expected orphaned event to join to nil, got %+v", details[0].Product)
	}
}

func TestUpdateScanEventPrice_ShadowIsolation(t *testing.T) {
	catalog := NewCatalog()
	shared := ParsePriceBookLine(sampleLine)
	catalog.ReplaceAll([]*LiquorRecord{shared})

	st := NewSessionStore()
	mine := st.CreateSession("mine")
	theirs := st.CreateSession("theirs")
	myEvent, _ := st.AddScanEvent(mine.ID, "0123456789012", shared.ID, 1)
	st.AddScanEvent(theirs.ID, "0123456789012", shared.ID, 1)

	if !st.UpdateScanEventPrice(myEvent.ID, decimalFromString(t, "19.99"), catalog) {
		t.Fatal("price update failed")
	}

	// My session sees the override plus the original price.
	myDetails, _ := st.ListScanEventDetails(mine.ID, catalog)
	p := myDetails[0].Product
	if p == nil || p.ShelfPrice.Amount.String() != "19.99" {
		t.Fatalf("expected overridden price, got %+v", p)
	}
	if p.OriginalShelfPrice == nil || p.OriginalShelfPrice.Amount.String() != "24.99" {
		t.Fatalf("expected original price retained, got %+v", p.OriginalShelfPrice)
	}
	if p.ID == shared.ID {
		t.Fatal("override must repoint to a shadow record")
	}

	// The other session still joins to the untouched original.
	theirDetails, _ := st.ListScanEventDetails(theirs.ID, catalog)
	q := theirDetails[0].Product
	if q == nil || q.ID != shared.ID {
		t.Fatalf("other session must keep the original record, got %+v", q)
	}
	if q.ShelfPrice.Amount.String() != "24.99" {
		t.Fatalf("original record mutated: %+v", q.ShelfPrice)
	}
}

func TestListScanEventsReturnsDetachedCopies(t *testing.T) {
	catalog := NewCatalog()
	record := ParsePriceBookLine(sampleLine)
	catalog.ReplaceAll([]*LiquorRecord{record})

	st := NewSessionStore()
	session := st.CreateSession("walk")
	added, _ := st.AddScanEvent(session.ID, "0123456789012", record.ID, 1)

	before, err := st.ListScanEvents(session.ID)
	if err != nil {
		t.Fatal(err)
	}

	if !st.UpdateScanEventPrice(added.ID, decimalFromString(t, "19.99"), catalog) {
		t.Fatal("price update failed")
	}

	// Snapshots taken before the override keep the original record id; only a
	// fresh listing sees the shadow.
	if before[0].LiquorRecordID != record.ID {
		t.Fatalf("snapshot mutated by later override: %q", before[0].LiquorRecordID)
	}
	if added.LiquorRecordID != record.ID {
		t.Fatalf("AddScanEvent result mutated by later override: %q", added.LiquorRecordID)
	}
	after, _ := st.ListScanEvents(session.ID)
	if after[0].LiquorRecordID == record.ID {
		t.Fatal("fresh listing must see the shadow record id")
	}
}

func TestListScanEventsSafeDuringPriceUpdates(t *testing.T) {
	catalog := NewCatalog()
	record := ParsePriceBookLine(sampleLine)
	catalog.ReplaceAll([]*LiquorRecord{record})

	st := NewSessionStore()
	session := st.CreateSession("walk")
	event, _ := st.AddScanEvent(session.ID, "0123456789012", record.ID, 1)

	const updates = 200
	override := decimalFromString(t, "19.99")
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < updates; i++ {
			st.UpdateScanEventPrice(event.ID, override, catalog)
		}
	}()

	// Readers must be able to walk their snapshots while overrides repoint
	// the stored events.
	for i := 0; i < updates; i++ {
		events, err := st.ListScanEvents(session.ID)
		if err != nil {
			t.Fatal(err)
		}
		if events[0].ID != event.ID || events[0].ScannedBarcode != "0123456789012" {
			t.Fatalf("unexpected event snapshot: %+v", events[0])
		}
		if _, ok := catalog.Get(events[0].LiquorRecordID); !ok && events[0].LiquorRecordID != "" {
			t.Fatalf("snapshot points at a record the catalog never held: %q", events[0].LiquorRecordID)
		}
	}
	wg.Wait()
}

func TestDeleteSessionSafeDuringEventWrites(t *testing.T) {
	st := NewSessionStore()
	survivor := st.CreateSession("survivor")
	doomed := st.CreateSession("doomed")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			st.AddScanEvent(survivor.ID, "012345", "rec-1", 1)
		}
	}()

	// The survivor scan reads timestamps that the writer goroutine is
	// stamping at the same moment.
	if !st.DeleteSession(doomed.ID) {
		t.Fatal("delete failed")
	}
	wg.Wait()

	if st.ActiveSession().ID != survivor.ID {
		t.Fatal("surviving session should become active")
	}
	events, _ := st.ListScanEvents(survivor.ID)
	if len(events) != 500 {
		t.Fatalf("expected 500 events on the survivor, got %d", len(events))
	}
}

func TestUpdateScanEventPrice_MissingTargets(t *testing.T) {
	catalog := NewCatalog()
	st := NewSessionStore()
	session := st.CreateSession("s")

	if st.UpdateScanEventPrice("nope", decimalFromString(t, "5.00"), catalog) {
		t.Fatal("unknown event must report false")
	}

	// Event whose record has been replaced away.
	event, _ := st.AddScanEvent(session.ID, "111", "gone-record", 1)
	if st.UpdateScanEventPrice(event.ID, decimalFromString(t, "5.00"), catalog) {
		t.Fatal("orphaned event must report false")
	}
}
