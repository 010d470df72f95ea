package file

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (*PairingStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pairing.json")
	s, err := NewPairingStore(path)
	if err != nil {
		t.Fatalf("NewPairingStore: %v", err)
	}
	return s, path
}

func TestRequestPairing_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)

	code1, created1, err := s.RequestPairing("u1", "channel-talk", "c1")
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	if !created1 {
		t.Error("first request should report created=true")
	}
	if code1 == "" {
		t.Error("expected a non-empty code")
	}

	code2, created2, err := s.RequestPairing("u1", "channel-talk", "c1")
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if created2 {
		t.Error("second request should report created=false")
	}
	if code2 != code1 {
		t.Errorf("code changed on retry: %q vs %q", code1, code2)
	}
}

func TestApprove(t *testing.T) {
	s, _ := newTestStore(t)

	code, _, err := s.RequestPairing("u1", "channel-talk", "c1")
	if err != nil {
		t.Fatal(err)
	}

	if s.IsPaired("u1", "channel-talk") {
		t.Error("sender should not be paired before approval")
	}

	senderID, ok, err := s.Approve(code)
	if err != nil || !ok {
		t.Fatalf("Approve: ok=%v err=%v", ok, err)
	}
	if senderID != "u1" {
		t.Errorf("senderID = %q, want u1", senderID)
	}
	if !s.IsPaired("u1", "channel-talk") {
		t.Error("sender should be paired after approval")
	}

	// Unknown code
	if _, ok, _ := s.Approve("NOPE"); ok {
		t.Error("unknown code should not approve")
	}
}

func TestPairing_ChannelScoped(t *testing.T) {
	s, _ := newTestStore(t)

	code, _, _ := s.RequestPairing("u1", "channel-talk", "c1")
	s.Approve(code)

	if s.IsPaired("u1", "other-channel") {
		t.Error("pairing must be scoped to its channel")
	}
}

func TestPairing_PersistsAcrossReload(t *testing.T) {
	s, path := newTestStore(t)

	code, _, err := s.RequestPairing("u1", "channel-talk", "c1")
	if err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewPairingStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	code2, created, err := reloaded.RequestPairing("u1", "channel-talk", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("reloaded store should still hold the pending request")
	}
	if code2 != code {
		t.Errorf("code changed after reload: %q vs %q", code, code2)
	}

	pending, err := reloaded.Pending()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].SenderID != "u1" {
		t.Errorf("unexpected pending list: %+v", pending)
	}
}
