// Package file provides file-backed store implementations for standalone mode.
package file

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nextlevelbuilder/talkbridge/internal/store"
)

// PairingStore persists pairing state as a single JSON file.
// Safe for concurrent use; every mutation is flushed to disk before return,
// so duplicate deliveries of the same message observe a consistent state.
type PairingStore struct {
	mu       sync.Mutex
	path     string
	requests map[string]*store.PairingRequest // key: channel + "\x00" + senderID
}

// NewPairingStore loads (or initializes) a pairing store at path.
func NewPairingStore(path string) (*PairingStore, error) {
	s := &PairingStore{
		path:     path,
		requests: make(map[string]*store.PairingRequest),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func pairingKey(channel, senderID string) string {
	return channel + "\x00" + senderID
}

// IsPaired reports whether the sender has an approved pairing.
func (s *PairingStore) IsPaired(senderID, channel string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[pairingKey(channel, senderID)]
	return ok && req.Approved
}

// RequestPairing records a pairing request, returning the existing code when
// one is already pending for the sender.
func (s *PairingStore) RequestPairing(senderID, channel, chatID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairingKey(channel, senderID)
	if req, ok := s.requests[key]; ok && !req.Approved {
		return req.Code, false, nil
	}

	code, err := generateCode()
	if err != nil {
		return "", false, fmt.Errorf("generate pairing code: %w", err)
	}

	s.requests[key] = &store.PairingRequest{
		SenderID:  senderID,
		Channel:   channel,
		ChatID:    chatID,
		Code:      code,
		CreatedAt: time.Now(),
	}
	if err := s.save(); err != nil {
		return "", false, err
	}
	return code, true, nil
}

// Approve marks the request with the given code as approved.
func (s *PairingStore) Approve(code string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, req := range s.requests {
		if req.Code == code && !req.Approved {
			req.Approved = true
			if err := s.save(); err != nil {
				return "", false, err
			}
			return req.SenderID, true, nil
		}
	}
	return "", false, nil
}

// Pending lists unapproved pairing requests.
func (s *PairingStore) Pending() ([]store.PairingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []store.PairingRequest
	for _, req := range s.requests {
		if !req.Approved {
			pending = append(pending, *req)
		}
	}
	return pending, nil
}

// --- Persistence ---

func (s *PairingStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read pairing store: %w", err)
	}

	var reqs []*store.PairingRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return fmt.Errorf("parse pairing store: %w", err)
	}
	for _, req := range reqs {
		s.requests[pairingKey(req.Channel, req.SenderID)] = req
	}
	return nil
}

func (s *PairingStore) save() error {
	reqs := make([]*store.PairingRequest, 0, len(s.requests))
	for _, req := range s.requests {
		reqs = append(reqs, req)
	}

	data, err := json.MarshalIndent(reqs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// generateCode returns a short uppercase hex pairing code.
func generateCode() (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("%X", buf[:]), nil
}

var _ store.PairingStore = (*PairingStore)(nil)
