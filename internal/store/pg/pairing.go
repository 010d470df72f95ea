package pg

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nextlevelbuilder/talkbridge/internal/store"
)

// PairingStore implements store.PairingStore backed by Postgres.
// Idempotence of RequestPairing relies on the unique (channel, sender_id)
// constraint plus ON CONFLICT, so concurrent duplicate deliveries of the
// same message can never issue two codes.
type PairingStore struct {
	db *sql.DB
}

func NewPairingStore(db *sql.DB) *PairingStore {
	return &PairingStore{db: db}
}

func (s *PairingStore) IsPaired(senderID, channel string) bool {
	var approved bool
	err := s.db.QueryRow(
		`SELECT approved FROM pairing_requests WHERE channel = $1 AND sender_id = $2`,
		channel, senderID,
	).Scan(&approved)
	if err != nil {
		if err != sql.ErrNoRows {
			slog.Warn("pairing lookup failed", "sender_id", senderID, "error", err)
		}
		return false
	}
	return approved
}

func (s *PairingStore) RequestPairing(senderID, channel, chatID string) (string, bool, error) {
	code, err := generateCode()
	if err != nil {
		return "", false, fmt.Errorf("generate pairing code: %w", err)
	}

	// Insert-or-keep: an existing pending row wins and its code is returned.
	var storedCode string
	var created bool
	err = s.db.QueryRow(
		`INSERT INTO pairing_requests (id, channel, sender_id, chat_id, code, approved, created_at)
		 VALUES ($1, $2, $3, $4, $5, FALSE, $6)
		 ON CONFLICT (channel, sender_id) DO UPDATE SET channel = pairing_requests.channel
		 RETURNING code, (xmax = 0)`,
		uuid.Must(uuid.NewV7()), channel, senderID, chatID, code, time.Now(),
	).Scan(&storedCode, &created)
	if err != nil {
		return "", false, fmt.Errorf("upsert pairing request: %w", err)
	}
	return storedCode, created, nil
}

func (s *PairingStore) Approve(code string) (string, bool, error) {
	var senderID string
	err := s.db.QueryRow(
		`UPDATE pairing_requests SET approved = TRUE
		 WHERE code = $1 AND approved = FALSE
		 RETURNING sender_id`,
		code,
	).Scan(&senderID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("approve pairing: %w", err)
	}
	return senderID, true, nil
}

func (s *PairingStore) Pending() ([]store.PairingRequest, error) {
	rows, err := s.db.Query(
		`SELECT sender_id, channel, chat_id, code, created_at
		 FROM pairing_requests WHERE approved = FALSE ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending pairings: %w", err)
	}
	defer rows.Close()

	var pending []store.PairingRequest
	for rows.Next() {
		var req store.PairingRequest
		if err := rows.Scan(&req.SenderID, &req.Channel, &req.ChatID, &req.Code, &req.CreatedAt); err != nil {
			return nil, err
		}
		pending = append(pending, req)
	}
	return pending, rows.Err()
}

func generateCode() (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("%X", buf[:]), nil
}

var _ store.PairingStore = (*PairingStore)(nil)
