package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

// Snapshot is the flat on-disk form of the whole store: one JSON document
// with each collection keyed by entity id.
type Snapshot struct {
	Cars         map[string]*CarRecord         `json:"cars"`
	Bookings     map[string]*BookingRecord     `json:"bookings"`
	Transactions map[string]*TransactionRecord `json:"transactions"`
	Reviews      map[string]*ReviewRecord      `json:"reviews"`
	Users        map[string]*UserRecord        `json:"users"`
}

// Snapshot copies the current state into a serializable form.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Cars:         make(map[string]*CarRecord, len(s.cars)),
		Bookings:     make(map[string]*BookingRecord, len(s.bookings)),
		Transactions: make(map[string]*TransactionRecord, len(s.transactions)),
		Reviews:      make(map[string]*ReviewRecord, len(s.reviews)),
		Users:        make(map[string]*UserRecord, len(s.users)),
	}
	for _, rec := range s.cars {
		cp := *rec
		snap.Cars[rec.ID.String()] = &cp
	}
	for _, rec := range s.bookings {
		cp := *rec
		snap.Bookings[rec.ID.String()] = &cp
	}
	for _, rec := range s.transactions {
		cp := *rec
		snap.Transactions[rec.ID.String()] = &cp
	}
	for _, rec := range s.reviews {
		cp := *rec
		snap.Reviews[rec.ID.String()] = &cp
	}
	for id, rec := range s.users {
		cp := *rec
		snap.Users[id.String()] = &cp
	}
	return snap
}

// Restore replaces the store contents with the snapshot. Collections are
// rebuilt in creation order so listing order survives a round trip.
func (s *Store) Restore(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cars = s.cars[:0]
	for _, rec := range snap.Cars {
		s.cars = append(s.cars, rec)
	}
	sort.Slice(s.cars, func(i, j int) bool {
		return s.cars[i].CreatedAt.Before(s.cars[j].CreatedAt)
	})

	s.bookings = s.bookings[:0]
	for _, rec := range snap.Bookings {
		s.bookings = append(s.bookings, rec)
	}
	sort.Slice(s.bookings, func(i, j int) bool {
		return s.bookings[i].CreatedAt.Before(s.bookings[j].CreatedAt)
	})

	s.transactions = s.transactions[:0]
	for _, rec := range snap.Transactions {
		s.transactions = append(s.transactions, rec)
	}
	sort.Slice(s.transactions, func(i, j int) bool {
		return s.transactions[i].CreatedAt.Before(s.transactions[j].CreatedAt)
	})

	s.reviews = s.reviews[:0]
	for _, rec := range snap.Reviews {
		s.reviews = append(s.reviews, rec)
	}
	sort.Slice(s.reviews, func(i, j int) bool {
		return s.reviews[i].CreatedAt.Before(s.reviews[j].CreatedAt)
	})

	s.users = make(map[uuid.UUID]*UserRecord, len(snap.Users))
	for _, rec := range snap.Users {
		s.users[rec.ID] = rec
	}
}

// SaveFile writes the snapshot to path, creating parent directories. The
// write goes through a temp file and rename so a crash mid-write never
// leaves a truncated snapshot behind.
func (s *Store) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LoadFile restores the store from a snapshot file. A missing file is not
// an error; the store just starts empty.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	s.Restore(&snap)
	return nil
}
