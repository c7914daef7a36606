// Package history keeps the query/thought/answer transcript in SQLite.
// If opening the DB or executing queries fails, the store falls back to
// in-memory storage.
package history

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"

	"github.com/comigor/react-go/internal/logger"
)

// Store persists transcript records.
type Store struct {
	mu      sync.Mutex
	records []Record // in-memory fallback
	nextID  int64

	db *sql.DB
}

// Open opens (or creates) the SQLite database at path. It never fails: on any
// error the store runs from memory only.
func Open(path string) *Store {
	s := &Store{}
	if path == "" {
		logger.L.Info("no history db path; using in-memory history")
		return s
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(10000)")
	if err != nil {
		logger.L.Warn("sqlite open failed; using in-memory history", "error", err)
		return s
	}
	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS transcript (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        query TEXT NOT NULL,
        thought TEXT,
        answer TEXT,
        created_at DATETIME
    );`); err != nil {
		logger.L.Warn("sqlite table creation failed; using in-memory history", "error", err)
		_ = db.Close()
		return s
	}
	logger.L.Info("sqlite history DB initialized", "path", path)
	s.db = db
	return s
}

// NewSession returns a fresh session id.
func NewSession() string {
	return uuid.NewString()
}

// Persistent reports whether records reach SQLite.
func (s *Store) Persistent() bool {
	return s.db != nil
}

// Save stores rec, stamping CreatedAt when unset, and returns the stored copy.
func (s *Store) Save(rec Record) Record {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	if s.db != nil {
		res, err := s.db.Exec(`INSERT INTO transcript (session_id, query, thought, answer, created_at) VALUES (?,?,?,?,?);`,
			rec.SessionID, rec.Query, rec.Thought, rec.Answer, rec.CreatedAt)
		if err != nil {
			logger.L.Error("failed to store record in sqlite; falling back to memory", "error", err)
		} else if id, err := res.LastInsertId(); err == nil {
			rec.ID = id
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == 0 {
		s.nextID++
		rec.ID = s.nextID
	}
	s.records = append(s.records, rec)
	return rec
}

// List returns all records of a session in chronological order.
func (s *Store) List(sessionID string) []Record {
	var out []Record
	if s.db != nil {
		rows, err := s.db.Query(`SELECT id, session_id, query, thought, answer, created_at FROM transcript WHERE session_id = ? ORDER BY id ASC;`, sessionID)
		if err == nil {
			defer rows.Close()
			for rows.Next() {
				var r Record
				var thought, answer sql.NullString
				if err := rows.Scan(&r.ID, &r.SessionID, &r.Query, &thought, &answer, &r.CreatedAt); err == nil {
					r.Thought, r.Answer = thought.String, answer.String
					out = append(out, r)
				}
			}
			return out
		}
		logger.L.Warn("sqlite query failed; reading in-memory history", "error", err)
	}

	s.mu.Lock()
	for _, r := range s.records {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	s.mu.Unlock()
	return out
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
