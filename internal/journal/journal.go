package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/raidroad/roadwatch/pkg/logger"
	"go.uber.org/zap"
)

// Event kinds recorded in the journal.
const (
	KindReportCreated = "report_created"
	KindReportDeleted = "report_deleted"
	KindVoteCast      = "vote_cast"
)

// Entry is a single audit record. VoteType is empty for report events.
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Username  string    `json:"username"`
	ReportID  uint64    `json:"report_id"`
	VoteType  string    `json:"vote_type,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Journal is an append-only JSON-lines audit log of report and vote events.
// Appends are synchronous; there is no background flusher.
type Journal struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

// NewJournal opens (or creates) the journal file at filePath.
func NewJournal(filePath string) (*Journal, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Journal{
		filePath: filePath,
		file:     file,
	}, nil
}

// Append writes one entry and syncs it to disk. Entries with no ID are
// assigned one.
func (j *Journal) Append(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("journal: failed to marshal entry",
			zap.String("kind", entry.Kind),
			zap.Error(err),
		)
		return err
	}

	if _, err := j.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("journal: failed to write entry",
			zap.String("kind", entry.Kind),
			zap.Error(err),
		)
		return err
	}

	if err := j.file.Sync(); err != nil {
		logger.Log.Error("journal: failed to sync to disk",
			zap.String("kind", entry.Kind),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// ReadAll returns every entry in the journal. Lines that fail to decode are
// skipped rather than aborting the read.
func (j *Journal) ReadAll() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// Close closes the journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}
