package ledger

import (
	"encoding/json"
	"errors"
	"sync"

	"team-task-board/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// settingsKey is the single durable row holding the serialized
// task -> reminder-kinds mapping.
const settingsKey = "sent_reminders"

// Pair identifies one dispatched reminder.
type Pair struct {
	TaskID string
	Kind   string
}

// Ledger records which (task, reminder kind) pairs have already been
// dispatched so the scanner never sends the same reminder twice. Entries are
// append-only; the mapping is loaded once at construction and written back on
// every batch mark.
type Ledger struct {
	mu   sync.Mutex
	db   *gorm.DB
	sent map[string][]string
}

// Load builds a Ledger from the durable row. A missing or corrupt row resets
// the mapping to empty: re-sending a reminder is less harmful than never
// sending one.
func Load(db *gorm.DB) *Ledger {
	l := &Ledger{db: db, sent: make(map[string][]string)}

	var row models.Setting
	err := db.Where("key = ?", settingsKey).First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).Warn("ledger: failed to read sent reminders, starting empty")
		}
		return l
	}

	if err := json.Unmarshal([]byte(row.Value), &l.sent); err != nil {
		logrus.WithError(err).Warn("ledger: corrupt sent reminders row, starting empty")
		l.sent = make(map[string][]string)
	}
	return l
}

// HasSent reports whether the given reminder was already dispatched.
func (l *Ledger) HasSent(taskID, kind string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range l.sent[taskID] {
		if k == kind {
			return true
		}
	}
	return false
}

// MarkSentBatch appends every given pair (skipping ones already present) and
// persists the mapping in a single write. The scanner calls this once per
// tick, after all dispatch attempts have completed.
func (l *Ledger) MarkSentBatch(pairs []Pair) error {
	if len(pairs) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range pairs {
		if containsKind(l.sent[p.TaskID], p.Kind) {
			continue
		}
		l.sent[p.TaskID] = append(l.sent[p.TaskID], p.Kind)
	}
	return l.persistLocked()
}

// Pairs returns every recorded (task, kind) pair.
func (l *Ledger) Pairs() []Pair {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Pair
	for taskID, kinds := range l.sent {
		for _, k := range kinds {
			out = append(out, Pair{TaskID: taskID, Kind: k})
		}
	}
	return out
}

func (l *Ledger) persistLocked() error {
	raw, err := json.Marshal(l.sent)
	if err != nil {
		return err
	}
	row := models.Setting{Key: settingsKey, Value: string(raw)}
	return l.db.Save(&row).Error
}

func containsKind(kinds []string, kind string) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
