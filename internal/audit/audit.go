// Package audit records state-mutating commands as structured log entries.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// Entry describes one recorded mutation.
type Entry struct {
	Action     string
	InputsHash string
	Outcome    string
	TargetID   string
	Details    string
}

// Recorder writes audit entries for mutations.
type Recorder struct {
	logger *logrus.Entry
}

// NewRecorder creates a recorder logging to logger. A nil logger uses the
// logrus standard logger.
func NewRecorder(logger *logrus.Logger) *Recorder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Recorder{logger: logger.WithField("component", "audit")}
}

// Record logs an entry for action. Inputs are hashed rather than logged so
// that note contents never reach the log.
func (r *Recorder) Record(action string, inputs any, outcome, targetID, details string) Entry {
	entry := Entry{
		Action:     action,
		InputsHash: hashInputs(inputs),
		Outcome:    outcome,
		TargetID:   targetID,
		Details:    details,
	}
	if r == nil {
		return entry
	}

	fields := logrus.Fields{
		"action":      entry.Action,
		"inputs_hash": entry.InputsHash,
		"outcome":     entry.Outcome,
	}
	if entry.TargetID != "" {
		fields["target_id"] = entry.TargetID
	}
	if entry.Details != "" {
		fields["details"] = entry.Details
	}
	r.logger.WithFields(fields).Info("audit")
	return entry
}

// hashInputs creates a SHA256 hash of the inputs for reproducibility.
func hashInputs(inputs any) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
