package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Payload is the document written for every accepted submission.
type Payload struct {
	ID          string         `json:"id"`
	FormID      string         `json:"formId,omitempty"`
	RollNumber  string         `json:"rollNumber,omitempty"`
	SubmittedAt time.Time      `json:"submittedAt"`
	Values      map[string]any `json:"values"`
}

// Option configures a JSONSubmitter.
type Option func(*JSONSubmitter)

// WithFormID stamps submissions with the form id.
func WithFormID(id string) Option {
	return func(s *JSONSubmitter) {
		s.formID = id
	}
}

// WithRollNumber stamps submissions with the submitting user.
func WithRollNumber(rollNumber string) Option {
	return func(s *JSONSubmitter) {
		s.rollNumber = rollNumber
	}
}

// WithIndent pretty prints the payload.
func WithIndent(indent string) Option {
	return func(s *JSONSubmitter) {
		s.indent = indent
	}
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *JSONSubmitter) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the receipt id source.
func WithIDGenerator(next func() string) Option {
	return func(s *JSONSubmitter) {
		if next != nil {
			s.nextID = next
		}
	}
}

// JSONSubmitter writes each submission as a JSON document to an io.Writer and
// returns a receipt carrying a random id.
type JSONSubmitter struct {
	mu         sync.Mutex
	out        io.Writer
	formID     string
	rollNumber string
	indent     string
	now        func() time.Time
	nextID     func() string
}

var _ wizard.Submitter = (*JSONSubmitter)(nil)

// NewJSON constructs a submitter writing to out.
func NewJSON(out io.Writer, options ...Option) (*JSONSubmitter, error) {
	if out == nil {
		return nil, errors.New("submit: writer is required")
	}
	s := &JSONSubmitter{
		out:    out,
		now:    time.Now,
		nextID: func() string { return uuid.NewString() },
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Submit encodes values and writes them out.
func (s *JSONSubmitter) Submit(ctx context.Context, values model.Values) (wizard.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return wizard.Receipt{}, err
	}

	payload := Payload{
		ID:          s.nextID(),
		FormID:      s.formID,
		RollNumber:  s.rollNumber,
		SubmittedAt: s.now().UTC(),
		Values:      values.Plain(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	enc := json.NewEncoder(s.out)
	if s.indent != "" {
		enc.SetIndent("", s.indent)
	}
	if err := enc.Encode(payload); err != nil {
		return wizard.Receipt{}, fmt.Errorf("submit: encode payload: %w", err)
	}
	return wizard.Receipt{ID: payload.ID, Message: wizard.MessageSubmitted}, nil
}
