package submission

import (
	"context"
	"sort"
	"sync"

	"applyform/pkg/platform/sentinel"
)

// MemoryStore is the in-memory Store used by unit tests and local
// development. It mirrors the Postgres store's contract, including surrogate
// key assignment and the foreign-key check on log appends.
type MemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	byBusiness map[string]*Submission
	logs       map[int64][]AuditEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byBusiness: make(map[string]*Submission),
		logs:       make(map[int64][]AuditEntry),
	}
}

func (s *MemoryStore) Create(_ context.Context, sub *Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byBusiness[sub.SubmissionID]; exists {
		return sentinel.ErrUniqueViolation
	}

	s.nextID++
	sub.InternalID = s.nextID
	s.byBusiness[sub.SubmissionID] = copySubmission(sub)
	s.logs[sub.InternalID] = nil
	return nil
}

func (s *MemoryStore) Get(_ context.Context, submissionID string) (*Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.byBusiness[submissionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	sub := copySubmission(stored)
	sub.Logs = append([]AuditEntry(nil), s.logs[stored.InternalID]...)
	sort.SliceStable(sub.Logs, func(i, j int) bool {
		return sub.Logs[i].Timestamp.Before(sub.Logs[j].Timestamp)
	})
	return sub, nil
}

func (s *MemoryStore) Update(_ context.Context, sub *Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byBusiness[sub.SubmissionID]; !ok {
		return sentinel.ErrNotFound
	}
	s.byBusiness[sub.SubmissionID] = copySubmission(sub)
	return nil
}

func (s *MemoryStore) AppendLog(_ context.Context, internalID int64, entry AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logs[internalID]; !ok {
		return sentinel.ErrForeignKey
	}
	s.logs[internalID] = append(s.logs[internalID], entry)
	return nil
}

func (s *MemoryStore) List(_ context.Context, filter ListFilter) ([]*Submission, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*Submission
	for _, sub := range s.byBusiness {
		if filter.Status != nil && sub.Status != *filter.Status {
			continue
		}
		if filter.From != nil && sub.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && sub.CreatedAt.After(*filter.To) {
			continue
		}
		matched = append(matched, copySubmission(sub))
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 50
	}
	start := (page - 1) * size
	if start >= total {
		return nil, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *MemoryStore) Delete(_ context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byBusiness[submissionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.logs, stored.InternalID)
	delete(s.byBusiness, submissionID)
	return nil
}

func copySubmission(sub *Submission) *Submission {
	dup := *sub
	dup.Logs = nil
	if sub.FormSnapshot != nil {
		dup.FormSnapshot = append([]byte(nil), sub.FormSnapshot...)
	}
	if sub.VerificationSentAt != nil {
		t := *sub.VerificationSentAt
		dup.VerificationSentAt = &t
	}
	if sub.VerificationExpiresAt != nil {
		t := *sub.VerificationExpiresAt
		dup.VerificationExpiresAt = &t
	}
	return &dup
}

var _ Store = (*MemoryStore)(nil)
