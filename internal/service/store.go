package service

import (
	"sync"

	"github.com/vanshika/ringtrace/backend/internal/report"
)

const defaultStoreCapacity = 16

// reportStore retains the most recent reports in memory so clients can
// download a result shortly after an analysis. Oldest entries are
// evicted first; nothing is ever written to disk.
type reportStore struct {
	mu       sync.Mutex
	capacity int
	order    []string
	byID     map[string]report.Report
}

func newReportStore(capacity int) *reportStore {
	if capacity <= 0 {
		capacity = defaultStoreCapacity
	}
	return &reportStore{
		capacity: capacity,
		byID:     make(map[string]report.Report, capacity),
	}
}

func (s *reportStore) put(r report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[r.AnalysisID]; !ok {
		s.order = append(s.order, r.AnalysisID)
	}
	s.byID[r.AnalysisID] = r

	for len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest)
	}
}

func (s *reportStore) get(id string) (report.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	return r, ok
}
