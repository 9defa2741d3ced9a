package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"phone-analytics/models"
	"phone-analytics/utils"
)

// ErrInvalidSpec wraps every validation failure of a submission.
var ErrInvalidSpec = errors.New("invalid phone specification")

// Session holds the visible state of one estimation screen: whether a
// submission is in flight and the last committed result. A submission that
// finishes after a newer one started is discarded.
type Session struct {
	predictor     *Predictor
	referenceYear int
	logger        *utils.Logger

	mu      sync.Mutex
	seq     uint64
	pending int
	last    *models.EstimationResult
}

func NewSession(predictor *Predictor, referenceYear int, logger *utils.Logger) *Session {
	return &Session{
		predictor:     predictor,
		referenceYear: referenceYear,
		logger:        logger,
	}
}

// Submit validates in, runs the prediction batch and commits the result if
// it is still the latest submission. accepted reports whether it was
// committed. Invalid input leaves the session untouched.
func (s *Session) Submit(ctx context.Context, in models.SpecInput) (result *models.EstimationResult, accepted bool, err error) {
	if err := in.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}

	s.mu.Lock()
	s.seq++
	id := s.seq
	s.pending++
	s.mu.Unlock()

	requestID := uuid.NewString()
	s.logger.Debug("[session] Submission #%d started (request %s)", id, requestID)

	estimate := s.predictor.Predict(ctx, in.Resolve(s.referenceYear))
	estimate.RequestID = requestID

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if id != s.seq {
		s.logger.Info("[session] Discarding stale result #%d, latest is #%d", id, s.seq)
		return &estimate, false, nil
	}
	s.last = &estimate
	return &estimate, true, nil
}

// Loading is true while any submission is outstanding.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

// Last returns the last committed result, or nil.
func (s *Session) Last() *models.EstimationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
