package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mogaaruf1/somali-student-hub/internal/events"
	"github.com/mogaaruf1/somali-student-hub/internal/notify"
)

var (
	ErrNotFound         = errors.New("enrollment not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrPermissionDenied = errors.New("permission denied by store")
)

const sideEffectTimeout = 10 * time.Second

type SubmitInput struct {
	ResourceID    string
	ResourceTitle string
	StudentName   string
	StudentEmail  string
	StudentPhone  string
}

type Service interface {
	Submit(ctx context.Context, in SubmitInput) (*Enrollment, error)
	List(ctx context.Context) ([]Enrollment, error)
	SetStatus(ctx context.Context, id string, status Status) error
	Remove(ctx context.Context, id string) error
	// Subscribe returns a stream of full ordered snapshots, one per change
	// plus an initial one. The stream closes when ctx is cancelled.
	Subscribe(ctx context.Context) (<-chan []Enrollment, error)
}

type service struct {
	repo      Repository
	notifier  notify.Notifier
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, notifier notify.Notifier, publisher events.Publisher, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *service) Submit(ctx context.Context, in SubmitInput) (*Enrollment, error) {
	if err := validateSubmit(in); err != nil {
		return nil, err
	}

	e := &Enrollment{
		ResourceID:    in.ResourceID,
		ResourceTitle: in.ResourceTitle,
		StudentName:   strings.TrimSpace(in.StudentName),
		StudentEmail:  strings.TrimSpace(in.StudentEmail),
		StudentPhone:  strings.TrimSpace(in.StudentPhone),
		Status:        StatusPending,
	}

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}

	// The write has committed; the caller's result is settled. Notification
	// and event publishing run detached and their outcome is only logged.
	go s.dispatchSideEffects(*created)

	return created, nil
}

func (s *service) dispatchSideEffects(e Enrollment) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if s.notifier != nil {
		err := s.notifier.Send(ctx, notify.Notification{
			StudentName:   e.StudentName,
			StudentEmail:  e.StudentEmail,
			ResourceTitle: e.ResourceTitle,
		})
		if err != nil {
			s.logger.Warn("enrollment notification failed", "enrollment_id", e.ID, "error", err)
		}
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, events.EnrollmentCreated{
			EnrollmentID:  e.ID,
			ResourceID:    e.ResourceID,
			ResourceTitle: e.ResourceTitle,
			StudentName:   e.StudentName,
			StudentEmail:  e.StudentEmail,
			EnrolledAt:    e.EnrolledAt,
		})
		if err != nil {
			s.logger.Warn("enrollment event publish failed", "enrollment_id", e.ID, "error", err)
		}
	}
}

func (s *service) List(ctx context.Context) ([]Enrollment, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) SetStatus(ctx context.Context, id string, status Status) error {
	if id == "" {
		return ErrInvalidInput
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *service) Remove(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Subscribe(ctx context.Context) (<-chan []Enrollment, error) {
	changes, err := s.repo.Watch(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make(chan []Enrollment, 1)
	go func() {
		defer close(snapshots)

		send := func() bool {
			list, err := s.repo.GetAll(ctx)
			if err != nil {
				s.logger.Warn("snapshot read failed", "error", err)
				return ctx.Err() == nil
			}
			select {
			case snapshots <- list:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				if !send() {
					return
				}
			}
		}
	}()
	return snapshots, nil
}

func validateSubmit(in SubmitInput) error {
	if strings.TrimSpace(in.StudentName) == "" {
		return fmt.Errorf("%w: studentName is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.StudentEmail) == "" {
		return fmt.Errorf("%w: studentEmail is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.StudentPhone) == "" {
		return fmt.Errorf("%w: studentPhone is required", ErrInvalidInput)
	}
	return nil
}

// Filter returns the enrollments whose student name or course title contains
// term, case-insensitively, preserving the original order. An empty term
// returns the list unchanged.
func Filter(list []Enrollment, term string) []Enrollment {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return list
	}

	filtered := make([]Enrollment, 0, len(list))
	for _, e := range list {
		if strings.Contains(strings.ToLower(e.StudentName), term) ||
			strings.Contains(strings.ToLower(e.ResourceTitle), term) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
