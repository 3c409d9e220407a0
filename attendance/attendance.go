// Package attendance records the daily hostel check-in of each student.
package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
	"github.com/jrsteele09/go-hostel-server/store"
	"github.com/jrsteele09/go-hostel-server/students"
	"github.com/pkg/errors"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

type Entry struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	Date        string    `json:"date"`
	CheckedInAt time.Time `json:"checkedInAt"`
}

// Report is the attendance of every registered student on one day.
type Report struct {
	Date    string            `json:"date"`
	Present []Entry           `json:"present"`
	Absent  []students.Public `json:"absent"`
}

type Service struct {
	mu       sync.Mutex
	entries  *store.Collection[Entry]
	students students.Repo
	location *time.Location
	nowFunc  func() time.Time
}

type ServiceOption func(*Service)

func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

// WithLocation sets the time zone that decides which day a check-in belongs to.
func WithLocation(loc *time.Location) ServiceOption {
	return func(s *Service) {
		s.location = loc
	}
}

func NewService(kv store.KV, repo students.Repo, options ...ServiceOption) *Service {
	s := &Service{
		entries:  store.NewCollection[Entry](kv, "attendance"),
		students: repo,
		location: time.UTC,
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// CheckIn marks the student present for today. A second check-in on the same
// day returns ErrAlreadyCheckedIn.
func (s *Service) CheckIn(ctx context.Context, studentID string) (*Entry, error) {
	now := s.nowFunc().In(s.location)
	date := now.Format(DateLayout)
	id := store.GroupID(studentID, date)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.entries.Get(ctx, id)
	if err == nil {
		return nil, apperrors.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(err, "[CheckIn] failed to load entry")
	}

	entry := &Entry{
		ID:          uuid.New().String(),
		StudentID:   studentID,
		Date:        date,
		CheckedInAt: now,
	}
	if err := s.entries.Put(ctx, id, entry); err != nil {
		return nil, errors.Wrap(err, "[CheckIn] failed to store entry")
	}
	return entry, nil
}

// History lists a student's check-ins, most recent first.
func (s *Service) History(ctx context.Context, studentID string) ([]Entry, error) {
	list, err := s.entries.ListGroup(ctx, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "[History] failed to list entries")
	}
	out := make([]Entry, 0, len(list))
	for _, e := range list {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// Report splits the registered students into present and absent for date. An
// empty date means today.
func (s *Service) Report(ctx context.Context, date string) (*Report, error) {
	if date == "" {
		date = s.nowFunc().In(s.location).Format(DateLayout)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}

	all, err := s.entries.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Report] failed to list entries")
	}
	present := map[string]Entry{}
	for _, e := range all {
		if e.Date == date {
			present[e.StudentID] = *e
		}
	}

	registered, err := s.students.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Report] failed to list students")
	}

	report := &Report{Date: date, Present: []Entry{}, Absent: []students.Public{}}
	for _, st := range registered {
		if e, ok := present[st.StudentID]; ok {
			report.Present = append(report.Present, e)
			continue
		}
		report.Absent = append(report.Absent, st.Public())
	}
	sort.Slice(report.Present, func(i, j int) bool {
		return report.Present[i].CheckedInAt.Before(report.Present[j].CheckedInAt)
	})
	return report, nil
}
