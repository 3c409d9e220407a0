package students

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-hostel-server/store"
	"github.com/pkg/errors"
)

var ErrNotFound = store.ErrNotFound

type Repo interface {
	Create(ctx context.Context, student *Student) error
	GetByStudentID(ctx context.Context, studentID string) (*Student, error)
	GetByEmail(ctx context.Context, email string) (*Student, error)
	List(ctx context.Context) ([]*Student, error)

	PutPending(ctx context.Context, pending *Pending) error
	GetPending(ctx context.Context, email string) (*Pending, error)
	DeletePending(ctx context.Context, email string) error
}

var _ Repo = (*KVRepo)(nil)

// KVRepo stores students by student ID with an email index, and pending signups by
// email.
type KVRepo struct {
	students *store.Collection[Student]
	emails   *store.Collection[string]
	pending  *store.Collection[Pending]
}

func NewKVRepo(kv store.KV) *KVRepo {
	return &KVRepo{
		students: store.NewCollection[Student](kv, "student"),
		emails:   store.NewCollection[string](kv, "student_email"),
		pending:  store.NewCollection[Pending](kv, "pending_student"),
	}
}

func studentKey(studentID string) string {
	return strings.ToUpper(strings.TrimSpace(studentID))
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *KVRepo) Create(ctx context.Context, student *Student) error {
	if student.ID == "" {
		student.ID = uuid.New().String()
	}
	if err := r.students.Put(ctx, studentKey(student.StudentID), student); err != nil {
		return errors.Wrap(err, "[students Create] failed to store student")
	}
	id := studentKey(student.StudentID)
	if err := r.emails.Put(ctx, emailKey(student.Email), &id); err != nil {
		return errors.Wrap(err, "[students Create] failed to index email")
	}
	return nil
}

func (r *KVRepo) GetByStudentID(ctx context.Context, studentID string) (*Student, error) {
	return r.students.Get(ctx, studentKey(studentID))
}

func (r *KVRepo) GetByEmail(ctx context.Context, email string) (*Student, error) {
	id, err := r.emails.Get(ctx, emailKey(email))
	if err != nil {
		return nil, err
	}
	return r.students.Get(ctx, *id)
}

func (r *KVRepo) List(ctx context.Context) ([]*Student, error) {
	list, err := r.students.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].StudentID < list[j].StudentID
	})
	return list, nil
}

func (r *KVRepo) PutPending(ctx context.Context, pending *Pending) error {
	return r.pending.Put(ctx, emailKey(pending.Email), pending)
}

func (r *KVRepo) GetPending(ctx context.Context, email string) (*Pending, error) {
	return r.pending.Get(ctx, emailKey(email))
}

func (r *KVRepo) DeletePending(ctx context.Context, email string) error {
	err := r.pending.Delete(ctx, emailKey(email))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}
