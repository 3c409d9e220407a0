package students_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-hostel-server/store"
	"github.com/jrsteele09/go-hostel-server/students"
	"github.com/stretchr/testify/require"
)

func TestKVRepo_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	r := students.NewKVRepo(store.NewMemory())

	s := &students.Student{StudentID: "cs2024001", Name: "Jane Doe", Email: "Jane@X.com"}
	require.NoError(t, r.Create(ctx, s))
	require.NotEmpty(t, s.ID)

	got, err := r.GetByStudentID(ctx, "CS2024001")
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", got.Name)

	got, err = r.GetByEmail(ctx, "jane@x.com")
	require.NoError(t, err)
	require.Equal(t, s.ID, got.ID)

	_, err = r.GetByStudentID(ctx, "nobody")
	require.ErrorIs(t, err, students.ErrNotFound)
}

func TestKVRepo_ListIsSorted(t *testing.T) {
	ctx := context.Background()
	r := students.NewKVRepo(store.NewMemory())
	require.NoError(t, r.Create(ctx, &students.Student{StudentID: "B-2", Email: "b@x.com"}))
	require.NoError(t, r.Create(ctx, &students.Student{StudentID: "A-1", Email: "a@x.com"}))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "A-1", list[0].StudentID)
}

func TestKVRepo_Pending(t *testing.T) {
	ctx := context.Background()
	r := students.NewKVRepo(store.NewMemory())

	p := &students.Pending{Email: "jane@x.com", StudentID: "CS2024001", Name: "Jane Doe", PasswordHash: "hash"}
	require.NoError(t, r.PutPending(ctx, p))

	got, err := r.GetPending(ctx, "JANE@x.com")
	require.NoError(t, err)
	require.Equal(t, "CS2024001", got.StudentID)

	now := time.Now()
	student := got.Student("id-1", now)
	require.Equal(t, "hash", student.PasswordHash)
	require.Equal(t, now, student.CreatedAt)

	require.NoError(t, r.DeletePending(ctx, "jane@x.com"))
	require.NoError(t, r.DeletePending(ctx, "jane@x.com"))
	_, err = r.GetPending(ctx, "jane@x.com")
	require.ErrorIs(t, err, students.ErrNotFound)
}

func TestStudent_PublicOmitsPasswordHash(t *testing.T) {
	s := &students.Student{StudentID: "A-1", PasswordHash: "secret"}
	p := s.Public()
	require.Equal(t, "A-1", p.StudentID)
}
