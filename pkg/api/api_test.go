package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"live-class-server/pkg/db"
)

type fakeStore struct {
	students map[string]db.Student
	courses  map[int64][]db.Course
	err      error
}

func (f *fakeStore) FetchStudentByCode(_ context.Context, code string) (db.Student, error) {
	if f.err != nil {
		return db.Student{}, f.err
	}
	s, ok := f.students[code]
	if !ok {
		return db.Student{}, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeStore) FetchCourses(_ context.Context, studentID int64) ([]db.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.courses[studentID], nil
}

func doLogin(t *testing.T, store Store, body string) (*httptest.ResponseRecorder, loginResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	LoginHandler(store)(rec, req)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestLoginHandler(t *testing.T) {
	store := &fakeStore{students: map[string]db.Student{
		"4021": {StudentID: 7, FirstName: "Sara", LastName: "Ahmadi"},
	}}

	t.Run("known code", func(t *testing.T) {
		rec, resp := doLogin(t, store, `{"studentCode": "4021"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Student)
		assert.Equal(t, int64(7), resp.Student.StudentID)
		assert.Equal(t, "Sara", resp.Student.FirstName)
	})

	t.Run("unknown code is success=false, not an error status", func(t *testing.T) {
		rec, resp := doLogin(t, store, `{"studentCode": "0000"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, resp.Success)
		assert.Nil(t, resp.Student)
		assert.NotEmpty(t, resp.Message)
	})

	t.Run("bad body", func(t *testing.T) {
		rec, resp := doLogin(t, store, `{"studentCode":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, resp.Success)
	})

	t.Run("store failure", func(t *testing.T) {
		rec, resp := doLogin(t, &fakeStore{err: errors.New("connection refused")}, `{"studentCode": "4021"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.False(t, resp.Success)
	})
}

func doCourses(t *testing.T, store Store, studentID string) (*httptest.ResponseRecorder, coursesResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/courses/"+studentID, nil)
	req.SetPathValue("studentId", studentID)
	rec := httptest.NewRecorder()
	CoursesHandler(store)(rec, req)

	var resp coursesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestCoursesHandler(t *testing.T) {
	store := &fakeStore{courses: map[int64][]db.Course{
		7: {
			{CourseName: "Signals", Instructor: "Dr. Karimi", ClassTime: "Mon 10:00", ClassLink: "/live-class.html"},
		},
	}}

	t.Run("enrolled student", func(t *testing.T) {
		rec, resp := doCourses(t, store, "7")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
		require.Len(t, resp.Courses, 1)
		assert.Equal(t, "Signals", resp.Courses[0].CourseName)
	})

	t.Run("no courses is an empty list, not null", func(t *testing.T) {
		rec, resp := doCourses(t, store, "99")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
		assert.NotNil(t, resp.Courses)
		assert.Empty(t, resp.Courses)
		assert.Contains(t, rec.Body.String(), `"courses":[]`)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rec, resp := doCourses(t, store, "abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, resp.Success)
	})

	t.Run("store failure", func(t *testing.T) {
		rec, resp := doCourses(t, &fakeStore{err: errors.New("connection refused")}, "7")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.False(t, resp.Success)
	})
}
