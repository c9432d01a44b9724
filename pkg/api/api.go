// Package api serves the student login and course-listing endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"

	"live-class-server/pkg/db"
)

// Store is the student and course lookup the handlers need.
type Store interface {
	FetchStudentByCode(ctx context.Context, code string) (db.Student, error)
	FetchCourses(ctx context.Context, studentID int64) ([]db.Course, error)
}

type loginRequest struct {
	StudentCode string `json:"studentCode"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	Student *db.Student `json:"student,omitempty"`
	Message string      `json:"message,omitempty"`
}

type coursesResponse struct {
	Success bool        `json:"success"`
	Courses []db.Course `json:"courses"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// LoginHandler resolves a student code to the student's identity and name.
// An unknown code is a successful request with success=false; that is what
// the login page expects.
func LoginHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, loginResponse{Message: "invalid request body"})
			return
		}
		student, err := store.FetchStudentByCode(r.Context(), req.StudentCode)
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusOK, loginResponse{Message: "student code not recognized"})
			return
		}
		if err != nil {
			slog.Error("login lookup failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, loginResponse{Message: "server error"})
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{Success: true, Student: &student})
	}
}

// CoursesHandler lists the courses for one student.
func CoursesHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := strconv.ParseInt(r.PathValue("studentId"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, coursesResponse{Message: "invalid student id"})
			return
		}
		courses, err := store.FetchCourses(r.Context(), studentID)
		if err != nil {
			slog.Error("course lookup failed", "studentId", studentID, "error", err)
			writeJSON(w, http.StatusInternalServerError, coursesResponse{Message: "server error"})
			return
		}
		if courses == nil {
			courses = []db.Course{}
		}
		writeJSON(w, http.StatusOK, coursesResponse{Success: true, Courses: courses})
	}
}
