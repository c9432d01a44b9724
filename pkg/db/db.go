// Package db holds the student and course store backing the login and
// course-listing endpoints.
package db

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the connection pool for the student and course tables.
type Store struct {
	pool *pgxpool.Pool
}

// Student is the identity a login resolves to. JSON keys follow the column
// names the web client already reads.
type Student struct {
	StudentID int64  `json:"StudentID"`
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
}

type Course struct {
	CourseName string `json:"CourseName"`
	Instructor string `json:"Instructor"`
	ClassTime  string `json:"ClassTime"`
	ClassLink  string `json:"ClassLink"`
}

// Connect opens a pool against DATABASE_URL and verifies it is reachable.
func Connect(ctx context.Context) (*Store, error) {
	pool, err := pgxpool.New(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS students (
	studentid   BIGSERIAL PRIMARY KEY,
	studentcode TEXT NOT NULL UNIQUE,
	firstname   TEXT NOT NULL,
	lastname    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS courses (
	courseid   BIGSERIAL PRIMARY KEY,
	studentid  BIGINT NOT NULL REFERENCES students (studentid),
	coursename TEXT NOT NULL,
	instructor TEXT NOT NULL,
	classtime  TEXT NOT NULL,
	classlink  TEXT NOT NULL
);`

// Init creates the tables when they are missing.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// FetchStudentByCode looks a student up by login code. An unknown code
// surfaces as pgx.ErrNoRows.
func (s *Store) FetchStudentByCode(ctx context.Context, code string) (Student, error) {
	var (
		id    pgtype.Int8
		first pgtype.Text
		last  pgtype.Text
	)
	row := s.pool.QueryRow(ctx,
		`SELECT studentid, firstname, lastname FROM students WHERE studentcode = $1`, code)
	if err := row.Scan(&id, &first, &last); err != nil {
		return Student{}, err
	}
	return Student{StudentID: id.Int64, FirstName: first.String, LastName: last.String}, nil
}

// FetchCourses lists the courses a student is enrolled in.
func (s *Store) FetchCourses(ctx context.Context, studentID int64) ([]Course, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT coursename, instructor, classtime, classlink FROM courses WHERE studentid = $1`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []Course
	for rows.Next() {
		var name, instructor, classTime, classLink pgtype.Text
		if err := rows.Scan(&name, &instructor, &classTime, &classLink); err != nil {
			return nil, err
		}
		courses = append(courses, Course{
			CourseName: name.String,
			Instructor: instructor.String,
			ClassTime:  classTime.String,
			ClassLink:  classLink.String,
		})
	}
	return courses, rows.Err()
}
