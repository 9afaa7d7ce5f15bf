package users

import (
	"context"
	"database/sql"
	"errors"
)

var ErrNotFound = errors.New("users: not found")

type Store interface {
	Create(ctx context.Context, u User) error
	ByEmail(ctx context.Context, email string) (User, error)
	ByID(ctx context.Context, id string) (User, error)
	UpdateProfile(ctx context.Context, id, firstName, lastName, locale string) error
	Children(ctx context.Context, parentID string) ([]User, error)
	LinkChild(ctx context.Context, parentID, studentID string) error
	RoleCounts(ctx context.Context) (map[string]int, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const userCols = `id, email, password_hash, role, first_name, last_name, locale, created_at`

func (s *SQLStore) Create(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, first_name, last_name, locale, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		u.ID, u.Email, u.PasswordHash, u.Role, u.FirstName, u.LastName, u.Locale, u.CreatedAt)
	return err
}

func (s *SQLStore) ByEmail(ctx context.Context, email string) (User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email))
}

func (s *SQLStore) ByID(ctx context.Context, id string) (User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (s *SQLStore) scanOne(row *sql.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FirstName, &u.LastName, &u.Locale, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *SQLStore) UpdateProfile(ctx context.Context, id, firstName, lastName, locale string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET first_name=$1, last_name=$2, locale=$3 WHERE id=$4`,
		firstName, lastName, locale, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Children(ctx context.Context, parentID string) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.email, u.password_hash, u.role, u.first_name, u.last_name, u.locale, u.created_at
		 FROM users u
		 JOIN parent_students ps ON ps.student_id = u.id
		 WHERE ps.parent_id=$1 ORDER BY u.first_name`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FirstName, &u.LastName, &u.Locale, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLStore) LinkChild(ctx context.Context, parentID, studentID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO parent_students (parent_id, student_id) VALUES ($1,$2)
		 ON CONFLICT (parent_id, student_id) DO NOTHING`, parentID, studentID)
	return err
}

func (s *SQLStore) RoleCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		out[role] = n
	}
	return out, rows.Err()
}
