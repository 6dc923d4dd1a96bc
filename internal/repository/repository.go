package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"

	"user-service/internal/entity"
)

// ErrDuplicateEmail is returned when an insert or update trips the unique
// index on users.email. The service layer maps it to a conflict.
var ErrDuplicateEmail = errors.New("duplicate email")

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	query := `SELECT id, name, email, created_at FROM users`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []entity.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

// FindByID returns (nil, nil) when no row matches.
func (r *UserRepository) FindByID(ctx context.Context, id int) (*entity.User, error) {
	query := `SELECT id, name, email, created_at FROM users WHERE id = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

// FindByEmail returns (nil, nil) when no row matches. Comparison is the
// store's byte-exact equality on the email column.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT id, name, email, created_at FROM users WHERE email = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) Create(ctx context.Context, data entity.NewUser) (*entity.User, error) {
	query := `INSERT INTO users (name, email) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, data.Name, data.Email)
	if err != nil {
		return nil, translateErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	// Re-query so the row carries the created_at default assigned by the DB.
	return r.FindByID(ctx, int(id))
}

// Update applies only the fields present in the patch and returns the updated
// row, or (nil, nil) when no row with that id exists. An empty patch is a
// plain read.
func (r *UserRepository) Update(ctx context.Context, id int, patch entity.UserPatch) (*entity.User, error) {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *patch.Email)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}
	args = append(args, id)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}

	return r.FindByID(ctx, id)
}

// Delete reports whether a row was removed.
func (r *UserRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*entity.User, error) {
	var user entity.User
	var createdAt sql.NullString
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &createdAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		user.CreatedAt = &createdAt.String
	}
	return &user, nil
}

func translateErr(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicateEmail
	}
	return err
}
