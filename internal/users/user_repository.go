package users

import (
	"context"
	"fmt"

	"shopfloor/internal/repository"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type UserRepository interface {
	PersistUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// FindConflict returns "email" or "username" when either is already registered, "" otherwise.
	FindConflict(ctx context.Context, email, username string) (string, error)
}

type userRepositoryImpl struct {
	repository *repository.Repository
}

func (r *userRepositoryImpl) PersistUser(ctx context.Context, user *models.User) error {
	query := r.repository.GoquDBWrapper.Insert("users").
		Rows(goqu.Record{
			"email":    user.Email,
			"username": user.Username,
			"password": user.PasswordHash,
			"mobile":   user.Mobile,
		}).
		Returning("id")

	if _, err := query.Executor().ScanValContext(ctx, &user.ID); err != nil {
		return custom_error.FromPQ(err, "failed to insert user")
	}

	return nil
}

func (r *userRepositoryImpl) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := r.repository.GoquDBWrapper.Select("id", "email", "username", "password", "mobile").
		From("users").
		Where(goqu.Ex{"username": username})

	found, err := query.Executor().ScanStructContext(ctx, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("User %s not found", username)
	}

	return &user, nil
}

func (r *userRepositoryImpl) FindConflict(ctx context.Context, email, username string) (string, error) {
	var taken []struct {
		Email    string `db:"email"`
		Username string `db:"username"`
	}
	query := r.repository.GoquDBWrapper.Select("email", "username").
		From("users").
		Where(goqu.Or(
			goqu.C("email").Eq(email),
			goqu.C("username").Eq(username),
		))

	if err := query.Executor().ScanStructsContext(ctx, &taken); err != nil {
		return "", fmt.Errorf("error executing SQL statement: %w", err)
	}

	for _, u := range taken {
		if u.Email == email {
			return "email", nil
		}
	}
	if len(taken) > 0 {
		return "username", nil
	}
	return "", nil
}

func NewRepository(r *repository.Repository) UserRepository {
	return &userRepositoryImpl{repository: r}
}
