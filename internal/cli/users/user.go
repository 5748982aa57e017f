package users

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/validation"
)

type UserCmd struct {
	Add  UserAddCmd  `cmd:"" help:"Register a user by email."`
	List UserListCmd `cmd:"" help:"List users."`
}

type UserAddCmd struct {
	Email string `arg:"" help:"Email address of the new user."`
}

func (c *UserAddCmd) Run(ctx *cli.Context) error {
	email, err := validation.Email(c.Email)
	if err != nil {
		return err
	}

	user := models.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := ctx.Store.AddUser(user); err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}

	fmt.Printf("✓ Added user %s (ID: %s)\n", user.Email, user.ID)
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *cli.Context) error {
	users, err := ctx.Store.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	for _, u := range users {
		fmt.Printf("  %s  %s  (since %s)\n", u.ID, u.Email, u.CreatedAt.Local().Format("2006-01-02"))
	}
	return nil
}
