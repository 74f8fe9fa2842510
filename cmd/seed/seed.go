package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"teamboard/internal/auth"
	"teamboard/internal/model"
	"teamboard/internal/repository"
)

const (
	minPasswordLength = 8
	bcryptCost        = 10
	demoTeamName      = "Core"
)

// SeedUser is one entry of the --users fixture file.
type SeedUser struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func loadUsers(path string) ([]SeedUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var users []SeedUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	return users, nil
}

// seedUsers creates or updates users by email. Seeded users are always
// approved and active.
func seedUsers(ctx context.Context, repo repository.UserRepository, users []SeedUser) (created, updated int, err error) {
	for _, u := range users {
		if !u.Role.Valid() {
			return created, updated, fmt.Errorf("user %s: invalid role %q", u.Email, u.Role)
		}
		if len(u.Password) < minPasswordLength {
			return created, updated, fmt.Errorf("user %s: password shorter than %d characters", u.Email, minPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcryptCost)
		if err != nil {
			return created, updated, fmt.Errorf("hash password for %s: %w", u.Email, err)
		}

		email := normalizeEmail(u.Email)
		existing, err := repo.FindByEmail(ctx, email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, updated, fmt.Errorf("check user %s: %w", email, err)
		}

		if existing != nil {
			existing.Name = u.Name
			existing.PasswordHash = string(hash)
			existing.Role = u.Role
			existing.Active = true
			existing.Approved = true
			if err := repo.Update(ctx, existing); err != nil {
				return created, updated, fmt.Errorf("update user %s: %w", email, err)
			}
			updated++
			continue
		}

		user := &model.User{
			Name:         u.Name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         u.Role,
			Active:       true,
			Approved:     true,
		}
		if err := repo.Create(ctx, user); err != nil {
			return created, updated, fmt.Errorf("create user %s: %w", email, err)
		}
		created++
	}
	return created, updated, nil
}

type demoRepos struct {
	teams    repository.TeamRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	goals    repository.GoalRepository
}

// seedDemo creates a sample team with one project, a few tasks and a goal.
// It does nothing when the demo team already exists.
func seedDemo(ctx context.Context, r demoRepos, admin *model.User) (bool, error) {
	_, err := r.teams.FindByName(ctx, demoTeamName)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("check demo team: %w", err)
	}

	team := &model.Team{Name: demoTeamName, Description: "Demo team", LeadID: &admin.ID}
	if err := r.teams.Create(ctx, team); err != nil {
		return false, fmt.Errorf("create demo team: %w", err)
	}
	if err := r.teams.AddMember(ctx, team, admin); err != nil {
		return false, fmt.Errorf("add demo team member: %w", err)
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	due := start.AddDate(0, 1, 0)
	project := &model.Project{
		Name:        "Launch",
		Description: "Demo project",
		Status:      model.ProjectStatusActive,
		OwnerID:     admin.ID,
		TeamID:      &team.ID,
		StartDate:   &start,
		DueDate:     &due,
		Budget:      decimal.NewFromInt(10000),
	}
	if err := r.projects.Create(ctx, project); err != nil {
		return false, fmt.Errorf("create demo project: %w", err)
	}

	tasks := []model.Task{
		{Title: "Write the plan", Status: model.TaskStatusDone, Priority: model.TaskPriorityHigh, EstimateHours: decimal.NewFromInt(4)},
		{Title: "Build the prototype", Status: model.TaskStatusInProgress, Priority: model.TaskPriorityUrgent, EstimateHours: decimal.NewFromInt(16)},
		{Title: "Collect feedback", Status: model.TaskStatusTodo, Priority: model.TaskPriorityMedium, EstimateHours: decimal.NewFromInt(6)},
	}
	for i := range tasks {
		tasks[i].ProjectID = project.ID
		tasks[i].CreatorID = admin.ID
		tasks[i].AssigneeID = &admin.ID
		if err := r.tasks.Create(ctx, &tasks[i]); err != nil {
			return false, fmt.Errorf("create demo task: %w", err)
		}
	}

	goal := &model.Goal{
		ProjectID:    project.ID,
		Title:        "Tasks completed",
		TargetValue:  decimal.NewFromInt(int64(len(tasks))),
		CurrentValue: decimal.NewFromInt(1),
		Unit:         "tasks",
		DueDate:      &due,
	}
	if err := r.goals.Create(ctx, goal); err != nil {
		return false, fmt.Errorf("create demo goal: %w", err)
	}
	return true, nil
}
