package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fintrack/internal/auth"
	"fintrack/internal/errors"
	"fintrack/internal/repository"
	"fintrack/internal/service"
)

// SeedEntry is an expense or income in the seed file. Kind is the category or source.
type SeedEntry struct {
	Date        *time.Time `json:"date"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	Kind        string     `json:"kind"`
}

// SeedUser is one account in the seed file together with its entries.
type SeedUser struct {
	Username string      `json:"username"`
	FullName string      `json:"fullname"`
	Password string      `json:"password"`
	Expenses []SeedEntry `json:"expenses"`
	Incomes  []SeedEntry `json:"incomes"`
}

type seedStats struct {
	UsersCreated int
	UsersSkipped int
	Expenses     int
	Incomes      int
}

type seeder struct {
	db            *gorm.DB
	hasher        *auth.PasswordHasher
	tokens        *auth.JWTService
	identities    *service.IdentityCache
	adminUsername string
	log           *zap.Logger
}

type seedServices struct {
	users    repository.UserRepository
	auth     service.AuthService
	expenses service.ExpenseService
	incomes  service.IncomeService
}

// servicesOn builds the services on db, which may be a transaction.
func (s *seeder) servicesOn(db *gorm.DB) seedServices {
	users := repository.NewUserRepository(db)
	return seedServices{
		users:    users,
		auth:     service.NewAuthService(users, s.hasher, s.tokens, nil, s.log, s.adminUsername),
		expenses: service.NewExpenseService(repository.NewExpenseRepository(db)),
		incomes:  service.NewIncomeService(repository.NewIncomeRepository(db)),
	}
}

// seedAdmin creates the admin account, or promotes and re-enables it when it already
// exists. A non-empty password replaces the stored one. The cached identity of an
// existing account is replaced so that a running server sees the change at once.
func (s *seeder) seedAdmin(ctx context.Context, username, fullName, password string) (bool, error) {
	username = service.NormalizeUsername(username)
	svc := s.servicesOn(s.db)

	existing, err := svc.users.FindByUsername(ctx, username)
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("check admin: %w", err)
	}

	if existing == nil {
		if password == "" {
			return false, stderrors.New("ADMIN_PASSWORD is required to create the admin account")
		}
		if fullName == "" {
			fullName = "Administrator"
		}
		if _, err := svc.auth.Register(ctx, username, fullName, password); err != nil {
			return false, err
		}
		return true, nil
	}

	existing.Role = auth.RoleAdmin
	existing.Disabled = false
	if fullName != "" {
		existing.FullName = fullName
	}
	if password != "" {
		hashed, err := s.hasher.Hash(password)
		if err != nil {
			return false, err
		}
		existing.Password = hashed
	}
	if err := svc.users.Update(ctx, existing); err != nil {
		return false, fmt.Errorf("update admin: %w", err)
	}
	if err := s.identities.Put(ctx, existing.Identity()); err != nil {
		return false, err
	}
	return false, nil
}

// seedUsers registers every user not yet present and records their entries.
// Each user is written in one transaction together with their entries, so a bad
// entry leaves nothing behind and a rerun retries the whole user.
// Users that already exist are skipped along with their entries.
func (s *seeder) seedUsers(ctx context.Context, users []SeedUser) (seedStats, error) {
	var stats seedStats
	for _, u := range users {
		var expenses, incomes int
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			svc := s.servicesOn(tx)
			user, err := svc.auth.Register(ctx, u.Username, u.FullName, u.Password)
			if err != nil {
				return err
			}

			owner := user.Identity()
			for n, e := range u.Expenses {
				in := service.ExpenseInput{Amount: e.Amount, Description: e.Description, Category: e.Kind}
				if e.Date != nil {
					in.Date = *e.Date
				}
				if _, err := svc.expenses.Create(ctx, owner, in); err != nil {
					return fmt.Errorf("expense %d: %w", n, err)
				}
				expenses++
			}
			for n, i := range u.Incomes {
				in := service.IncomeInput{Amount: i.Amount, Description: i.Description, Source: i.Kind}
				if i.Date != nil {
					in.Date = *i.Date
				}
				if _, err := svc.incomes.Create(ctx, owner, in); err != nil {
					return fmt.Errorf("income %d: %w", n, err)
				}
				incomes++
			}
			return nil
		})
		if err != nil {
			if stderrors.Is(err, errors.ErrConflict) {
				s.log.Info("user exists, skipping", zap.String("username", u.Username))
				stats.UsersSkipped++
				continue
			}
			return stats, fmt.Errorf("seed %q: %w", u.Username, err)
		}

		stats.UsersCreated++
		stats.Expenses += expenses
		stats.Incomes += incomes
	}
	return stats, nil
}

// loadSeedUsers reads seed data from a local file or an http(s) URL.
func loadSeedUsers(ctx context.Context, source string) ([]SeedUser, error) {
	var body io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch seed data: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
		}
		body = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		body = f
	}
	defer body.Close()

	var users []SeedUser
	if err := json.NewDecoder(body).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}
