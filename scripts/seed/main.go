package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/readgate/readgate/internal/app"
	"github.com/readgate/readgate/internal/platform/db"
	"github.com/readgate/readgate/internal/rbac"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS roles (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS permissions (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS role_permissions (
		role_id BIGINT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
		permission_id BIGINT NOT NULL REFERENCES permissions(id) ON DELETE CASCADE,
		PRIMARY KEY (role_id, permission_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role_id BIGINT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, role_id)
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id BIGSERIAL PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		category_id BIGINT NOT NULL REFERENCES categories(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		token_hash TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_expires_at ON refresh_tokens (expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_category_id ON articles (category_id)`,
}

type seedArticle struct {
	slug        string
	title       string
	description string
	content     string
}

var seedCategories = []struct {
	slug        string
	name        string
	description string
	articles    []seedArticle
}{
	{
		slug: "frontend", name: "Frontend",
		description: "Frontend engineering: JavaScript, Vue, React and tooling",
		articles: []seedArticle{
			{"vue3-composition-api", "A Complete Guide to the Vue 3 Composition API", "Patterns and best practices for the Composition API", "The Composition API offers a new way to organize and reuse component logic..."},
			{"react-hooks-tutorial", "React Hooks from Zero to Production", "Core concepts and practical usage of React Hooks", "Hooks let function components use state and other React features..."},
			{"javascript-es2024", "What's New in JavaScript ES2024", "A tour of the latest language additions", "ES2024 ships several long-awaited features, including new array methods..."},
		},
	},
	{
		slug: "backend", name: "Backend",
		description: "Backend engineering: services, frameworks and databases",
		articles: []seedArticle{
			{"laravel-best-practices", "Laravel Development Best Practices", "Common patterns for maintainable Laravel projects", "Following established conventions keeps a Laravel codebase easy to evolve..."},
			{"php-performance-optimization", "PHP Performance Optimization Techniques", "Practical ways to speed up PHP applications", "Performance work spans everything from opcode caching to query tuning..."},
			{"database-design-principles", "Database Design Principles and Normalization", "Foundations of sound relational schema design", "A well-normalized schema is the base every stable system is built on..."},
		},
	},
	{
		slug: "life", name: "Life",
		description: "Essays, reflections and travel notes",
		articles: []seedArticle{
			{"work-life-balance", "Work-Life Balance for Engineers", "Finding equilibrium in a demanding industry", "Sustaining a long career means treating rest as part of the job..."},
			{"remote-work-experience", "One Year of Remote Work", "Lessons from a year outside the office", "Remote work rearranges every habit you built around an office..."},
			{"tokyo-travel-guide", "A Complete Tokyo Travel Guide", "Sights, transit and food for a first visit", "Tokyo rewards wandering; this guide collects the essentials..."},
		},
	},
}

var roleGrants = map[string][]string{
	"normal": {
		"vue3-composition-api",
		"react-hooks-tutorial",
		"javascript-es2024",
	},
	"silver": {
		"vue3-composition-api",
		"react-hooks-tutorial",
		"javascript-es2024",
		"laravel-best-practices",
		"php-performance-optimization",
		"database-design-principles",
	},
	// admin and gold receive every article permission.
}

var seedUsers = []struct {
	name  string
	email string
	role  string
}{
	{"Admin User", "admin@example.com", "admin"},
	{"Normal User", "normal@example.com", "normal"},
	{"Silver User", "silver@example.com", "silver"},
	{"Gold User", "gold@example.com", "gold"},
}

func main() {
	ctx := context.Background()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		return seed(ctx, tx)
	}); err != nil {
		logger.Error("seed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("seed complete")
}

func seed(ctx context.Context, tx pgx.Tx) error {
	for _, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	var allSlugs []string
	for _, cat := range seedCategories {
		var categoryID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO categories (slug, name, description)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description
			RETURNING id
		`, cat.slug, cat.name, cat.description).Scan(&categoryID)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", cat.slug, err)
		}
		for _, article := range cat.articles {
			allSlugs = append(allSlugs, article.slug)
			_, err := tx.Exec(ctx, `
				INSERT INTO articles (slug, title, description, content, category_id)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (slug) DO NOTHING
			`, article.slug, article.title, article.description, article.content, categoryID)
			if err != nil {
				return fmt.Errorf("seed article %s: %w", article.slug, err)
			}
		}
	}

	// One permission per article, named article.<slug>.
	for _, slug := range allSlugs {
		_, err := tx.Exec(ctx, `
			INSERT INTO permissions (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
		`, rbac.ArticleName(slug))
		if err != nil {
			return fmt.Errorf("seed permission for %s: %w", slug, err)
		}
	}

	roleIDs := make(map[string]int64)
	for _, role := range []string{"admin", "normal", "silver", "gold"} {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO roles (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, role).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", role, err)
		}
		roleIDs[role] = id
	}

	for role, id := range roleIDs {
		grants, ok := roleGrants[role]
		if !ok {
			grants = allSlugs
		}
		for _, slug := range grants {
			_, err := tx.Exec(ctx, `
				INSERT INTO role_permissions (role_id, permission_id)
				SELECT $1, p.id FROM permissions p WHERE p.name = $2
				ON CONFLICT DO NOTHING
			`, id, rbac.ArticleName(slug))
			if err != nil {
				return fmt.Errorf("grant %s to %s: %w", slug, role, err)
			}
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	for _, user := range seedUsers {
		var userID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO users (name, email, password_hash)
			VALUES ($1, $2, $3)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, user.name, user.email, string(passwordHash)).Scan(&userID)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", user.email, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, userID, roleIDs[user.role])
		if err != nil {
			return fmt.Errorf("assign role to %s: %w", user.email, err)
		}
	}

	return nil
}
