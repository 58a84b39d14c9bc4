// internal/models/models.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status values for soft-deletable rows.
const (
	StatusDeleted = 0
	StatusActive  = 1
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Status       int       `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type KeywordGroup struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Keyword struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	GroupID   *uuid.UUID `db:"group_id" json:"group_id"`
	Status    int        `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// LLMProvider is a configured answer source. The API key column may be
// empty, in which case the key from the environment is used instead.
type LLMProvider struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	APIURL   string    `db:"api_url" json:"api_url"`
	APIKey   string    `db:"api_key" json:"-"`
	Model    string    `db:"model" json:"model"`
	IsActive bool      `db:"is_active" json:"is_active"`
}

// SerpResult is one stored answer for a (keyword, provider) pair.
type SerpResult struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Content    string    `db:"content" json:"content"`
	ProviderID uuid.UUID `db:"provider_id" json:"provider_id"`
	KeywordID  uuid.UUID `db:"keyword_id" json:"keyword_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SerpCompany is a company or brand name extracted from a SerpResult.
type SerpCompany struct {
	ID     uuid.UUID  `db:"id" json:"id"`
	Name   string     `db:"name" json:"name"`
	SerpID *uuid.UUID `db:"serp_id" json:"serp_id"`
}

type BrandProject struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	BrandName        string     `db:"brand_name" json:"brand_name"`
	BrandDescription string     `db:"brand_description" json:"brand_description"`
	KeywordsCount    int        `db:"keywords_count" json:"keywords_count"`
	GroupID          *uuid.UUID `db:"group_id" json:"group_id"`
	UserID           uuid.UUID  `db:"user_id" json:"user_id"`
	Status           int        `db:"status" json:"status"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

type Competitor struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ProjectID uuid.UUID `db:"project_id" json:"project_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BrandMention is one analyzed (serp, project) observation. When the
// project tracks competitors there is one row per competitor; a project
// without competitors gets a single brand-only row.
type BrandMention struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	SerpID              uuid.UUID `db:"serp_id" json:"serp_id"`
	ProjectID           uuid.UUID `db:"project_id" json:"project_id"`
	BrandMentioned      bool      `db:"brand_mentioned" json:"brand_mentioned"`
	CompetitorMentioned bool      `db:"competitor_mentioned" json:"competitor_mentioned"`
	MentionedCompetitor *string   `db:"mentioned_competitor" json:"mentioned_competitor"`
	BrandPosition       *int      `db:"brand_position" json:"brand_position"`
	CompetitorPosition  *int      `db:"competitor_position" json:"competitor_position"`
	Confidence          int       `db:"confidence" json:"confidence"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}
