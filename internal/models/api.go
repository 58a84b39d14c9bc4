// internal/models/api.go
package models

import "github.com/google/uuid"

// Request and response payloads for the HTTP API.

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type CreateKeywordGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateKeywordGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateKeywordRequest struct {
	Name    string     `json:"name" binding:"required"`
	GroupID *uuid.UUID `json:"group_id"`
}

type UpdateKeywordRequest struct {
	Name    *string    `json:"name"`
	GroupID *uuid.UUID `json:"group_id"`
	Status  *int       `json:"status"`
}

type CreateProviderRequest struct {
	Name     string `json:"name" binding:"required"`
	APIURL   string `json:"api_url"`
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
	IsActive *bool  `json:"is_active"`
}

type UpdateProviderRequest struct {
	Name     *string `json:"name"`
	APIURL   *string `json:"api_url"`
	APIKey   *string `json:"api_key"`
	Model    *string `json:"model"`
	IsActive *bool   `json:"is_active"`
}

type CreateBrandProjectRequest struct {
	Name             string     `json:"name" binding:"required"`
	BrandName        string     `json:"brand_name" binding:"required"`
	BrandDescription string     `json:"brand_description"`
	KeywordsCount    *int       `json:"keywords_count"`
	GroupID          *uuid.UUID `json:"group_id"`
	Competitors      []string   `json:"competitors"`
}

type UpdateBrandProjectRequest struct {
	Name             *string    `json:"name"`
	BrandName        *string    `json:"brand_name"`
	BrandDescription *string    `json:"brand_description"`
	KeywordsCount    *int       `json:"keywords_count"`
	GroupID          *uuid.UUID `json:"group_id"`
	Competitors      []string   `json:"competitors"`
}

// BrandProjectResponse bundles a project with its tracked competitors.
type BrandProjectResponse struct {
	BrandProject
	Competitors []Competitor `json:"competitors"`
}
