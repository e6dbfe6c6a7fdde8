package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/budget"
)

type categoryResponse struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Kind      budget.CategoryKind `json:"kind"`
	Allocated decimal.Decimal     `json:"allocated"`
	Spent     decimal.Decimal     `json:"spent"`
}

type budgetResponse struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Period         budget.Period      `json:"period"`
	StartDate      time.Time          `json:"start_date"`
	EndDate        time.Time          `json:"end_date"`
	Categories     []categoryResponse `json:"categories"`
	TotalAllocated decimal.Decimal    `json:"total_allocated"`
	Description    string             `json:"description,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func toResponse(b *budget.Budget) budgetResponse {
	categories := make([]categoryResponse, len(b.Categories))
	for i, c := range b.Categories {
		categories[i] = categoryResponse{
			ID:        c.ID,
			Name:      c.Name,
			Kind:      c.Kind,
			Allocated: c.Allocated,
			Spent:     c.Spent,
		}
	}

	return budgetResponse{
		ID:             b.ID,
		Name:           b.Name,
		Period:         b.Period,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		Categories:     categories,
		TotalAllocated: b.TotalAllocated,
		Description:    b.Description,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toResponseList(budgets []*budget.Budget) []budgetResponse {
	resp := make([]budgetResponse, len(budgets))
	for i, b := range budgets {
		resp[i] = toResponse(b)
	}

	return resp
}
