package ports

import (
	"context"
	"time"

	"github.com/hoardly/dashboard/internal/core/domain"
)

// Page carries optional paging parameters shared by the list endpoints.
type Page struct {
	Page  int `url:"page,omitempty" query:"page"`
	Limit int `url:"limit,omitempty" query:"limit"`
}

type HoardingFilter struct {
	Status   string `url:"status,omitempty" query:"status"`
	Location string `url:"location,omitempty" query:"location"`
	Page
}

type HoardingInput struct {
	Name          string              `json:"name" validate:"required"`
	Location      string              `json:"location" validate:"required"`
	City          string              `json:"city,omitempty"`
	Size          string              `json:"size,omitempty"`
	Type          string              `json:"type,omitempty"`
	Illuminated   bool                `json:"illuminated"`
	Status        string              `json:"status,omitempty" validate:"omitempty,oneof=available booked maintenance"`
	PricePerMonth float64             `json:"pricePerMonth" validate:"gte=0"`
	Coordinates   *domain.Coordinates `json:"coordinates,omitempty"`
}

// HoardingAPI is the backend surface for billboards.
type HoardingAPI interface {
	List(ctx context.Context, f HoardingFilter) (domain.Result[[]domain.Hoarding], error)
	Get(ctx context.Context, id string) (domain.Result[domain.Hoarding], error)
	Create(ctx context.Context, in HoardingInput) (*domain.Hoarding, error)
	Update(ctx context.Context, id string, in HoardingInput) (*domain.Hoarding, error)
	Delete(ctx context.Context, id string) error
}

type ContractFilter struct {
	ClientID   string `url:"clientId,omitempty" query:"clientId"`
	HoardingID string `url:"hoardingId,omitempty" query:"hoardingId"`
	Status     string `url:"status,omitempty" query:"status"`
	Page
}

type ContractInput struct {
	ClientID   string    `json:"clientId" validate:"required"`
	HoardingID string    `json:"hoardingId" validate:"required"`
	StartDate  time.Time `json:"startDate" validate:"required"`
	EndDate    time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	Value      float64   `json:"value" validate:"gte=0"`
	Status     string    `json:"status,omitempty" validate:"omitempty,oneof=pending active expired terminated"`
	Terms      string    `json:"terms,omitempty"`
}

// ContractAPI is the backend surface for leases.
type ContractAPI interface {
	List(ctx context.Context, f ContractFilter) (domain.Result[[]domain.Contract], error)
	ListForClient(ctx context.Context) (domain.Result[[]domain.Contract], error)
	Get(ctx context.Context, id string) (domain.Result[domain.Contract], error)
	Create(ctx context.Context, in ContractInput) (*domain.Contract, error)
	Update(ctx context.Context, id string, in ContractInput) (*domain.Contract, error)
	Delete(ctx context.Context, id string) error
}

type BillingFilter struct {
	ClientID   string `url:"clientId,omitempty" query:"clientId"`
	ContractID string `url:"contractId,omitempty" query:"contractId"`
	Status     string `url:"status,omitempty" query:"status"`
	Page
}

type BillingInput struct {
	ContractID string    `json:"contractId" validate:"required"`
	Amount     float64   `json:"amount" validate:"gt=0"`
	DueDate    time.Time `json:"dueDate" validate:"required"`
}

// BillingAPI is the backend surface for invoices.
type BillingAPI interface {
	List(ctx context.Context, f BillingFilter) (domain.Result[[]domain.Billing], error)
	ListForClient(ctx context.Context) (domain.Result[[]domain.Billing], error)
	Get(ctx context.Context, id string) (domain.Result[domain.Billing], error)
	Create(ctx context.Context, in BillingInput) (*domain.Billing, error)
	UpdateStatus(ctx context.Context, id string, status domain.BillingStatus) (*domain.Billing, error)
	Delete(ctx context.Context, id string) error
}

type PhotoFilter struct {
	HoardingID     string `url:"hoardingId,omitempty" query:"hoardingId"`
	AssignmentID   string `url:"assignmentId,omitempty" query:"assignmentId"`
	PhotographerID string `url:"photographerId,omitempty" query:"photographerId"`
	Page
}

// PhotoAPI is the backend surface for assignment photos.
type PhotoAPI interface {
	List(ctx context.Context, f PhotoFilter) (domain.Result[[]domain.Photo], error)
	ListForClient(ctx context.Context) (domain.Result[[]domain.Photo], error)
	ListForPhotographer(ctx context.Context) (domain.Result[[]domain.Photo], error)
	Get(ctx context.Context, id string) (domain.Result[domain.Photo], error)
	Delete(ctx context.Context, id string) error
}

type AssignmentFilter struct {
	PhotographerID string `url:"photographerId,omitempty" query:"photographerId"`
	HoardingID     string `url:"hoardingId,omitempty" query:"hoardingId"`
	Status         string `url:"status,omitempty" query:"status"`
	Page
}

type AssignmentInput struct {
	HoardingID     string    `json:"hoardingId" validate:"required"`
	PhotographerID string    `json:"photographerId" validate:"required"`
	DueDate        time.Time `json:"dueDate" validate:"required"`
	Notes          string    `json:"notes,omitempty"`
}

// AssignmentAPI is the backend surface for photographer assignments.
type AssignmentAPI interface {
	List(ctx context.Context, f AssignmentFilter) (domain.Result[[]domain.Assignment], error)
	ListForPhotographer(ctx context.Context) (domain.Result[[]domain.Assignment], error)
	Get(ctx context.Context, id string) (domain.Result[domain.Assignment], error)
	Create(ctx context.Context, in AssignmentInput) (*domain.Assignment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AssignmentStatus) (*domain.Assignment, error)
	Delete(ctx context.Context, id string) error
}

type ClientInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Address     string `json:"address,omitempty"`
}

// ClientAPI is the backend surface for client companies.
type ClientAPI interface {
	List(ctx context.Context, p Page) (domain.Result[[]domain.Client], error)
	Get(ctx context.Context, id string) (domain.Result[domain.Client], error)
	Create(ctx context.Context, in ClientInput) (*domain.Client, error)
	Update(ctx context.Context, id string, in ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}

// UserAPI is the backend surface for accounts other than the current session.
type UserAPI interface {
	List(ctx context.Context, role domain.Role) (domain.Result[[]domain.User], error)
	Get(ctx context.Context, id string) (domain.Result[domain.User], error)
	UpdateProfile(ctx context.Context, user domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// SearchParams are the query-string filters of the search endpoint.
type SearchParams struct {
	Query  string `url:"query" query:"query"`
	Type   string `url:"type,omitempty" query:"type"`
	Status string `url:"status,omitempty" query:"status"`
	From   string `url:"from,omitempty" query:"from"`
	To     string `url:"to,omitempty" query:"to"`
	Limit  int    `url:"limit,omitempty" query:"limit"`
	// Quiet skips the error notification for callers that report the
	// failure themselves.
	Quiet  bool   `url:"-" query:"-"`
}

// SearchAPI is the backend's grouped search endpoint.
type SearchAPI interface {
	Search(ctx context.Context, p SearchParams) (domain.Result[domain.SearchResultSet], error)
}
