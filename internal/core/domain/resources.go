package domain

import (
	"errors"
	"time"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// HoardingStatus is the availability of a billboard.
type HoardingStatus string

const (
	HoardingAvailable   HoardingStatus = "available"
	HoardingBooked      HoardingStatus = "booked"
	HoardingMaintenance HoardingStatus = "maintenance"
)

// Hoarding is a physical billboard structure, the leased asset.
type Hoarding struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Location      string         `json:"location"`
	City          string         `json:"city,omitempty"`
	Size          string         `json:"size,omitempty"`
	Type          string         `json:"type,omitempty"`
	Illuminated   bool           `json:"illuminated"`
	Status        HoardingStatus `json:"status"`
	PricePerMonth float64        `json:"pricePerMonth"`
	Coordinates   *Coordinates   `json:"coordinates,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func (h Hoarding) Summary() HoardingSummary {
	return HoardingSummary{ID: h.ID, Name: h.Name, Location: h.Location, Status: h.Status}
}

type HoardingSummary struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Location string         `json:"location"`
	Status   HoardingStatus `json:"status"`
}

type ContractStatus string

const (
	ContractPending    ContractStatus = "pending"
	ContractActive     ContractStatus = "active"
	ContractExpired    ContractStatus = "expired"
	ContractTerminated ContractStatus = "terminated"
)

// Contract leases a hoarding to a client for a period.
type Contract struct {
	ID             string         `json:"id"`
	ContractNumber string         `json:"contractNumber"`
	ClientID       string         `json:"clientId"`
	ClientName     string         `json:"clientName"`
	HoardingID     string         `json:"hoardingId"`
	HoardingName   string         `json:"hoardingName"`
	StartDate      time.Time      `json:"startDate"`
	EndDate        time.Time      `json:"endDate"`
	Value          float64        `json:"value"`
	Status         ContractStatus `json:"status"`
	Terms          string         `json:"terms,omitempty"`
}

func (c Contract) Summary() ContractSummary {
	return ContractSummary{ID: c.ID, ContractNumber: c.ContractNumber, ClientName: c.ClientName, HoardingName: c.HoardingName, Status: c.Status}
}

type ContractSummary struct {
	ID             string         `json:"id"`
	ContractNumber string         `json:"contractNumber"`
	ClientName     string         `json:"clientName"`
	HoardingName   string         `json:"hoardingName"`
	Status         ContractStatus `json:"status"`
}

type BillingStatus string

const (
	BillingPending   BillingStatus = "pending"
	BillingPaid      BillingStatus = "paid"
	BillingOverdue   BillingStatus = "overdue"
	BillingCancelled BillingStatus = "cancelled"
)

var billingTransitions = map[BillingStatus][]BillingStatus{
	BillingPending: {BillingPaid, BillingOverdue, BillingCancelled},
	BillingOverdue: {BillingPaid, BillingCancelled},
}

// CanTransitionTo reports whether a billing may move from s to next.
func (s BillingStatus) CanTransitionTo(next BillingStatus) bool {
	for _, allowed := range billingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Billing is an invoice raised against a contract.
type Billing struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	ContractID    string        `json:"contractId"`
	ClientID      string        `json:"clientId"`
	ClientName    string        `json:"clientName"`
	Amount        float64       `json:"amount"`
	DueDate       time.Time     `json:"dueDate"`
	Status        BillingStatus `json:"status"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
}

func (b Billing) Summary() BillingSummary {
	return BillingSummary{ID: b.ID, InvoiceNumber: b.InvoiceNumber, ClientName: b.ClientName, Amount: b.Amount, Status: b.Status}
}

type BillingSummary struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	ClientName    string        `json:"clientName"`
	Amount        float64       `json:"amount"`
	Status        BillingStatus `json:"status"`
}

type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "pending"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentCancelled  AssignmentStatus = "cancelled"
)

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentPending:    {AssignmentInProgress, AssignmentCancelled},
	AssignmentInProgress: {AssignmentCompleted, AssignmentCancelled},
}

// CanTransitionTo reports whether an assignment may move from s to next.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	for _, allowed := range assignmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Assignment directs a photographer to photograph a hoarding by a due date.
type Assignment struct {
	ID               string           `json:"id"`
	HoardingID       string           `json:"hoardingId"`
	HoardingName     string           `json:"hoardingName"`
	PhotographerID   string           `json:"photographerId"`
	PhotographerName string           `json:"photographerName"`
	DueDate          time.Time        `json:"dueDate"`
	Status           AssignmentStatus `json:"status"`
	Notes            string           `json:"notes,omitempty"`
}

func (a Assignment) Summary() AssignmentSummary {
	return AssignmentSummary{ID: a.ID, HoardingName: a.HoardingName, PhotographerName: a.PhotographerName, DueDate: a.DueDate, Status: a.Status}
}

type AssignmentSummary struct {
	ID               string           `json:"id"`
	HoardingName     string           `json:"hoardingName"`
	PhotographerName string           `json:"photographerName"`
	DueDate          time.Time        `json:"dueDate"`
	Status           AssignmentStatus `json:"status"`
}

// Photo is an image uploaded by a photographer for an assignment.
type Photo struct {
	ID               string    `json:"id"`
	HoardingID       string    `json:"hoardingId"`
	HoardingName     string    `json:"hoardingName"`
	AssignmentID     string    `json:"assignmentId,omitempty"`
	PhotographerID   string    `json:"photographerId"`
	PhotographerName string    `json:"photographerName"`
	URL              string    `json:"url"`
	Caption          string    `json:"caption,omitempty"`
	UploadedAt       time.Time `json:"uploadedAt"`
}

func (p Photo) Summary() PhotoSummary {
	return PhotoSummary{ID: p.ID, HoardingName: p.HoardingName, PhotographerName: p.PhotographerName, UploadedAt: p.UploadedAt}
}

type PhotoSummary struct {
	ID               string    `json:"id"`
	HoardingName     string    `json:"hoardingName"`
	PhotographerName string    `json:"photographerName"`
	UploadedAt       time.Time `json:"uploadedAt"`
}

// Client is a company leasing hoardings.
type Client struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	CompanyName     string `json:"companyName,omitempty"`
	Address         string `json:"address,omitempty"`
	ActiveContracts int    `json:"activeContracts"`
}
