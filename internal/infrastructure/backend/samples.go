package backend

import (
	"strings"
	"time"

	"github.com/hoardly/dashboard/internal/core/domain"
)

// Static sample data served when the backend cannot answer a read.

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleHoardings() []domain.Hoarding {
	return []domain.Hoarding{
		{
			ID: "h-101", Name: "Marine Drive Gantry", Location: "Marine Drive", City: "Mumbai",
			Size: "40x20 ft", Type: "gantry", Illuminated: true, Status: domain.HoardingBooked,
			PricePerMonth: 250000, Coordinates: &domain.Coordinates{Lat: 18.9432, Lng: 72.8230},
			CreatedAt: day(2024, time.January, 8),
		},
		{
			ID: "h-102", Name: "MG Road Unipole", Location: "MG Road", City: "Bengaluru",
			Size: "30x15 ft", Type: "unipole", Illuminated: true, Status: domain.HoardingAvailable,
			PricePerMonth: 180000, Coordinates: &domain.Coordinates{Lat: 12.9756, Lng: 77.6050},
			CreatedAt: day(2024, time.February, 14),
		},
		{
			ID: "h-103", Name: "FC Road Billboard", Location: "Fergusson College Road", City: "Pune",
			Size: "20x10 ft", Type: "billboard", Status: domain.HoardingMaintenance,
			PricePerMonth: 90000, CreatedAt: day(2024, time.March, 2),
		},
	}
}

func sampleContracts() []domain.Contract {
	return []domain.Contract{
		{
			ID: "c-201", ContractNumber: "CTR-2024-001", ClientID: "demo-client", ClientName: "Brightside Beverages",
			HoardingID: "h-101", HoardingName: "Marine Drive Gantry",
			StartDate: day(2024, time.April, 1), EndDate: day(2025, time.March, 31),
			Value: 3000000, Status: domain.ContractActive,
		},
		{
			ID: "c-202", ContractNumber: "CTR-2024-002", ClientID: "cl-302", ClientName: "Nova Telecom",
			HoardingID: "h-102", HoardingName: "MG Road Unipole",
			StartDate: day(2024, time.June, 1), EndDate: day(2024, time.November, 30),
			Value: 1080000, Status: domain.ContractExpired,
		},
	}
}

func sampleBillings() []domain.Billing {
	paid := day(2024, time.May, 3)
	return []domain.Billing{
		{
			ID: "b-401", InvoiceNumber: "INV-2024-0041", ContractID: "c-201", ClientID: "demo-client",
			ClientName: "Brightside Beverages", Amount: 250000, DueDate: day(2024, time.May, 5),
			Status: domain.BillingPaid, PaidAt: &paid,
		},
		{
			ID: "b-402", InvoiceNumber: "INV-2024-0042", ContractID: "c-201", ClientID: "demo-client",
			ClientName: "Brightside Beverages", Amount: 250000, DueDate: day(2024, time.June, 5),
			Status: domain.BillingPending,
		},
		{
			ID: "b-403", InvoiceNumber: "INV-2024-0043", ContractID: "c-202", ClientID: "cl-302",
			ClientName: "Nova Telecom", Amount: 180000, DueDate: day(2024, time.July, 5),
			Status: domain.BillingOverdue,
		},
	}
}

func sampleAssignments() []domain.Assignment {
	return []domain.Assignment{
		{
			ID: "a-501", HoardingID: "h-101", HoardingName: "Marine Drive Gantry",
			PhotographerID: "demo-photographer", PhotographerName: "Pranav Photographer",
			DueDate: day(2024, time.April, 10), Status: domain.AssignmentCompleted,
			Notes: "Capture night shot with illumination on",
		},
		{
			ID: "a-502", HoardingID: "h-102", HoardingName: "MG Road Unipole",
			PhotographerID: "demo-photographer", PhotographerName: "Pranav Photographer",
			DueDate: day(2024, time.June, 12), Status: domain.AssignmentPending,
		},
	}
}

func samplePhotos() []domain.Photo {
	return []domain.Photo{
		{
			ID: "p-601", HoardingID: "h-101", HoardingName: "Marine Drive Gantry", AssignmentID: "a-501",
			PhotographerID: "demo-photographer", PhotographerName: "Pranav Photographer",
			URL: "/samples/photos/p-601.jpg", Caption: "Night view", UploadedAt: day(2024, time.April, 9),
		},
		{
			ID: "p-602", HoardingID: "h-101", HoardingName: "Marine Drive Gantry", AssignmentID: "a-501",
			PhotographerID: "demo-photographer", PhotographerName: "Pranav Photographer",
			URL: "/samples/photos/p-602.jpg", Caption: "Day view", UploadedAt: day(2024, time.April, 9),
		},
	}
}

func sampleClients() []domain.Client {
	return []domain.Client{
		{
			ID: "demo-client", Name: "Chitra Client", Email: "client@demo.com", Phone: "+91 98200 00003",
			CompanyName: "Brightside Beverages", Address: "44 MG Road, Bengaluru", ActiveContracts: 1,
		},
		{
			ID: "cl-302", Name: "Nikhil Rao", Email: "nikhil@novatelecom.example.com",
			CompanyName: "Nova Telecom", Address: "7 Park Street, Kolkata",
		},
	}
}

func sampleUsers() []domain.User {
	return domain.DemoAccounts()
}

// SampleSearchResults is the fixed result set shown when search fails.
func SampleSearchResults() domain.SearchResultSet {
	var rs domain.SearchResultSet
	for _, h := range sampleHoardings() {
		rs.Hoardings = append(rs.Hoardings, h.Summary())
	}
	for _, c := range sampleContracts() {
		rs.Contracts = append(rs.Contracts, c.Summary())
	}
	for _, p := range samplePhotos() {
		rs.Photos = append(rs.Photos, p.Summary())
	}
	for _, u := range sampleUsers() {
		rs.Users = append(rs.Users, domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	for _, a := range sampleAssignments() {
		rs.Assignments = append(rs.Assignments, a.Summary())
	}
	for _, b := range sampleBillings() {
		rs.Billings = append(rs.Billings, b.Summary())
	}
	return rs
}

func findByID[T any](items []T, id string, idOf func(T) string) (T, bool) {
	for _, it := range items {
		if idOf(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func usersWithRole(role domain.Role) []domain.User {
	all := sampleUsers()
	if role == "" {
		return all
	}
	out := make([]domain.User, 0, len(all))
	for _, u := range all {
		if strings.EqualFold(string(u.Role), string(role)) {
			out = append(out, u)
		}
	}
	return out
}
