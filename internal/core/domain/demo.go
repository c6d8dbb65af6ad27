package domain

import "strings"

// Fixed demo accounts. When demo mode is on these emails resolve locally
// without a backend: login never checks their password and a failed profile
// fetch on boot falls back to them.
var demoAccounts = map[string]User{
	"owner@demo.com": {
		ID:          "demo-owner",
		Name:        "Olivia Owner",
		Email:       "owner@demo.com",
		Role:        RoleOwner,
		Phone:       "+91 98200 00001",
		Location:    "Mumbai",
		CompanyName: "Skyline Outdoor Media",
		Website:     "https://skyline.example.com",
		Address:     "12 Marine Drive, Mumbai",
	},
	"photographer@demo.com": {
		ID:       "demo-photographer",
		Name:     "Pranav Photographer",
		Email:    "photographer@demo.com",
		Role:     RolePhotographer,
		Phone:    "+91 98200 00002",
		Location: "Pune",
	},
	"client@demo.com": {
		ID:          "demo-client",
		Name:        "Chitra Client",
		Email:       "client@demo.com",
		Role:        RoleClient,
		Phone:       "+91 98200 00003",
		Location:    "Bengaluru",
		CompanyName: "Brightside Beverages",
		Address:     "44 MG Road, Bengaluru",
	},
}

// DemoAccount returns the fixed record for a demo email.
func DemoAccount(email string) (*User, bool) {
	u, ok := demoAccounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, false
	}
	return &u, true
}

// DemoAccounts returns every demo record.
func DemoAccounts() []User {
	out := make([]User, 0, len(demoAccounts))
	for _, email := range []string{"owner@demo.com", "photographer@demo.com", "client@demo.com"} {
		out = append(out, demoAccounts[email])
	}
	return out
}
