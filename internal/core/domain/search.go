package domain

// SearchCategory groups search results.
type SearchCategory string

const (
	CategoryHoardings   SearchCategory = "hoardings"
	CategoryContracts   SearchCategory = "contracts"
	CategoryPhotos      SearchCategory = "photos"
	CategoryUsers       SearchCategory = "users"
	CategoryAssignments SearchCategory = "assignments"
	CategoryBillings    SearchCategory = "billings"
)

// Categories lists every search category in display order.
var Categories = []SearchCategory{
	CategoryHoardings,
	CategoryContracts,
	CategoryPhotos,
	CategoryUsers,
	CategoryAssignments,
	CategoryBillings,
}

// SearchResultSet holds grouped summaries for a single query.
type SearchResultSet struct {
	Hoardings   []HoardingSummary   `json:"hoardings"`
	Contracts   []ContractSummary   `json:"contracts"`
	Photos      []PhotoSummary      `json:"photos"`
	Users       []UserSummary       `json:"users"`
	Assignments []AssignmentSummary `json:"assignments"`
	Billings    []BillingSummary    `json:"billings"`
}

// Total is the number of summaries across all categories.
func (s SearchResultSet) Total() int {
	return len(s.Hoardings) + len(s.Contracts) + len(s.Photos) +
		len(s.Users) + len(s.Assignments) + len(s.Billings)
}

// Count returns the number of results in one category.
func (s SearchResultSet) Count(c SearchCategory) int {
	switch c {
	case CategoryHoardings:
		return len(s.Hoardings)
	case CategoryContracts:
		return len(s.Contracts)
	case CategoryPhotos:
		return len(s.Photos)
	case CategoryUsers:
		return len(s.Users)
	case CategoryAssignments:
		return len(s.Assignments)
	case CategoryBillings:
		return len(s.Billings)
	default:
		return 0
	}
}

// SearchPanel is the state of the dismissible live-search dropdown.
type SearchPanel struct {
	Open       bool             `json:"open"`
	Query      string           `json:"query"`
	Results    *SearchResultSet `json:"results,omitempty"`
	Provenance Provenance       `json:"provenance,omitempty"`
	Pending    bool             `json:"pending"`
	Seq        uint64           `json:"seq"`
}

// DetailRoute returns the role-specific route for a selected search result.
// Owners manage everything under /owner; clients and photographers only see
// the categories they have pages for and otherwise land on their dashboard.
func DetailRoute(role Role, category SearchCategory, id string) string {
	switch role {
	case RoleOwner:
		switch category {
		case CategoryHoardings:
			return "/owner/hoardings/" + id
		case CategoryContracts:
			return "/owner/contracts/" + id
		case CategoryPhotos:
			return "/owner/photos/" + id
		case CategoryUsers:
			return "/owner/users/" + id
		case CategoryAssignments:
			return "/owner/assignments/" + id
		case CategoryBillings:
			return "/owner/billings/" + id
		}
		return "/owner/dashboard"
	case RoleClient:
		switch category {
		case CategoryHoardings:
			return "/client/hoardings/" + id
		case CategoryContracts:
			return "/client/contracts/" + id
		case CategoryPhotos:
			return "/client/photos/" + id
		case CategoryBillings:
			return "/client/billings/" + id
		}
		return "/client/dashboard"
	case RolePhotographer:
		switch category {
		case CategoryAssignments:
			return "/photographer/assignments/" + id
		case CategoryPhotos:
			return "/photographer/photos/" + id
		case CategoryHoardings:
			return "/photographer/hoardings/" + id
		}
		return "/photographer/dashboard"
	}
	return LoginRoute
}
