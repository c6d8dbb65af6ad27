package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/core/service"
)

var resourceNames = []string{"hoardings", "contracts", "billings", "clients", "assignments", "photographers", "photos"}

var listCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "List backend records",
	Long: `List records visible to the logged-in user. Photographers and clients get
their own assignments, photos, contracts and billings.

Resources: ` + strings.Join(resourceNames, ", ") + `

Examples:
  dashboard list hoardings --status available
  dashboard list billings --json`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: resourceNames,
	RunE:      runList,
}

func init() {
	listCmd.Flags().String("status", "", "filter by status")
	listCmd.Flags().Int("page", 0, "page number")
	listCmd.Flags().Int("limit", 0, "page size")
	rootCmd.AddCommand(listCmd)
}

// listing is one fetched list ready to print.
type listing struct {
	headers    []string
	rows       [][]string
	data       any
	provenance domain.Provenance
	message    string
}

func tabulate[T any](res domain.Result[[]T], headers []string, row func(T) []string) listing {
	l := listing{headers: headers, data: res.Data, provenance: res.Provenance, message: res.Message}
	for _, item := range res.Data {
		l.rows = append(l.rows, row(item))
	}
	return l
}

func runList(cmd *cobra.Command, args []string) error {
	status, _ := cmd.Flags().GetString("status")
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")

	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)
	if err := requireLogin(ws); err != nil {
		return err
	}

	l, err := fetchListing(cmd.Context(), ws, args[0], status, ports.Page{Page: page, Limit: limit})
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(map[string]any{"data": l.data, "provenance": l.provenance, "message": l.message})
	}
	if l.provenance == domain.ProvenanceFallback {
		fmt.Fprintln(os.Stderr, fallbackStyle.Render(l.message))
	}
	if len(l.rows) == 0 {
		fmt.Println("No records found")
		return nil
	}
	fmt.Println(table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return labelStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(l.headers...).
		Rows(l.rows...))
	return nil
}

func fetchListing(ctx context.Context, ws *service.Workspace, resource, status string, page ports.Page) (listing, error) {
	r := ws.Resources
	role := ws.Session.Snapshot().Role()

	switch resource {
	case "hoardings":
		res, err := r.Hoardings.List(ctx, ports.HoardingFilter{Status: status, Page: page})
		return tabulate(res, []string{"ID", "Name", "Location", "Status", "Price/month"}, func(h domain.Hoarding) []string {
			return []string{h.ID, h.Name, h.Location, string(h.Status), money(h.PricePerMonth)}
		}), err

	case "contracts":
		var res domain.Result[[]domain.Contract]
		var err error
		if role == domain.RoleClient {
			res, err = r.Contracts.ListForClient(ctx)
		} else {
			res, err = r.Contracts.List(ctx, ports.ContractFilter{Status: status, Page: page})
		}
		return tabulate(res, []string{"ID", "Number", "Client", "Hoarding", "Ends", "Status"}, func(c domain.Contract) []string {
			return []string{c.ID, c.ContractNumber, c.ClientName, c.HoardingName, day(c.EndDate.Format("2006-01-02")), string(c.Status)}
		}), err

	case "billings":
		var res domain.Result[[]domain.Billing]
		var err error
		if role == domain.RoleClient {
			res, err = r.Billings.ListForClient(ctx)
		} else {
			res, err = r.Billings.List(ctx, ports.BillingFilter{Status: status, Page: page})
		}
		return tabulate(res, []string{"ID", "Invoice", "Client", "Amount", "Due", "Status"}, func(b domain.Billing) []string {
			return []string{b.ID, b.InvoiceNumber, b.ClientName, money(b.Amount), day(b.DueDate.Format("2006-01-02")), string(b.Status)}
		}), err

	case "clients":
		res, err := r.Clients.List(ctx, page)
		return tabulate(res, []string{"ID", "Name", "Company", "Email", "Active contracts"}, func(c domain.Client) []string {
			return []string{c.ID, c.Name, c.CompanyName, c.Email, strconv.Itoa(c.ActiveContracts)}
		}), err

	case "assignments":
		var res domain.Result[[]domain.Assignment]
		var err error
		if role == domain.RolePhotographer {
			res, err = r.Assignments.ListForPhotographer(ctx)
		} else {
			res, err = r.Assignments.List(ctx, ports.AssignmentFilter{Status: status, Page: page})
		}
		return tabulate(res, []string{"ID", "Hoarding", "Photographer", "Due", "Status"}, func(a domain.Assignment) []string {
			return []string{a.ID, a.HoardingName, a.PhotographerName, day(a.DueDate.Format("2006-01-02")), string(a.Status)}
		}), err

	case "photographers":
		res, err := r.Users.List(ctx, domain.RolePhotographer)
		return tabulate(res, []string{"ID", "Name", "Email", "Location"}, func(u domain.User) []string {
			return []string{u.ID, u.Name, u.Email, u.Location}
		}), err

	case "photos":
		var res domain.Result[[]domain.Photo]
		var err error
		switch role {
		case domain.RolePhotographer:
			res, err = r.Photos.ListForPhotographer(ctx)
		case domain.RoleClient:
			res, err = r.Photos.ListForClient(ctx)
		default:
			res, err = r.Photos.List(ctx, ports.PhotoFilter{Page: page})
		}
		return tabulate(res, []string{"ID", "Hoarding", "Photographer", "Uploaded", "URL"}, func(p domain.Photo) []string {
			return []string{p.ID, p.HoardingName, p.PhotographerName, day(p.UploadedAt.Format("2006-01-02")), p.URL}
		}), err
	}
	return listing{}, fmt.Errorf("unknown resource %q (want one of %s)", resource, strings.Join(resourceNames, ", "))
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// day blanks the zero date.
func day(s string) string {
	if s == "0001-01-01" {
		return ""
	}
	return s
}
