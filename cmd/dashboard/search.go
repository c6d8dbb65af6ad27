package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/tui"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search across hoardings, contracts, photos, users, assignments and billings",
	Long: `Run one grouped search, or open the live-search box with --interactive.

Examples:
  dashboard search "mg road"
  dashboard search --type contracts acme
  dashboard search --interactive`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolP("interactive", "i", false, "open the live-search box")
	searchCmd.Flags().String("type", "", "limit to one category")
	searchCmd.Flags().Int("limit", 0, "maximum results per category")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	interactive, _ := cmd.Flags().GetBool("interactive")
	kind, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")
	if !interactive && len(args) == 0 {
		return fmt.Errorf("a query is required unless --interactive is set")
	}

	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)
	if err := requireLogin(ws); err != nil {
		return err
	}
	role := ws.Session.Snapshot().Role()

	if interactive {
		route, err := tui.Run(cmd.Context(), ws.Search, role)
		if err != nil {
			return err
		}
		if route != "" {
			fmt.Println(route)
		}
		return nil
	}

	res, err := ws.Resources.Search.Search(cmd.Context(), ports.SearchParams{
		Query: strings.Join(args, " "),
		Type:  kind,
		Limit: limit,
	})
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(res)
	}
	if res.Degraded() {
		fmt.Fprintln(os.Stderr, fallbackStyle.Render(res.Message))
	}
	printResults(res.Data, role)
	return nil
}

func printResults(rs domain.SearchResultSet, role domain.Role) {
	if rs.Total() == 0 {
		fmt.Println("No results")
		return
	}
	section := func(c domain.SearchCategory, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Println(labelStyle.Render(fmt.Sprintf("%s (%d)", strings.ToUpper(string(c)), len(lines))))
		for _, l := range lines {
			fmt.Println("  " + l)
		}
	}
	line := func(c domain.SearchCategory, id, title string) string {
		return fmt.Sprintf("%-28s %s", title, domain.DetailRoute(role, c, id))
	}

	var lines []string
	for _, h := range rs.Hoardings {
		lines = append(lines, line(domain.CategoryHoardings, h.ID, h.Name))
	}
	section(domain.CategoryHoardings, lines)

	lines = nil
	for _, c := range rs.Contracts {
		lines = append(lines, line(domain.CategoryContracts, c.ID, c.ContractNumber))
	}
	section(domain.CategoryContracts, lines)

	lines = nil
	for _, p := range rs.Photos {
		lines = append(lines, line(domain.CategoryPhotos, p.ID, p.HoardingName))
	}
	section(domain.CategoryPhotos, lines)

	lines = nil
	for _, u := range rs.Users {
		lines = append(lines, line(domain.CategoryUsers, u.ID, u.Name))
	}
	section(domain.CategoryUsers, lines)

	lines = nil
	for _, a := range rs.Assignments {
		lines = append(lines, line(domain.CategoryAssignments, a.ID, a.HoardingName))
	}
	section(domain.CategoryAssignments, lines)

	lines = nil
	for _, b := range rs.Billings {
		lines = append(lines, line(domain.CategoryBillings, b.ID, b.InvoiceNumber))
	}
	section(domain.CategoryBillings, lines)
}
