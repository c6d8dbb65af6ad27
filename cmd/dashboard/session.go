package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

var (
	labelStyle    = lipgloss.NewStyle().Bold(true)
	fallbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the credential",
	Long: `Log in to the backend. The token is kept in CREDENTIALS_FILE so later
commands run as the same user.

Examples:
  dashboard login --email owner@example.com
  DEMO_MODE=true dashboard login --email owner@demo.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored credential",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (prompted when empty)")
	_ = loginCmd.MarkFlagRequired("email")

	registerCmd.Flags().String("name", "", "full name")
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("password", "", "account password (prompted when empty)")
	registerCmd.Flags().String("role", "client", "owner, photographer or client")
	registerCmd.Flags().String("phone", "", "phone number")
	registerCmd.Flags().String("location", "", "city or area")
	registerCmd.Flags().String("company", "", "company name")
	registerCmd.Flags().String("website", "", "company website")
	registerCmd.Flags().String("address", "", "postal address")
	registerCmd.Flags().String("avatar", "", "path to a profile image")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		var err error
		if password, err = promptPassword("Password: "); err != nil {
			return err
		}
	}

	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	snap, err := ws.Session.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	return printSession(snap)
}

func runRegister(cmd *cobra.Command, args []string) error {
	flag := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	in := ports.RegisterInput{
		Name:        flag("name"),
		Email:       flag("email"),
		Password:    flag("password"),
		Role:        flag("role"),
		Phone:       flag("phone"),
		Location:    flag("location"),
		CompanyName: flag("company"),
		Website:     flag("website"),
		Address:     flag("address"),
	}
	if in.Password == "" {
		var err error
		if in.Password, err = promptPassword("Password: "); err != nil {
			return err
		}
	}
	if path := flag("avatar"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read avatar: %w", err)
		}
		in.Avatar = &ports.Avatar{
			Filename:    filepath.Base(path),
			ContentType: http.DetectContentType(data),
			Data:        data,
		}
	}

	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	snap, err := ws.Session.Register(cmd.Context(), in)
	if err != nil {
		return err
	}
	return printSession(snap)
}

func runLogout(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	ws.Session.Logout(cmd.Context())
	fmt.Println("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	if err := requireLogin(ws); err != nil {
		return err
	}
	return printSession(ws.Session.Snapshot())
}

func printSession(snap domain.Session) error {
	if jsonOut {
		return printJSON(snap)
	}
	u := snap.User
	if u == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s %s <%s>\n", labelStyle.Render("User:"), u.Name, u.Email)
	fmt.Printf("%s %s\n", labelStyle.Render("Role:"), u.Role)
	fmt.Printf("%s %s\n", labelStyle.Render("Home:"), domain.HomeRoute(u.Role))
	if snap.Provenance == domain.ProvenanceFallback {
		fmt.Println(fallbackStyle.Render("Offline account: data shown is sample data"))
	}
	return nil
}

// promptPassword reads a password without echo when stdin is a terminal and
// falls back to one plain line for piped input.
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
