package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"community-elibrary/library"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "elibrary",
		Short: "Community e-library catalog",
		Long:  "A small digital-library catalog: register, browse, search, favorite, and manage resources.",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			defer lib.Close()
			runShell(lib)
			return nil
		},
	}
	root.AddCommand(newReportCmd())
	return root
}

func newReportCmd() *cobra.Command {
	var xlsxPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the usage report, optionally exporting it to an .xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			defer lib.Close()

			rep := lib.UsageReport()
			printReport(rep)
			if xlsxPath != "" {
				if err := library.ExportReportXLSX(rep, xlsxPath); err != nil {
					return err
				}
				fmt.Printf("Report exported to %s\n", xlsxPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the report to this .xlsx file")
	return cmd
}

func openLibrary() (*library.Library, error) {
	lib, err := library.New(library.LoadConfig())
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	return lib, nil
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

func runShell(lib *library.Library) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to the Community E-Library!")
	printHelp()

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "register":
			handleRegister(scanner, lib)
		case "login":
			handleLogin(scanner, lib)
		case "logout":
			lib.Logout()
			fmt.Println("Logged out.")
		case "whoami":
			handleWhoami(lib)
		case "categories":
			for _, c := range library.Categories() {
				fmt.Printf("  %s (%d resources)\n", c, len(lib.ByCategory(c)))
			}
		case "browse":
			handleBrowse(scanner, lib)
		case "search":
			handleSearch(scanner, lib)
		case "list resources":
			printResources(lib.Resources())
		case "view":
			handleOutcome(scanner, "Resource ID to view", lib.View)
		case "download":
			handleOutcome(scanner, "Resource ID to download", lib.Download)
		case "favorites":
			printResources(lib.Favorites())
		case "add favorite":
			handleFavorite(scanner, lib, true)
		case "remove favorite":
			handleFavorite(scanner, lib, false)
		case "add resource":
			handleAddResource(scanner, lib)
		case "edit resource":
			handleEditResource(scanner, lib)
		case "report":
			handleReport(scanner, lib)
		case "users":
			handleUsers(lib)
		case "add admin":
			handleAddAdmin(scanner, lib)
		case "remove user":
			handleRemoveUser(scanner, lib)
		case "activity":
			handleActivity(scanner, lib)
		case "help":
			printHelp()
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return
		case "":
			// ignore
		default:
			fmt.Printf("Unknown command: %s (try 'help')\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  Account: register, login, logout, whoami")
	fmt.Println("  Browse:  categories, browse, search, list resources, view, download")
	fmt.Println("  Saved:   favorites, add favorite, remove favorite")
	fmt.Println("  Admin:   add resource, edit resource, report, users, add admin, remove user, activity")
	fmt.Println("  System:  help, exit")
}

func prompt(sc *bufio.Scanner, label string) string {
	fmt.Printf("%s: ", label)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}

func requireAdmin(lib *library.Library) bool {
	u := lib.CurrentUser()
	if u == nil || u.Role != library.RoleAdmin {
		fmt.Println("Admin login required.")
		return false
	}
	return true
}

func handleRegister(sc *bufio.Scanner, lib *library.Library) {
	username := prompt(sc, "Choose a username")
	password, err := readPassword("Choose a password: ")
	if err != nil {
		fmt.Printf("Failed to read password: %v\n", err)
		return
	}
	email := prompt(sc, "Email (optional)")

	if err := lib.Register(username, password, email); err != nil {
		fmt.Printf("Registration failed: %v\n", err)
		return
	}
	fmt.Println("Registration successful!")
	if lib.Login(username, password) {
		fmt.Printf("Welcome, %s!\n", username)
	}
}

func handleLogin(sc *bufio.Scanner, lib *library.Library) {
	username := prompt(sc, "Username")
	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Failed to read password: %v\n", err)
		return
	}

	if !lib.Login(username, password) {
		fmt.Println("Invalid credentials.")
		return
	}
	fmt.Printf("Welcome back, %s!\n", username)
}

func handleWhoami(lib *library.Library) {
	u := lib.CurrentUser()
	if u == nil {
		fmt.Println("Browsing as: guest")
		return
	}
	fmt.Printf("Logged in as: %s (%s)\n", u.Username, u.Role)
	fmt.Printf("Favorites: %d | Reading history: %d\n", len(u.Favorites), len(u.ReadingHistory))
}

func handleBrowse(sc *bufio.Scanner, lib *library.Library) {
	for _, c := range library.Categories() {
		fmt.Printf("  %s (%d resources)\n", c, len(lib.ByCategory(c)))
	}
	category := prompt(sc, "Category")
	printResources(lib.ByCategory(category))
}

func handleSearch(sc *bufio.Scanner, lib *library.Library) {
	keyword := prompt(sc, "Keyword (title, author, subject, or language)")
	results := lib.Search(keyword)
	if len(results) == 0 {
		fmt.Printf("No resources found for %q\n", keyword)
		return
	}
	printResources(results)
}

func handleOutcome(sc *bufio.Scanner, label string, op func(string) (string, error)) {
	id := prompt(sc, label)
	msg, err := op(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(msg)
}

func handleFavorite(sc *bufio.Scanner, lib *library.Library, add bool) {
	id := prompt(sc, "Resource ID")
	var err error
	if add {
		err = lib.AddFavorite(id)
	} else {
		err = lib.RemoveFavorite(id)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if add {
		fmt.Println("Added to favorites!")
	} else {
		fmt.Println("Removed from favorites.")
	}
}

func handleAddResource(sc *bufio.Scanner, lib *library.Library) {
	if !requireAdmin(lib) {
		return
	}
	title := prompt(sc, "Title")
	author := prompt(sc, "Author")
	subject := prompt(sc, "Subject")
	language := prompt(sc, "Language")
	filePath := prompt(sc, "File path or URL")
	fmt.Printf("Known categories: %s\n", strings.Join(library.Categories(), ", "))
	category := prompt(sc, "Category")
	description := prompt(sc, "Description (optional)")

	id, err := lib.AddResource(title, author, subject, language, filePath, category, description)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Resource added successfully! ID: %s\n", id)
}

func handleEditResource(sc *bufio.Scanner, lib *library.Library) {
	if !requireAdmin(lib) {
		return
	}
	id := prompt(sc, "Resource ID to edit")
	r, err := lib.Resource(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Editing: %s\n(Press Enter to keep current value)\n", r.Title)
	edit := library.ResourceEdit{
		Title:       optional(prompt(sc, fmt.Sprintf("Title [%s]", r.Title))),
		Author:      optional(prompt(sc, fmt.Sprintf("Author [%s]", r.Author))),
		Subject:     optional(prompt(sc, fmt.Sprintf("Subject [%s]", r.Subject))),
		Language:    optional(prompt(sc, fmt.Sprintf("Language [%s]", r.Language))),
		FilePath:    optional(prompt(sc, fmt.Sprintf("File path [%s]", r.FilePath))),
		Category:    optional(prompt(sc, fmt.Sprintf("Category [%s]", r.Category))),
		Description: optional(prompt(sc, fmt.Sprintf("Description [%s]", r.Description))),
	}

	if err := lib.EditResource(id, edit); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Resource updated successfully!")
}

// optional maps an empty answer to "keep the current value".
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func handleReport(sc *bufio.Scanner, lib *library.Library) {
	if !requireAdmin(lib) {
		return
	}
	rep := lib.UsageReport()
	printReport(rep)

	if path := prompt(sc, "Export to .xlsx (leave empty to skip)"); path != "" {
		if err := library.ExportReportXLSX(rep, path); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Report exported to %s\n", path)
	}
}

func handleUsers(lib *library.Library) {
	if !requireAdmin(lib) {
		return
	}
	fmt.Printf("%-20s %-10s %-10s %-10s %s\n", "Username", "Role", "Favorites", "History", "Joined")
	for _, u := range lib.Users() {
		fmt.Printf("%-20s %-10s %-10d %-10d %s\n",
			u.Username, u.Role, len(u.Favorites), len(u.ReadingHistory), u.CreatedAt.Format("2006-01-02"))
	}
}

func handleAddAdmin(sc *bufio.Scanner, lib *library.Library) {
	if !requireAdmin(lib) {
		return
	}
	username := prompt(sc, "Admin username")
	password, err := readPassword("Admin password: ")
	if err != nil {
		fmt.Printf("Failed to read password: %v\n", err)
		return
	}
	email := prompt(sc, "Admin email")

	if err := lib.AddAdmin(username, password, email); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Admin user created successfully!")
}

func handleRemoveUser(sc *bufio.Scanner, lib *library.Library) {
	if !requireAdmin(lib) {
		return
	}
	username := prompt(sc, "Username to remove")
	if err := lib.RemoveUser(username); err != nil {
		if errors.Is(err, library.ErrUserNotFound) {
			fmt.Println("User not found.")
			return
		}
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("User %q removed successfully!\n", username)
}

func handleActivity(sc *bufio.Scanner, lib *library.Library) {
	if !requireAdmin(lib) {
		return
	}
	username := prompt(sc, "Filter by username (leave empty for all)")

	var (
		events []library.ActivityEvent
		err    error
	)
	if username == "" {
		events, err = lib.RecentActivity(20)
	} else {
		events, err = lib.ActivityByUser(username, 20)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("%-20s %-15s %-15s %s\n", "Time", "User", "Action", "Details")
	for _, ev := range events {
		fmt.Printf("%-20s %-15s %-15s %s\n",
			ev.At.Format("2006-01-02 15:04:05"), ev.Username, ev.Action, ev.Details)
	}
}

func printResources(resources []*library.Resource) {
	if len(resources) == 0 {
		fmt.Println("No resources available.")
		return
	}
	fmt.Printf("%-10s %-30s %-20s %-16s %-10s %s\n", "ID", "Title", "Author", "Category", "Views", "Downloads")
	for _, r := range resources {
		fmt.Printf("%-10s %-30s %-20s %-16s %-10d %d\n",
			r.ID, truncate(r.Title, 29), truncate(r.Author, 19), truncate(r.Category, 15), r.ViewCount, r.DownloadCount)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func printReport(rep *library.UsageReport) {
	fmt.Printf("Total Resources: %d\n", rep.TotalResources)
	fmt.Printf("Total Students: %d\n", rep.TotalStudents)

	fmt.Println("\n--- Most Downloaded Resources ---")
	for i, r := range rep.MostDownloaded {
		fmt.Printf("%d. %s - %d downloads\n", i+1, r.Title, r.DownloadCount)
	}

	fmt.Println("\n--- Most Viewed Resources ---")
	for i, r := range rep.MostViewed {
		fmt.Printf("%d. %s - %d views\n", i+1, r.Title, r.ViewCount)
	}
}
