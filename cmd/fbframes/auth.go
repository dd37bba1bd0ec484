package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"fbframes/pkg/auth"
	"fbframes/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Facebook access tokens",
	Long: `Manage stored Facebook access tokens securely.

Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your access token or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [profile]",
	Short: "Store a Facebook access token securely",
	Long: `Store a Facebook access token in the system keychain or an encrypted file.

You will be prompted for the token; input is hidden as you type.

To get an access token:
1. Open https://developers.facebook.com/tools/explorer/
2. Select your app and request the publish_actions / pages permissions
3. Generate and copy the access token`,
	Example: `  # Store the default token
  fbframes auth login

  # Store a token under a named profile
  fbframes auth login mypage`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [profile]",
	Short: "Remove a stored access token",
	Long: `Remove a stored Facebook access token from every credential store
that holds it. Without a profile name the default token is removed.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status [profile]",
	Short: "Show whether an access token is stored",
	Long:  `Show whether an access token is stored and a masked preview of it.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	name := auth.DefaultTokenName
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	// Confirm before overwriting an existing profile
	if manager.Exists(name) {
		fmt.Printf("Token profile '%s' already exists. Replace it? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Print("Facebook access token (input is hidden): ")
	tokenValue, err := readSecret()
	if err != nil {
		ui.PrintError("Failed to read access token", err.Error())
		os.Exit(1)
	}
	if tokenValue == "" {
		ui.PrintError("Access token is required")
		os.Exit(1)
	}

	token := &auth.Token{
		Name:        name,
		AccessToken: tokenValue,
	}

	if err := manager.Store(token); err != nil {
		ui.PrintError("Failed to store token", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Token stored: " + name)
	fmt.Println("\nUpload frames with:")
	fmt.Println("  fbframes upload --start <frame-number>")
	if name != auth.DefaultTokenName {
		fmt.Printf("\nUse this profile with:\n  fbframes upload --start <frame-number> --profile %s\n", name)
	}
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	name := auth.DefaultTokenName
	if len(args) > 0 {
		name = args[0]
	}

	if err := manager.Delete(name); err != nil {
		ui.PrintError("Failed to remove token", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Token removed: " + name)
}

func runStatus(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	name := auth.DefaultTokenName
	if len(args) > 0 {
		name = args[0]
	}

	token, err := manager.Retrieve(name)
	if err != nil {
		ui.PrintInfo("No token stored for profile", name)
		fmt.Println("\nStore one with:")
		fmt.Println("  fbframes auth login")
		return
	}

	ui.PrintHighlight("Stored Token")
	fmt.Printf("  Profile: %s\n", token.Name)
	fmt.Printf("  Token:   %s\n", auth.MaskToken(token.AccessToken))
	if !token.LastModified.IsZero() {
		fmt.Printf("  Stored:  %s\n", token.LastModified.Format("2006-01-02 15:04:05"))
	}
}

// readSecret reads a secret from stdin without echoing
func readSecret() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // New line after hidden input
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
