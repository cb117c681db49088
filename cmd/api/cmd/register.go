package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"medicine-reminder/internal/router"
)

var registerEmail string

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Crear una cuenta con el backend de auth configurado",
	RunE: func(cmd *cobra.Command, _ []string) error {
		email := strings.TrimSpace(registerEmail)
		if email == "" {
			fmt.Print("Email: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("read email: %w", err)
			}
			email = strings.TrimSpace(line)
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Println()

		fmt.Print("Repeat password: ")
		confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Println()

		if string(password) != string(confirm) {
			return errors.New("passwords do not match")
		}

		backends, err := router.Build(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer backends.Close()

		sess, err := backends.Options.Accounts.SignUp(cmd.Context(), email, string(password))
		if err != nil {
			return err
		}

		color.Green("Account created")
		fmt.Printf("%s %s\n", color.CyanString("User ID:"), sess.UserID)
		fmt.Printf("%s %s\n", color.CyanString("Access token:"), sess.AccessToken)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email de la cuenta (si no, se pregunta)")
}
