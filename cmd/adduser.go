package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/frahmantamala/expense-tracker/internal/auth"
	"github.com/frahmantamala/expense-tracker/internal/database"
	userPostgres "github.com/frahmantamala/expense-tracker/internal/user/postgres"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	gormLogger "gorm.io/gorm/logger"
)

var (
	addUserEmail    string
	addUserName     string
	addUserPassword string
)

var addUserCmd = &cobra.Command{
	Use:   "adduser",
	Short: "Create an account from the command line",
	Long:  `Create an account without going through the API. The password is prompted for when --password is omitted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		password := addUserPassword
		if password == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			var err error
			password, err = readPassword(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		db, err := database.Open(ctx, cfg.Database, gormLogger.Warn)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, cfg.Security.AccessTokenDuration)
		svc := auth.NewService(userPostgres.NewRepository(db.SQLX), tokens, cfg.Security.BCryptCost, logger.LoggerWrapper())
		return addUser(ctx, svc, cmd.OutOrStdout(), addUserName, addUserEmail, password)
	},
}

func init() {
	addUserCmd.Flags().StringVar(&addUserEmail, "email", "", "account email")
	addUserCmd.Flags().StringVar(&addUserName, "name", "", "display name")
	addUserCmd.Flags().StringVar(&addUserPassword, "password", "", "password (optional, will prompt if omitted)")
	_ = addUserCmd.MarkFlagRequired("email")
	_ = addUserCmd.MarkFlagRequired("name")
}

func addUser(ctx context.Context, svc auth.ServiceAPI, out io.Writer, name, email, password string) error {
	resp, err := svc.Register(ctx, auth.RegisterDTO{Name: name, Email: email, Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "User %s created successfully with ID %d\n", resp.User.Email, resp.User.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
