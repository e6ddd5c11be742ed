package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/auth"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/database"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	expensePostgres "github.com/frahmantamala/expense-tracker/internal/expense/postgres"
	userPostgres "github.com/frahmantamala/expense-tracker/internal/user/postgres"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	gormLogger "gorm.io/gorm/logger"
)

var (
	seedEmail    string
	seedPassword string
	seedCount    int
	seedMonths   int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo account and random expenses for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.Open(ctx, cfg.Database, gormLogger.Warn)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()

		seeder := newSeeder(db, cfg, logger.LoggerWrapper(), cmd.OutOrStdout())
		if clearData {
			if err := seeder.clear(ctx); err != nil {
				return err
			}
		}
		return seeder.seed(ctx, seedEmail, seedPassword, seedCount, seedMonths)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "demo@example.com", "demo account email")
	seedCmd.Flags().StringVar(&seedPassword, "password", "password", "demo account password")
	seedCmd.Flags().IntVar(&seedCount, "count", 50, "number of expenses to create")
	seedCmd.Flags().IntVar(&seedMonths, "months", 6, "spread expenses over this many past months")
}

// seeder goes through the services so seeded rows pass the same validation as
// rows created over HTTP.
type seeder struct {
	db       *database.DB
	auth     *auth.Service
	expenses *expense.Service
	out      io.Writer
	now      func() time.Time
}

func newSeeder(db *database.DB, cfg *internal.Config, lg *slog.Logger, out io.Writer) *seeder {
	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, cfg.Security.AccessTokenDuration)
	return &seeder{
		db:       db,
		auth:     auth.NewService(userPostgres.NewRepository(db.SQLX), tokens, cfg.Security.BCryptCost, lg),
		expenses: expense.NewService(expensePostgres.NewExpenseRepository(db.Gorm), lg),
		out:      out,
		now:      time.Now,
	}
}

func (s *seeder) clear(ctx context.Context) error {
	for _, table := range []string{"expenses", "users"} {
		if err := s.db.Gorm.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
		fmt.Fprintf(s.out, "Cleared %s\n", table)
	}
	return nil
}

func (s *seeder) seed(ctx context.Context, email, password string, count, months int) error {
	resp, err := s.auth.Register(ctx, auth.RegisterDTO{Name: gofakeit.Name(), Email: email, Password: password})
	if errors.Is(err, internal.ErrEmailTaken) {
		fmt.Fprintln(s.out, "demo user already exists; adding expenses")
		resp, err = s.auth.Login(ctx, auth.LoginDTO{Email: email, Password: password})
	}
	if err != nil {
		return fmt.Errorf("failed to prepare demo user: %w", err)
	}
	fmt.Fprintf(s.out, "Seeded user %s (id %d)\n", resp.User.Email, resp.User.ID)

	if months < 1 {
		months = 1
	}
	end := s.now().UTC()
	start := end.AddDate(0, -months, 0)
	names := category.Names()

	for i := 0; i < count; i++ {
		amount := decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(expense.AmountScale)
		if amount.LessThan(expense.MinAmount) {
			amount = expense.MinAmount
		}
		dto := expense.ExpenseDTO{
			Amount:   &amount,
			Date:     gofakeit.DateRange(start, end).UTC().Format(time.RFC3339),
			Note:     gofakeit.Sentence(gofakeit.Number(2, 6)),
			Category: gofakeit.RandomString(names),
		}
		if _, err := s.expenses.CreateExpense(ctx, resp.User.ID, dto); err != nil {
			return fmt.Errorf("failed to seed expense %d: %w", i+1, err)
		}
	}

	fmt.Fprintf(s.out, "Seeded %d expenses over %d months\n", count, months)
	return nil
}
