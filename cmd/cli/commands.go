package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/kingsLib5/Hsbc-online-backend/internal/adapter/http/dto"
	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/auth"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/config"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/postgres"
)

func transfersCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Transfer operations",
	}

	var limit, offset int
	var asJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all transfers (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))

			var resp dto.ListResponse[dto.TransferResponse]
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/transfers?"+q.Encode(), nil, &resp); err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			return printTransfers(cmd.OutOrStdout(), resp.Data)
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 50, "Maximum transfers to return")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Transfers to skip")
	listCmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a transfer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.TransferResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/transfers/"+url.PathEscape(args[0]), nil, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <id> <code>",
		Short: "Submit the verification code of a transfer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.TransferResponse
			body := dto.VerifyTransferRequest{Code: args[1]}
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/transfers/"+url.PathEscape(args[0])+"/verify", body, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transfer %s is %s\n", resp.ID, resp.Status)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a transfer to approved or failed (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.TransferResponse
			body := dto.UpdateStatusRequest{Status: args[1]}
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPatch, "/api/v1/transfers/"+url.PathEscape(args[0])+"/status", body, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transfer %s is %s\n", resp.ID, resp.Status)
			return nil
		},
	}

	cmd.AddCommand(listCmd, getCmd, verifyCmd, statusCmd)
	return cmd
}

func settlementsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settlements",
		Short: "Settlement operations",
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Approve every stale verified transfer now (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.SweepResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/settlements/sweep", nil, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d settled=%d skipped=%d failed=%d\n",
				resp.Scanned, resp.Settled, resp.Skipped, resp.Failed)
			return nil
		},
	}

	cmd.AddCommand(sweepCmd)
	return cmd
}

func accountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	mineCmd := &cobra.Command{
		Use:   "mine",
		Short: "List the caller's accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp []dto.AccountResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/accounts/me", nil, &resp); err != nil {
				return err
			}
			return printAccounts(cmd.OutOrStdout(), resp)
		},
	}

	var req dto.CreateAccountRequest
	var balance string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Open an account for a customer (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", balance, err)
			}
			req.InitialBalance = amount

			var resp dto.AccountResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/accounts", req, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	createCmd.Flags().StringVar(&req.OwnerID, "owner", "", "Owner user ID")
	createCmd.Flags().StringVar(&req.Type, "type", "Savings", "Account type")
	createCmd.Flags().StringVar(&req.Number, "number", "", "Account number")
	createCmd.Flags().StringVar(&balance, "balance", "0", "Opening balance")
	_ = createCmd.MarkFlagRequired("owner")
	_ = createCmd.MarkFlagRequired("number")

	cmd.AddCommand(mineCmd, createCmd)
	return cmd
}

// tokenCmd mints bearer tokens with the server's JWT secret.
func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Token operations",
	}

	var (
		secret string
		ttl    time.Duration
		user   domain.User
		role   string
	)
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a signed token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("a JWT secret is required (--secret or JWT_SECRET)")
			}
			user.Role = domain.Role(role)

			token, err := auth.NewJWTManager(secret, ttl).Generate(&user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issueCmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret shared with the server")
	issueCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	issueCmd.Flags().StringVar(&user.ID, "user", "", "User ID")
	issueCmd.Flags().StringVar(&user.Email, "email", "", "User email")
	issueCmd.Flags().StringVar(&role, "role", string(domain.RoleCustomer), "admin or customer")
	_ = issueCmd.MarkFlagRequired("user")

	cmd.AddCommand(issueCmd)
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	var databaseURL, path string
	resolve := func() error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if databaseURL == "" {
			databaseURL = cfg.DatabaseURL
		}
		if path == "" {
			path = cfg.MigrationsPath
		}
		return nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(); err != nil {
				return err
			}
			if err := postgres.RunMigrations(databaseURL, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(); err != nil {
				return err
			}
			if err := postgres.RunMigrationsDown(databaseURL, path, steps); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
			return nil
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "Migrations to roll back; 0 rolls back all")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(); err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationVersion(databaseURL, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Database URL (defaults to DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&path, "path", "", "Migrations directory (defaults to MIGRATIONS_PATH)")
	cmd.AddCommand(upCmd, downCmd, versionCmd)
	return cmd
}
