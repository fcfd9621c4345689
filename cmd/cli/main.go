package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:           "gosettle-cli",
		Short:         "GoSettle CLI tool",
		Long:          `A command line interface for interacting with the GoSettle API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoSettle API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated requests")

	rootCmd.AddCommand(
		loginCmd(),
		hashPasswordCmd(),
		groupCmd(),
		expenseCmd(),
		settleCmd(),
		balancesCmd(),
		simplifyCmd(),
		reconcileCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Exchange credentials for an API token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := post("/api/v1/auth/login", map[string]string{
				"username": args[0],
				"password": args[1],
			})
			if err != nil {
				return err
			}
			return printBody(data)
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash a password for AUTH_USERS entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func groupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Group operations",
	}
	cmd.AddCommand(
		groupCreateCmd(),
		groupGetCmd(),
		groupListCmd(),
		addMemberCmd(),
		removeMemberCmd(),
	)
	return cmd
}

func groupCreateCmd() *cobra.Command {
	var creator string
	var members []string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := post("/api/v1/groups", map[string]any{
				"name":    args[0],
				"creator": creator,
				"members": members,
			})
			if err != nil {
				return err
			}
			return printBody(data)
		},
	}

	cmd.Flags().StringVar(&creator, "creator", "", "Creator address (0x-hex)")
	cmd.Flags().StringSliceVar(&members, "member", nil, "Member address, repeatable")
	_ = cmd.MarkFlagRequired("creator")
	return cmd
}

func groupGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <group-id>",
		Short: "Show a group and its roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := get("/api/v1/groups/" + args[0])
			if err != nil {
				return err
			}
			return printBody(data)
		},
	}
}

func groupListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := get(fmt.Sprintf("/api/v1/groups?limit=%d&offset=%d", limit, offset))
			if err != nil {
				return err
			}

			var resp struct {
				Groups []struct {
					ID      string   `json:"id"`
					Name    string   `json:"name"`
					Members []string `json:"members"`
					Version int64    `json:"version"`
				} `json:"groups"`
				Total int64 `json:"total"`
			}
			if err := json.Unmarshal(data, &resp); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			for _, g := range resp.Groups {
				fmt.Printf("%-30s  %-24s  %3d members  v%d\n", g.ID, truncate(g.Name, 24), len(g.Members), g.Version)
			}
			fmt.Printf("Total: %d\n", resp.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	return cmd
}

func addMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-member <group-id> <address>",
		Short: "Add a member to the roster",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := post("/api/v1/groups/"+args[0]+"/members", map[string]string{
				"member": args[1],
			})
			if err != nil {
				return err
			}
			return printBody(data)
		},
	}
}

func removeMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-member <group-id> <address>",
		Short: "Remove a member without recorded history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := request(http.MethodDelete, "/api/v1/groups/"+args[0]+"/members/"+args[1], nil); err != nil {
				return err
			}
			fmt.Println("Member removed")
			return nil
		},
	}
}

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Expense operations",
	}
	cmd.AddCommand(expenseAddCmd(), expenseListCmd())
	return cmd
}

func expenseAddCmd() *cobra.Command {
	var payer, amount, description string
	var participants []string

	cmd := &cobra.Command{
		Use:   "add <group-id>",
		Short: "Record an expense split across participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"payer":        payer,
				"amount":       amount,
				"participants": participants,
			}
			if description != "" {
				body["description"] = description
			}

			data, err := post("/api/v1/groups/"+args[0]+"/expenses", body)
			if err != nil {
				return err
			}
			return printBody(data)
		},
	}

	cmd.Flags().StringVar(&payer, "payer", "", "Payer address (0x-hex)")
	cmd.Flags().StringVar(&amount, "amount", "", "Decimal amount, e.g. 12.50")
	cmd.Flags().StringVar(&description, "description", "", "What the expense was for")
	cmd.Flags().StringSliceVar(&participants, "participant", nil, "Participant address, repeatable")
	_ = cmd.MarkFlagRequired("payer")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func expenseListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list <group-id>",
		Short: "List a group's expenses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := get(fmt.Sprintf("/api/v1/groups/%s/expenses?limit=%d&offset=%d", args[0], limit, offset))
			if err != nil {
				return err
			}
			return printBody(data)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	return cmd
}

func settleCmd() *cobra.Command {
	var from, to, amount, ref string

	cmd := &cobra.Command{
		Use:   "settle <group-id>",
		Short: "Record a repayment between two members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"from":   from,
				"to":     to,
				"amount": amount,
			}
			if ref != "" {
				body["external_ref"] = ref
			}

			data, err := post("/api/v1/groups/"+args[0]+"/settlements", body)
			if err != nil {
				return err
			}
			return printBody(data)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Debtor address (0x-hex)")
	cmd.Flags().StringVar(&to, "to", "", "Creditor address (0x-hex)")
	cmd.Flags().StringVar(&amount, "amount", "", "Decimal amount, e.g. 6.25")
	cmd.Flags().StringVar(&ref, "ref", "", "External reference, e.g. a mirror transfer ref")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances <group-id> [member]",
		Short: "Show net balances, whole group or one member",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/groups/" + args[0] + "/balances"
			if len(args) == 2 {
				path += "/" + args[1]
			}

			data, err := get(path)
			if err != nil {
				return err
			}
			return printBody(data)
		},
	}
}

func simplifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simplify <group-id>",
		Short: "Compute the minimal transfer plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := get("/api/v1/groups/" + args[0] + "/simplify")
			if err != nil {
				return err
			}
			return printBody(data)
		},
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <group-id>",
		Short: "Replay mirror settlements and report drift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := post("/api/v1/groups/"+args[0]+"/reconcile", nil)
			if err != nil {
				return err
			}
			return printBody(data)
		},
	}
}

func get(path string) ([]byte, error) {
	return request(http.MethodGet, path, nil)
}

func post(path string, body any) ([]byte, error) {
	return request(http.MethodPost, path, body)
}

func request(method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}

func printBody(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		fmt.Println("OK")
		return nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		fmt.Println(string(data))
		return nil
	}
	printJSON(v)
	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
