package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	var username, password string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password required")
			}
			return call(http.MethodPost, "/api/auth/login", map[string]string{
				"username": username, "password": password,
			})
		},
	}
	loginCmd.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "password (required)")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/items", nil)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "buckets",
		Short: "Show items grouped by due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/items/buckets", nil)
		},
	})

	var title, category, due, recurrence, priority string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"title": title}
			if category != "" {
				payload["category"] = category
			}
			if due != "" {
				payload["dueDate"] = due
			}
			if recurrence != "" {
				payload["recurrence"] = recurrence
			}
			if priority != "" {
				payload["priority"] = priority
			}
			return call(http.MethodPost, "/api/items", payload)
		},
	}
	addCmd.Flags().StringVar(&title, "title", "", "item title (required)")
	addCmd.Flags().StringVar(&category, "category", "", "category label")
	addCmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD")
	addCmd.Flags().StringVar(&recurrence, "recurrence", "", "none|daily|weekly|monthly|yearly|monthly-N")
	addCmd.Flags().StringVar(&priority, "priority", "", "low|medium|high")
	_ = addCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(addCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "complete ITEM_ID",
		Short: "Toggle completion (recurring items birth a successor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/items/"+args[0]+"/complete", nil)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "duplicate ITEM_ID",
		Short: "Duplicate an item with fresh ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/items/"+args[0]+"/duplicate", nil)
		},
	})

	var mode string
	snoozeCmd := &cobra.Command{
		Use:   "snooze ITEM_ID",
		Short: "Push an item's due date out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/items/"+args[0]+"/snooze", map[string]string{"mode": mode})
		},
	}
	snoozeCmd.Flags().StringVar(&mode, "mode", "tomorrow", "tomorrow|nextWeek")
	rootCmd.AddCommand(snoozeCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "summarize",
		Short: "Ask the assistant for the monthly overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/assistant/summary", nil)
		},
	})

	var query string
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask the assistant a question about your items",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return fmt.Errorf("--query required")
			}
			return call(http.MethodPost, "/api/assistant/chat", map[string]interface{}{"query": query})
		},
	}
	chatCmd.Flags().StringVarP(&query, "query", "q", "", "question text (required)")
	_ = chatCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(chatCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Show sync status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/sync/status", nil)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "flush",
		Short: "Force a push to the remote sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/sync/flush", nil)
		},
	})
}
