package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"schedulecall/internal/booking"
	"schedulecall/internal/client"
	"schedulecall/internal/config"
	"schedulecall/internal/models"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	timeout   time.Duration
	req       models.BookingRequest
)

var rootCmd = &cobra.Command{
	Use:   "schedulectl",
	Short: "Submit and preview schedule-call bookings",
}

// bookCmd posts a booking to a running server
var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Submit a booking to a schedule-call server",
	RunE:  runBook,
}

// previewCmd renders both emails locally without sending anything
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the admin and user emails for a booking",
	RunE:  runPreview,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&req.Name, "name", "", "Submitter name")
	rootCmd.PersistentFlags().StringVar(&req.Email, "email", "", "Submitter email")
	rootCmd.PersistentFlags().StringVar(&req.Date, "date", "", "Requested date")
	rootCmd.PersistentFlags().StringVar(&req.Time, "time", "", "Requested time")
	rootCmd.PersistentFlags().StringVar(&req.Message, "message", "", "Message to the owner")

	bookCmd.Flags().StringVar(&serverURL, "url", "http://localhost:5000", "Server base URL")
	bookCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	previewCmd.Flags().String("admin", "owner@example.com", "Admin address used in the preview")

	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(previewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBook(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.New(serverURL, timeout).Schedule(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "booking submitted")
	return nil
}

func runPreview(cmd *cobra.Command, _ []string) error {
	if err := booking.Validate(req); err != nil {
		return err
	}
	admin, _ := cmd.Flags().GetString("admin")

	composer := booking.NewComposer(config.DefaultAdminSender, config.DefaultUserSender, config.DefaultOwnerName)
	adminMsg, err := composer.AdminNotification(req, admin)
	if err != nil {
		return err
	}
	userMsg, err := composer.UserConfirmation(req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, msg := range []models.EmailMessage{adminMsg, userMsg} {
		fmt.Fprintf(out, "From: %s\nTo: %s\nSubject: %s\n\n%s\n\n", msg.From, msg.To, msg.Subject, msg.HTML)
	}
	return nil
}
