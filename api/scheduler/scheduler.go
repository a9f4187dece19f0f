// Package scheduler runs the periodic background jobs of the dashboard.
// Today that is a single daily digest summarizing the PQRS caseload for
// the operations team.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/citizenvoice/pqrs-dashboard-api/gateways"
	"github.com/citizenvoice/pqrs-dashboard-api/stats"
)

// Scheduler handles periodic background jobs over the case backend
type Scheduler struct {
	cron  *cron.Cron
	Cases gateways.CaseService
}

// New creates a new scheduler instance
func New(cases gateways.CaseService) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithLocation(time.UTC)),
		Cases: cases,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Daily caseload digest at 7 AM UTC
	_, err := s.cron.AddFunc("0 7 * * *", s.runDailyDigest)
	if err != nil {
		zap.S().Errorw("failed to register digest job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("PQRS digest scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("PQRS digest scheduler stopped")
}

func (s *Scheduler) runDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.RunDigest(ctx); err != nil {
		zap.S().Errorw("daily digest failed", "error", err)
	}
}

// RunDigest computes the caseload overview and mails it to DIGEST_TO.
// With no recipient configured the overview is only logged.
func (s *Scheduler) RunDigest(ctx context.Context) error {
	cases, err := s.Cases.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cases for digest: %w", err)
	}

	overview := stats.Compute(cases, time.Now())
	zap.S().Infow("daily PQRS digest",
		"total", overview.Total,
		"anonymous", overview.Anonymous,
		"activeUsers", overview.ActiveUsers,
		"percentageIncrease", overview.PercentageIncrease,
		"avgResponseDays", overview.AvgResponseDays,
	)

	toEmail := os.Getenv("DIGEST_TO")
	if toEmail == "" {
		return nil
	}

	if err := s.sendDigestEmail(toEmail, overview); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}
	zap.S().Infow("digest email sent", "to", toEmail)
	return nil
}

func (s *Scheduler) sendDigestEmail(toEmail string, overview stats.Overview) error {
	from := mail.NewEmail("PQRS Dashboard", "no-reply@citizenvoice.gov.co")
	to := mail.NewEmail("", toEmail)
	subject := fmt.Sprintf("PQRS Daily Digest - %s", time.Now().UTC().Format("2006-01-02"))

	plainText := renderDigestText(overview)
	htmlContent := "<pre>" + plainText + "</pre>"

	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}

func renderDigestText(overview stats.Overview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PQRS caseload overview\n\n")
	fmt.Fprintf(&b, "Total cases: %d\n", overview.Total)
	fmt.Fprintf(&b, "Anonymous: %d, Identified: %d\n", overview.Anonymous, overview.Identified)
	fmt.Fprintf(&b, "Active users: %d (%.0f%% change)\n", overview.ActiveUsers, overview.ActiveUsersChange)
	fmt.Fprintf(&b, "Month-over-month increase: %.0f%%\n", overview.PercentageIncrease)
	fmt.Fprintf(&b, "Average response time: %.1f days\n\n", overview.AvgResponseDays)
	fmt.Fprintf(&b, "By status:\n")
	for status, count := range overview.ByStatus {
		fmt.Fprintf(&b, "  %s: %d\n", status, count)
	}
	fmt.Fprintf(&b, "By type:\n")
	for typ, count := range overview.ByType {
		fmt.Fprintf(&b, "  %s: %d\n", typ, count)
	}
	return b.String()
}
