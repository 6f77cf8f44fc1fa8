package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendApplicationSubmitted(ctx context.Context, supervisorEmail, supervisorName, studentName, title string) error {
	subject := fmt.Sprintf("New Application: %s", title)
	body := fmt.Sprintf("Hello %s,\n\n%s has applied to work with you on %q.\n\nPlease review the application in the MentorMatch portal.\n\nBest regards,\nThe MentorMatch Team", supervisorName, studentName, title)
	return s.send(ctx, supervisorEmail, supervisorName, subject, body)
}

func (s *emailService) SendApplicationDecision(ctx context.Context, studentEmail, studentName, title string, status domain.ApplicationStatus, feedback string) error {
	var subject, body string
	switch status {
	case domain.ApplicationStatusApproved:
		subject = fmt.Sprintf("Application Approved: %s", title)
		body = fmt.Sprintf("Hello %s,\n\nCongratulations! Your application %q has been approved.", studentName, title)
	case domain.ApplicationStatusRejected:
		subject = fmt.Sprintf("Application Decision: %s", title)
		body = fmt.Sprintf("Hello %s,\n\nUnfortunately your application %q has been rejected.", studentName, title)
	case domain.ApplicationStatusRevisionRequested:
		subject = fmt.Sprintf("Revision Requested: %s", title)
		body = fmt.Sprintf("Hello %s,\n\nYour supervisor has requested a revision of your application %q. Please edit and resubmit it.", studentName, title)
	default:
		subject = fmt.Sprintf("Application Update: %s", title)
		body = fmt.Sprintf("Hello %s,\n\nYour application %q is now %s.", studentName, title, status)
	}
	if feedback != "" {
		body += fmt.Sprintf("\n\nFeedback: %s", feedback)
	}
	body += "\n\nBest regards,\nThe MentorMatch Team"
	return s.send(ctx, studentEmail, studentName, subject, body)
}

func (s *emailService) SendPartnershipRequest(ctx context.Context, targetEmail, targetName, requesterName string) error {
	subject := "New Partnership Request"
	body := fmt.Sprintf("Hello %s,\n\n%s wants to partner with you. Please respond in the MentorMatch portal.\n\nBest regards,\nThe MentorMatch Team", targetName, requesterName)
	return s.send(ctx, targetEmail, targetName, subject, body)
}

func (s *emailService) SendPartnershipResponse(ctx context.Context, requesterEmail, requesterName, targetName string, accepted bool) error {
	subject := "Partnership Request Update"
	body := fmt.Sprintf("Hello %s,\n\n%s has %s your partnership request.\n\nBest regards,\nThe MentorMatch Team", requesterName, targetName, respondedWord(accepted))
	return s.send(ctx, requesterEmail, requesterName, subject, body)
}

func (s *emailService) SendPendingApplicationReminder(ctx context.Context, supervisorEmail, supervisorName string, pendingCount int) error {
	subject := "Pending Applications Awaiting Review"
	body := fmt.Sprintf("Hello %s,\n\nYou have %d application(s) waiting for your review in the MentorMatch portal.\n\nBest regards,\nThe MentorMatch Team", supervisorName, pendingCount)
	return s.send(ctx, supervisorEmail, supervisorName, subject, body)
}

func (s *emailService) send(_ context.Context, to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	logger.ExternalServiceCall("sendgrid", "Send", "subject", subject)
	response, err := client.Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "Send", err, "subject", subject)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d", response.StatusCode)
		logger.ExternalServiceResult("sendgrid", "Send", err, "status", response.StatusCode, "subject", subject)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "Send", nil, "status", response.StatusCode)
	return nil
}
