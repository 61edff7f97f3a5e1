package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/ridexchange/dealer-api/internal/config"
	"github.com/ridexchange/dealer-api/internal/model"
)

type Service interface {
	SendBookingConfirmation(ctx context.Context, booking *model.ServiceBooking) error
}

// NewService returns an SMTP-backed mailer, or a no-op one when SMTP is
// not configured.
func NewService(cfg config.SMTPConfig) Service {
	if cfg.Host == "" {
		return &noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, booking *model.ServiceBooking) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", booking.CustomerEmail)
	m.SetHeader("Subject", "Your service appointment is booked")
	m.SetBody("text/plain", confirmationBody(booking))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

func confirmationBody(b *model.ServiceBooking) string {
	return fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your service appointment has been received and is pending confirmation.\n\n"+
			"Vehicle:  %d %s %s\n"+
			"Date:     %s\n"+
			"Time:     %s - %s\n"+
			"Booking:  %s\n\n"+
			"We will contact you if anything changes.\n",
		b.CustomerName,
		b.VehicleYear, b.VehicleMake, b.VehicleModel,
		b.ServiceDate.Format("Monday, 2 January 2006"),
		b.StartTime, b.EndTime,
		b.ID,
	)
}

type noopService struct{}

func (s *noopService) SendBookingConfirmation(ctx context.Context, booking *model.ServiceBooking) error {
	return nil
}
