package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"

	"campustrade-backend/internal/domain"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *emailService) SendTradeStatusNotification(ctx context.Context, email, name, productName string, status domain.TradeStatus) error {
	subject := fmt.Sprintf("Trade Update - %s", productName)
	body := fmt.Sprintf("Hello %s,\n\nYour trade involving %s is now %s.\n\nBest regards,\nThe CampusTrade Team",
		name, productName, status)
	return s.send(email, subject, body)
}

func (s *emailService) SendFeeDeductionNotification(ctx context.Context, email, name, source string, amount, newBalance decimal.Decimal) error {
	subject := "Platform Fee Deducted"
	body := fmt.Sprintf("Hello %s,\n\n%s.\n\nAmount deducted: ₱%s\nNew wallet balance: ₱%s\n\nBest regards,\nThe CampusTrade Team",
		name, source, amount, newBalance)
	return s.send(email, subject, body)
}

func (s *emailService) SendWalletAdjustmentNotification(ctx context.Context, email, name, reason string, amount decimal.Decimal) error {
	subject := "Wallet Balance Adjusted"
	body := fmt.Sprintf("Hello %s,\n\nAn administrator adjusted your wallet balance by ₱%s.\n\nReason: %s\n\nBest regards,\nThe CampusTrade Team",
		name, amount, reason)
	return s.send(email, subject, body)
}
