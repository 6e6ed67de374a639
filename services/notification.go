package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	"cofondo-backend/config"
	"cofondo-backend/database"
	"cofondo-backend/models"
	"cofondo-backend/utils"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"
)

type NotificationService struct {
	email *sendgrid.Client
	push  *messaging.Client
}

var notifService *NotificationService

func GetNotificationService() *NotificationService {
	if notifService == nil {
		notifService = &NotificationService{}

		if config.AppConfig.SendGridAPIKey != "" {
			notifService.email = sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
		}

		app, err := firebase.NewApp(context.Background(), nil,
			option.WithCredentialsFile(config.AppConfig.FirebaseCredPath))
		if err != nil {
			log.Println("⚠️  Firebase not configured, running without push:", err)
		} else if client, err := app.Messaging(context.Background()); err != nil {
			log.Println("⚠️  Firebase messaging unavailable:", err)
		} else {
			notifService.push = client
		}
	}
	return notifService
}

func (ns *NotificationService) sendPush(fcmToken string, title string, body string, data map[string]string) {
	if ns.push == nil || fcmToken == "" {
		return
	}

	_, err := ns.push.Send(context.Background(), &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	if err != nil {
		log.Printf("❌ FCM send error: %v", err)
		return
	}
	log.Printf("✅ Push notification sent: %s", title)
}

func (ns *NotificationService) sendEmail(toEmail string, toName string, subject string, htmlBody string) {
	if ns.email == nil {
		log.Printf("⚠️  SendGrid not configured, skipping email to %s", toEmail)
		return
	}

	from := mail.NewEmail(config.AppConfig.AppName, config.AppConfig.SendGridFrom)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	resp, err := ns.email.Send(message)
	if err != nil {
		log.Printf("❌ Email send error: %v", err)
		return
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Printf("✅ Email sent to %s", toEmail)
	} else {
		log.Printf("⚠️  SendGrid returned status: %d", resp.StatusCode)
	}
}

// ============================================================
// NOTIFICATION EVENTS
// ============================================================

// NotifyProposalCreated pings every member except the initiator so they can
// cast their vote inside the 24h window.
func (ns *NotificationService) NotifyProposalCreated(group models.Group, p models.Proposal) {
	title := fmt.Sprintf("New vote in %s", group.Name)
	body := p.Title

	for _, m := range group.Members {
		if m.Wallet == p.InitiatedBy {
			continue
		}

		var user models.User
		if err := database.DB.Where("wallet = ?", m.Wallet).First(&user).Error; err != nil {
			continue
		}

		ns.sendPush(user.FCMToken, title, body, map[string]string{
			"type":        "proposal_created",
			"proposal_id": fmt.Sprint(p.ID),
			"group_id":    fmt.Sprint(group.ID),
		})

		if user.Email != "" {
			htmlBody := buildProposalEmailHTML(user.Name, group.Name, p)
			ns.sendEmail(user.Email, user.Name, title, htmlBody)
		}
	}
}

// NotifyProposalSettled fires after the settlement pass commits an approved
// proposal's effect.
func (ns *NotificationService) NotifyProposalSettled(p models.Proposal) {
	var group models.Group
	if err := database.DB.First(&group, p.GroupID).Error; err != nil {
		return
	}

	switch p.Kind {
	case models.ProposalInvite:
		var user models.User
		if err := database.DB.Where("wallet = ?", p.TargetWallet).First(&user).Error; err != nil {
			return // invited wallet has no profile yet, nothing to reach
		}

		title := fmt.Sprintf("You were added to \"%s\"", group.Name)
		ns.sendPush(user.FCMToken, title, "The group approved your invitation", map[string]string{
			"type":     "member_added",
			"group_id": fmt.Sprint(group.ID),
		})
		if user.Email != "" {
			ns.sendEmail(user.Email, user.Name, title, buildMemberAddedEmailHTML(user.Name, group.Name))
		}

	case models.ProposalFundRequest:
		var members []models.GroupMember
		database.DB.Where("group_id = ?", group.ID).Find(&members)

		title := fmt.Sprintf("Funds released from %s", group.Name)
		body := fmt.Sprintf("%.4f ETH sent to %s for \"%s\"", p.Amount, utils.ShortAddress(p.Destination), p.Purpose)
		for _, m := range members {
			var user models.User
			if err := database.DB.Where("wallet = ?", m.Wallet).First(&user).Error; err != nil {
				continue
			}
			ns.sendPush(user.FCMToken, title, body, map[string]string{
				"type":     "funds_released",
				"group_id": fmt.Sprint(group.ID),
			})
		}
	}
}

// ============================================================
// EMAIL TEMPLATES
// ============================================================

func buildProposalEmailHTML(userName, groupName string, p models.Proposal) string {
	tmpl := `
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">🗳️ New vote in {{.GroupName}}</h2>
		<p>Hi <strong>{{.UserName}}</strong>,</p>
		<p><strong>{{.Title}}</strong></p>
		<p>{{.Description}}</p>
		<p>The vote closes 24 hours after it was opened. Open the app to cast yours.</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— {{.AppName}}</p>
	</div>
</body>
</html>`

	t, _ := template.New("proposal").Parse(tmpl)
	var buf bytes.Buffer
	t.Execute(&buf, map[string]interface{}{
		"UserName":    userName,
		"GroupName":   groupName,
		"Title":       p.Title,
		"Description": p.Description,
		"AppName":     config.AppConfig.AppName,
	})
	return buf.String()
}

func buildMemberAddedEmailHTML(memberName, groupName string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">👋 Welcome to the fund!</h2>
		<p>Hi <strong>%s</strong>,</p>
		<p>The members of <strong>"%s"</strong> voted to add you to their shared fund.</p>
		<p>Open the app to see the group balance and upcoming votes.</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— %s</p>
	</div>
</body>
</html>`, memberName, groupName, config.AppConfig.AppName)
}
