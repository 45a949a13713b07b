package services

import (
	"context"
	"fmt"
	"time"

	"markethub_backend/internal/email"
	"markethub_backend/internal/identity"
	"markethub_backend/internal/logger"
	"markethub_backend/internal/models"
)

// ApplicationEmailService delivers lifecycle notifications to vendors.
// Every method is best effort: failures are logged and swallowed so
// they never affect the outcome of the domain operation.
type ApplicationEmailService interface {
	SendCreated(ctx context.Context, market *models.Market, business *models.Business, app *models.Application)
	SendAccepted(ctx context.Context, market *models.Market, business *models.Business, app *models.Application)
	SendDeclined(ctx context.Context, market *models.Market, business *models.Business, app *models.Application)
	SendConfirmed(ctx context.Context, market *models.Market, business *models.Business, app *models.Application)
	SendPaymentUpdated(ctx context.Context, market *models.Market, business *models.Business, app *models.Application)
	SendUpdated(ctx context.Context, market *models.Market, business *models.Business, app *models.Application, changedFields []string)
}

type applicationEmailService struct {
	dispatcher *email.Dispatcher
	templates  *email.TemplateManager
	directory  identity.Directory
}

func NewApplicationEmailService(dispatcher *email.Dispatcher, templates *email.TemplateManager, directory identity.Directory) ApplicationEmailService {
	return &applicationEmailService{
		dispatcher: dispatcher,
		templates:  templates,
		directory:  directory,
	}
}

// resolveRecipient prefers the identity provider's email for the business
// owner and falls back to the business profile's contact email
func (s *applicationEmailService) resolveRecipient(ctx context.Context, business *models.Business) (to, name string) {
	if business.Email != nil {
		to = *business.Email
	}
	name = business.ShopName

	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user, err := s.directory.GetUser(lookupCtx, business.OwnerUserID)
	if err != nil {
		logger.CtxDebug(ctx, "identity lookup failed, using business contact email",
			"user_id", business.OwnerUserID, "error", err)
		return to, name
	}
	if user.Email != "" {
		to = user.Email
	}
	if user.Name != "" {
		name = user.Name
	}
	return to, name
}

func (s *applicationEmailService) send(ctx context.Context, templateName, subject string, market *models.Market, business *models.Business, extra func(*email.TemplateData)) {
	to, name := s.resolveRecipient(ctx, business)
	if to == "" {
		logger.CtxWarn(ctx, "no recipient for application email",
			"business_id", business.ID, "template", templateName)
		return
	}

	data := email.TemplateData{
		VendorName:  name,
		ShopName:    business.ShopName,
		MarketName:  market.MarketName,
		MarketDates: formatMarketDates(market),
	}
	if extra != nil {
		extra(&data)
	}

	body, err := s.templates.Render(templateName, data)
	if err != nil {
		logger.CtxWithError(ctx, "failed to render application email", err, "template", templateName)
		return
	}

	s.dispatcher.Enqueue(email.Message{To: to, Subject: subject, HTMLBody: body})
}

func formatMarketDates(market *models.Market) string {
	const layout = "Jan 2, 2006"
	switch {
	case market.StartDate != nil && market.EndDate != nil:
		return fmt.Sprintf("%s to %s", market.StartDate.Format(layout), market.EndDate.Format(layout))
	case market.StartDate != nil:
		return market.StartDate.Format(layout)
	default:
		return ""
	}
}

func (s *applicationEmailService) SendCreated(ctx context.Context, market *models.Market, business *models.Business, app *models.Application) {
	s.send(ctx, email.TemplateApplicationCreated,
		fmt.Sprintf("Application received for %s", market.MarketName),
		market, business, nil)
}

func (s *applicationEmailService) SendAccepted(ctx context.Context, market *models.Market, business *models.Business, app *models.Application) {
	s.send(ctx, email.TemplateApplicationAccepted,
		fmt.Sprintf("You're accepted to %s!", market.MarketName),
		market, business, nil)
}

func (s *applicationEmailService) SendDeclined(ctx context.Context, market *models.Market, business *models.Business, app *models.Application) {
	s.send(ctx, email.TemplateApplicationDeclined,
		fmt.Sprintf("Update on your application to %s", market.MarketName),
		market, business, func(data *email.TemplateData) {
			if app.RejectionReason != nil {
				data.RejectionReason = *app.RejectionReason
			}
		})
}

func (s *applicationEmailService) SendConfirmed(ctx context.Context, market *models.Market, business *models.Business, app *models.Application) {
	s.send(ctx, email.TemplateApplicationConfirmed,
		fmt.Sprintf("Spot confirmed for %s", market.MarketName),
		market, business, nil)
}

func (s *applicationEmailService) SendPaymentUpdated(ctx context.Context, market *models.Market, business *models.Business, app *models.Application) {
	s.send(ctx, email.TemplatePaymentUpdated,
		fmt.Sprintf("Payment update for %s", market.MarketName),
		market, business, func(data *email.TemplateData) {
			if app.PaymentMethod != nil {
				data.PaymentMethod = string(*app.PaymentMethod)
			}
			data.PaymentStatus = string(app.PaymentStatus)
		})
}

func (s *applicationEmailService) SendUpdated(ctx context.Context, market *models.Market, business *models.Business, app *models.Application, changedFields []string) {
	if len(changedFields) == 0 {
		return
	}
	s.send(ctx, email.TemplateApplicationUpdated,
		fmt.Sprintf("Your application to %s was updated", market.MarketName),
		market, business, func(data *email.TemplateData) {
			data.ChangedFields = changedFields
		})
}
