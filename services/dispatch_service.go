// services/dispatch_service.go
package services

import (
	"time"

	"boutique-backend/models"
	"boutique-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DispatchService turns a lifecycle event into channel sends: resolve the
// matching flows, load each referenced template, substitute values, send,
// and append a log row per attempt. Send failures degrade to failed rows;
// nothing here aborts the appointment operation that raised the event.
type DispatchService struct {
	db       *gorm.DB
	flows    *FlowService
	whatsapp WhatsAppSender
	mail     MailSender
	sms      SMSSender // optional fallback when a WhatsApp send fails
	log      *zap.Logger
}

func NewDispatchService(db *gorm.DB, whatsapp WhatsAppSender, mail MailSender, sms SMSSender, log *zap.Logger) *DispatchService {
	return &DispatchService{
		db:       db,
		flows:    NewFlowService(db),
		whatsapp: whatsapp,
		mail:     mail,
		sms:      sms,
		log:      log,
	}
}

// TriggerEvent resolves and dispatches every template configured for the
// trigger and the appointment's profile.
func (s *DispatchService) TriggerEvent(trigger string, appt models.Appointment) {
	dispatch, err := s.flows.Resolve(trigger, appt.Profile)
	if err != nil {
		s.log.Error("flow resolution failed",
			zap.String("trigger", trigger), zap.Error(err))
		return
	}
	if len(dispatch.WhatsAppTemplateIDs) == 0 && len(dispatch.MailTemplateIDs) == 0 {
		s.log.Info("no matching flows",
			zap.String("trigger", trigger), zap.String("profile", appt.Profile))
		return
	}
	s.Dispatch(dispatch, trigger, appt)
}

// Dispatch sends the already-resolved template lists.
func (s *DispatchService) Dispatch(dispatch Dispatch, trigger string, appt models.Appointment) {
	for _, id := range dispatch.WhatsAppTemplateIDs {
		s.sendWhatsApp(id, trigger, appt)
	}
	for _, id := range dispatch.MailTemplateIDs {
		s.sendMail(id, trigger, appt)
	}
}

func (s *DispatchService) sendWhatsApp(templateID, trigger string, appt models.Appointment) {
	var template models.WhatsAppTemplate
	if err := s.db.First(&template, "id = ?", templateID).Error; err != nil {
		s.log.Warn("whatsapp template not found",
			zap.String("templateId", templateID), zap.String("trigger", trigger))
		return
	}

	variables := utils.FlexibleMap(template.Variables)
	params := OrderedParams(variables, appt)
	phone, name := s.recipientFor(template.TargetType, appt)

	// The log row carries the final rendered body. Older rows hold the
	// ordered parameter list instead; the renderer reconstructs those at
	// read time.
	body := RenderTemplate(template.Content, variables, appt)

	entry := models.MessageLog{
		Direction:      models.DirectionOutgoing,
		Phone:          phone,
		RecipientName:  name,
		TemplateName:   template.Name,
		MessageContent: body,
		TargetType:     template.TargetType,
		Channel:        models.ChannelWhatsApp,
		AppointmentID:  appt.ID.String(),
		SentAt:         time.Now(),
	}

	metaName := template.MetaTemplateName
	if metaName == "" {
		metaName = template.Name
	}

	providerID, err := s.whatsapp.SendTemplate(phone, metaName, params)
	if err == nil {
		entry.Status = models.StatusSent
		entry.ProviderID = providerID
	} else if s.sms != nil {
		// Channel fallback: deliver the rendered text as plain SMS.
		smsID, smsErr := s.sms.SendText(phone, body)
		if smsErr == nil {
			entry.Status = models.StatusSent
			entry.Channel = models.ChannelSMS
			entry.ProviderID = smsID
		} else {
			entry.Status = models.StatusFailed
			entry.ErrorMessage = err.Error() + "; sms fallback: " + smsErr.Error()
		}
	} else {
		entry.Status = models.StatusFailed
		entry.ErrorMessage = err.Error()
	}

	if entry.Status == models.StatusFailed {
		s.log.Error("whatsapp send failed",
			zap.String("template", template.Name),
			zap.String("phone", utils.FormatPhoneE164(phone)),
			zap.String("error", entry.ErrorMessage))
	}

	if err := s.db.Create(&entry).Error; err != nil {
		s.log.Error("message log write failed", zap.Error(err))
	}
}

func (s *DispatchService) sendMail(templateID, trigger string, appt models.Appointment) {
	var template models.MailTemplate
	if err := s.db.First(&template, "id = ?", templateID).Error; err != nil {
		s.log.Warn("mail template not found",
			zap.String("templateId", templateID), zap.String("trigger", trigger))
		return
	}

	variables := utils.FlexibleMap(template.Variables)
	subject := RenderTemplate(template.Subject, variables, appt)
	body := RenderTemplate(template.Content, variables, appt)

	to := appt.CustomerEmail
	phone, name := s.recipientFor(template.TargetType, appt)
	if template.TargetType == models.TargetStaff {
		to = appt.StaffEmail
	}

	entry := models.MessageLog{
		Direction:      models.DirectionOutgoing,
		Phone:          phone,
		RecipientName:  name,
		TemplateName:   template.Name,
		MessageContent: body, // mail logs the final rendered text
		TargetType:     template.TargetType,
		Channel:        models.ChannelMail,
		AppointmentID:  appt.ID.String(),
		SentAt:         time.Now(),
	}

	if err := s.mail.Send(to, subject, body); err != nil {
		entry.Status = models.StatusFailed
		entry.ErrorMessage = err.Error()
		s.log.Error("mail send failed",
			zap.String("template", template.Name), zap.Error(err))
	} else {
		entry.Status = models.StatusSent
	}

	if err := s.db.Create(&entry).Error; err != nil {
		s.log.Error("message log write failed", zap.Error(err))
	}
}

func (s *DispatchService) recipientFor(targetType string, appt models.Appointment) (phone, name string) {
	if targetType == models.TargetStaff {
		return appt.StaffPhone, appt.StaffName
	}
	name = appt.CustomerName
	if appt.CustomerSurname != "" {
		name += " " + appt.CustomerSurname
	}
	return appt.CustomerPhone, name
}
