// services/reminder_service.go
package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"boutique-backend/models"
	"boutique-backend/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReminderService runs the hourly sweep for time-based flows. Flows with the
// reminder trigger carry a schedule hour; when the wall clock reaches that
// hour the flow fires for every active appointment booked for tomorrow whose
// profile the flow covers.
type ReminderService struct {
	db         *gorm.DB
	dispatcher *DispatchService
	flows      *FlowService
	log        *zap.Logger
}

func NewReminderService(db *gorm.DB, dispatcher *DispatchService, log *zap.Logger) *ReminderService {
	return &ReminderService{
		db:         db,
		dispatcher: dispatcher,
		flows:      NewFlowService(db),
		log:        log,
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Top of every hour
	if _, err := c.AddFunc("0 * * * *", s.RunHourlySweep); err != nil {
		s.log.Error("reminder scheduler setup failed", zap.Error(err))
		return
	}

	c.Start()
	s.log.Info("reminder scheduler started")
}

// RunHourlySweep fires every reminder flow whose schedule hour matches the
// current hour.
func (s *ReminderService) RunHourlySweep() {
	s.SweepAtHour(time.Now().Hour())
}

func (s *ReminderService) SweepAtHour(hour int) {
	var flows []models.NotificationFlow
	if err := s.db.Find(&flows, "trigger = ?", models.TriggerReminder).Error; err != nil {
		s.log.Error("reminder flow fetch failed", zap.Error(err))
		return
	}

	fired := 0
	for _, flow := range flows {
		if !utils.FlexibleBool(flow.Active) {
			continue
		}
		scheduleHour, err := strconv.Atoi(strings.TrimSpace(flow.ScheduleHour))
		if err != nil || scheduleHour != hour {
			continue
		}
		s.fireFlow(flow)
		fired++
	}

	if fired > 0 {
		s.log.Info("reminder sweep completed",
			zap.Int("hour", hour), zap.Int("flowsFired", fired))
	}
}

// fireFlow dispatches the flow's templates to every active appointment
// booked for tomorrow that the flow's profile list covers.
func (s *ReminderService) fireFlow(flow models.NotificationFlow) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var appointments []models.Appointment
	err := s.db.Find(&appointments, "date = ? AND status = ?",
		tomorrow, models.AppointmentActive).Error
	if err != nil {
		s.log.Error("reminder appointment fetch failed",
			zap.String("flow", flow.Name), zap.Error(err))
		return
	}

	dispatch := Dispatch{
		WhatsAppTemplateIDs: utils.FlexibleList(flow.WhatsAppTemplateIDs, nil),
		MailTemplateIDs:     utils.FlexibleList(flow.MailTemplateIDs, nil),
	}

	sent := 0
	for _, appt := range appointments {
		if !FlowAppliesToProfile(flow, appt.Profile) {
			continue
		}
		s.dispatcher.Dispatch(dispatch, models.TriggerReminder, appt)
		sent++
	}

	s.log.Info(fmt.Sprintf("reminder flow %q processed", flow.Name),
		zap.String("date", tomorrow), zap.Int("appointments", sent))
}
