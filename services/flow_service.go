// services/flow_service.go
package services

import (
	"boutique-backend/models"
	"boutique-backend/utils"

	"gorm.io/gorm"
)

// Dispatch is the per-channel result of resolving a trigger + profile against
// the flow table: the template ids to send, aggregated across every matching
// flow in discovery order. Duplicates across flows are kept: each flow's
// template is a distinct intended send.
type Dispatch struct {
	WhatsAppTemplateIDs []string `json:"whatsappTemplateIds"`
	MailTemplateIDs     []string `json:"mailTemplateIds"`
}

// FlowExplain is the dry-run record for one flow: why it would or would not
// fire for a supplied trigger and profile, with both raw and normalized field
// values for operator troubleshooting.
type FlowExplain struct {
	FlowID                string   `json:"flowId"`
	Name                  string   `json:"name"`
	Trigger               string   `json:"trigger"`
	RawActive             string   `json:"rawActive"`
	Active                bool     `json:"active"`
	RawProfiles           string   `json:"rawProfiles"`
	Profiles              []string `json:"profiles"` // normalized
	WhatsAppTemplateIDs   []string `json:"whatsappTemplateIds"`
	MailTemplateIDs       []string `json:"mailTemplateIds"`
	TriggerMatches        bool     `json:"triggerMatches"`
	ProfileMatches        bool     `json:"profileMatches"`
	WouldMatchForWhatsApp bool     `json:"wouldMatchForWhatsApp"`
	WouldMatchForMail     bool     `json:"wouldMatchForMail"`
}

// ExplainReport is the full diagnostic response for a trigger/profile pair.
type ExplainReport struct {
	Trigger           string        `json:"trigger"`
	ProfileCode       string        `json:"profileCode"`
	NormalizedProfile string        `json:"normalizedProfile"`
	TotalFlows        int           `json:"totalFlows"`
	MatchingFlows     int           `json:"matchingFlows"`
	Columns           []string      `json:"columns"`
	Flows             []FlowExplain `json:"flows"`
}

// Column names of the flow table, reported by Explain so operators can spot
// rows written with a stale header layout.
var flowColumns = []string{
	"id", "name", "description", "trigger", "profiles",
	"whatsapp_template_ids", "mail_template_ids", "active", "schedule_hour",
}

type FlowService struct {
	db *gorm.DB
}

func NewFlowService(db *gorm.DB) *FlowService {
	return &FlowService{db: db}
}

// Resolve fetches all flow rows and aggregates the applicable template ids
// per channel for the given lifecycle trigger and profile.
func (s *FlowService) Resolve(trigger, profileCode string) (Dispatch, error) {
	var flows []models.NotificationFlow
	if err := s.db.Find(&flows).Error; err != nil {
		return Dispatch{}, err
	}
	return ResolveFlows(flows, trigger, profileCode), nil
}

// Explain runs the matcher in dry-run mode over all flow rows.
func (s *FlowService) Explain(trigger, profileCode string) (ExplainReport, error) {
	var flows []models.NotificationFlow
	if err := s.db.Find(&flows).Error; err != nil {
		return ExplainReport{}, err
	}
	return ExplainFlows(flows, trigger, profileCode), nil
}

// ResolveFlows is the pure matching core over already-fetched rows.
//
// A flow matches iff its active flag is truthy, its trigger equals the input
// exactly, and the normalized input profile is in its normalized profile set.
// A matching flow contributes to a channel only when its template list for
// that channel is non-empty, so a flow can fire for mail without firing for
// WhatsApp. Malformed list fields degrade to empty and contribute nothing; a
// bad row never blocks the rest.
func ResolveFlows(flows []models.NotificationFlow, trigger, profileCode string) Dispatch {
	profile := utils.NormalizeProfile(profileCode)

	var d Dispatch
	for _, flow := range flows {
		if !utils.FlexibleBool(flow.Active) {
			continue
		}
		if flow.Trigger != trigger {
			continue
		}
		if !profileSetContains(utils.FlexibleList(flow.Profiles, nil), profile) {
			continue
		}
		if wa := utils.FlexibleList(flow.WhatsAppTemplateIDs, nil); len(wa) > 0 {
			d.WhatsAppTemplateIDs = append(d.WhatsAppTemplateIDs, wa...)
		}
		if mail := utils.FlexibleList(flow.MailTemplateIDs, nil); len(mail) > 0 {
			d.MailTemplateIDs = append(d.MailTemplateIDs, mail...)
		}
	}
	return d
}

// ExplainFlows evaluates every flow against the inputs without dispatching.
func ExplainFlows(flows []models.NotificationFlow, trigger, profileCode string) ExplainReport {
	profile := utils.NormalizeProfile(profileCode)

	report := ExplainReport{
		Trigger:           trigger,
		ProfileCode:       profileCode,
		NormalizedProfile: profile,
		TotalFlows:        len(flows),
		Columns:           flowColumns,
		Flows:             make([]FlowExplain, 0, len(flows)),
	}

	for _, flow := range flows {
		active := utils.FlexibleBool(flow.Active)
		profiles := normalizeProfiles(utils.FlexibleList(flow.Profiles, nil))
		wa := utils.FlexibleList(flow.WhatsAppTemplateIDs, nil)
		mail := utils.FlexibleList(flow.MailTemplateIDs, nil)

		triggerMatches := flow.Trigger == trigger
		profileMatches := profileSetContains(profiles, profile)
		matches := active && triggerMatches && profileMatches

		fe := FlowExplain{
			FlowID:                flow.ID.String(),
			Name:                  flow.Name,
			Trigger:               flow.Trigger,
			RawActive:             flow.Active,
			Active:                active,
			RawProfiles:           flow.Profiles,
			Profiles:              profiles,
			WhatsAppTemplateIDs:   wa,
			MailTemplateIDs:       mail,
			TriggerMatches:        triggerMatches,
			ProfileMatches:        profileMatches,
			WouldMatchForWhatsApp: matches && len(wa) > 0,
			WouldMatchForMail:     matches && len(mail) > 0,
		}
		if fe.WouldMatchForWhatsApp || fe.WouldMatchForMail {
			report.MatchingFlows++
		}
		report.Flows = append(report.Flows, fe)
	}
	return report
}

// FlowAppliesToProfile reports whether a single flow covers the given profile
// code. Used by the reminder sweep, which selects flows by schedule instead
// of trigger.
func FlowAppliesToProfile(flow models.NotificationFlow, profileCode string) bool {
	return profileSetContains(utils.FlexibleList(flow.Profiles, nil), utils.NormalizeProfile(profileCode))
}

// profileSetContains compares against the normalized form of each stored
// entry, so rows holding legacy short codes and rows holding full keys match
// the same way.
func profileSetContains(profiles []string, normalized string) bool {
	for _, p := range profiles {
		if utils.NormalizeProfile(p) == normalized {
			return true
		}
	}
	return false
}

func normalizeProfiles(profiles []string) []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, utils.NormalizeProfile(p))
	}
	return out
}
