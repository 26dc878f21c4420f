// services/flow_service_test.go
package services

import (
	"testing"

	"boutique-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func makeFlow(name, trigger, profiles, waIDs, mailIDs, active string) models.NotificationFlow {
	return models.NotificationFlow{
		ID:                  uuid.New(),
		Name:                name,
		Trigger:             trigger,
		Profiles:            profiles,
		WhatsAppTemplateIDs: waIDs,
		MailTemplateIDs:     mailIDs,
		Active:              active,
	}
}

func TestResolveFlows_AggregatesAcrossMatchingFlows(t *testing.T) {
	flows := []models.NotificationFlow{
		makeFlow("welcome", models.TriggerAppointmentCreate, `["g","v"]`, `["wa-1"]`, `["mail-1"]`, "true"),
		makeFlow("vip extras", models.TriggerAppointmentCreate, `["v"]`, `["wa-2","wa-3"]`, `[]`, "true"),
		makeFlow("other trigger", models.TriggerAppointmentCancel, `["v"]`, `["wa-4"]`, `[]`, "true"),
	}

	d := ResolveFlows(flows, models.TriggerAppointmentCreate, "v")

	assert.Equal(t, []string{"wa-1", "wa-2", "wa-3"}, d.WhatsAppTemplateIDs)
	assert.Equal(t, []string{"mail-1"}, d.MailTemplateIDs)
}

func TestResolveFlows_InactiveNeverMatches(t *testing.T) {
	tests := []struct {
		name   string
		active string
	}{
		{"false string", "false"},
		{"empty", ""},
		{"mixed case", "True"},
		{"garbage", "aktif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flows := []models.NotificationFlow{
				makeFlow("f", models.TriggerAppointmentCreate, `["g"]`, `["wa-1"]`, `[]`, tt.active),
			}
			d := ResolveFlows(flows, models.TriggerAppointmentCreate, "g")
			assert.Empty(t, d.WhatsAppTemplateIDs)
		})
	}
}

func TestResolveFlows_UppercaseTrueIsActive(t *testing.T) {
	flows := []models.NotificationFlow{
		makeFlow("f", models.TriggerAppointmentCreate, `["g"]`, `["wa-1"]`, `[]`, "TRUE"),
	}
	d := ResolveFlows(flows, models.TriggerAppointmentCreate, "g")
	assert.Equal(t, []string{"wa-1"}, d.WhatsAppTemplateIDs)
}

func TestResolveFlows_ProfileFormsAreEquivalent(t *testing.T) {
	// Stored short code matches a full-key input and vice versa.
	flows := []models.NotificationFlow{
		makeFlow("legacy row", models.TriggerAppointmentCreate, `["v"]`, `["wa-legacy"]`, `[]`, "true"),
		makeFlow("new row", models.TriggerAppointmentCreate, `["vip"]`, `["wa-new"]`, `[]`, "true"),
	}

	for _, input := range []string{"v", "vip"} {
		d := ResolveFlows(flows, models.TriggerAppointmentCreate, input)
		assert.Equal(t, []string{"wa-legacy", "wa-new"}, d.WhatsAppTemplateIDs, "input %q", input)
	}
}

func TestResolveFlows_FanOutAcrossChannels(t *testing.T) {
	// Two active flows for the same trigger and profile, one per channel:
	// both fire, each into its own list.
	flows := []models.NotificationFlow{
		makeFlow("wa confirm", models.TriggerAppointmentCreate, `["individual"]`, `["wa-1"]`, `[]`, "true"),
		makeFlow("mail confirm", models.TriggerAppointmentCreate, `["individual"]`, `[]`, `["mail-1"]`, "true"),
	}

	d := ResolveFlows(flows, models.TriggerAppointmentCreate, "individual")
	assert.Equal(t, []string{"wa-1"}, d.WhatsAppTemplateIDs)
	assert.Equal(t, []string{"mail-1"}, d.MailTemplateIDs)
}

func TestResolveFlows_ChannelsContributeIndependently(t *testing.T) {
	flows := []models.NotificationFlow{
		makeFlow("mail only", models.TriggerAppointmentCreate, `["g"]`, `[]`, `["mail-1"]`, "true"),
	}

	d := ResolveFlows(flows, models.TriggerAppointmentCreate, "g")
	assert.Empty(t, d.WhatsAppTemplateIDs)
	assert.Equal(t, []string{"mail-1"}, d.MailTemplateIDs)
}

func TestResolveFlows_DuplicatesPreserved(t *testing.T) {
	flows := []models.NotificationFlow{
		makeFlow("a", models.TriggerAppointmentCreate, `["g"]`, `["wa-1"]`, `[]`, "true"),
		makeFlow("b", models.TriggerAppointmentCreate, `["g"]`, `["wa-1"]`, `[]`, "true"),
	}

	d := ResolveFlows(flows, models.TriggerAppointmentCreate, "g")
	assert.Equal(t, []string{"wa-1", "wa-1"}, d.WhatsAppTemplateIDs)
}

func TestResolveFlows_MalformedRowDoesNotBlockOthers(t *testing.T) {
	flows := []models.NotificationFlow{
		makeFlow("broken", models.TriggerAppointmentCreate, `[not json`, `[also broken`, `[]`, "true"),
		makeFlow("healthy", models.TriggerAppointmentCreate, `["g"]`, `["wa-ok"]`, `[]`, "true"),
	}

	d := ResolveFlows(flows, models.TriggerAppointmentCreate, "g")
	assert.Equal(t, []string{"wa-ok"}, d.WhatsAppTemplateIDs)
}

func TestResolveFlows_DoublyEncodedListsDecode(t *testing.T) {
	flows := []models.NotificationFlow{
		makeFlow("old client", models.TriggerAppointmentCreate, `"[\"g\"]"`, `"[\"wa-1\"]"`, `[]`, "true"),
	}

	d := ResolveFlows(flows, models.TriggerAppointmentCreate, "g")
	assert.Equal(t, []string{"wa-1"}, d.WhatsAppTemplateIDs)
}

func TestResolveFlows_TriggerIsExact(t *testing.T) {
	flows := []models.NotificationFlow{
		makeFlow("f", models.TriggerAppointmentCreate, `["g"]`, `["wa-1"]`, `[]`, "true"),
	}

	d := ResolveFlows(flows, "appointment", "g")
	assert.Empty(t, d.WhatsAppTemplateIDs)
}

func TestExplainFlows(t *testing.T) {
	flows := []models.NotificationFlow{
		makeFlow("matching", models.TriggerAppointmentCreate, `["v"]`, `["wa-1"]`, `[]`, "true"),
		makeFlow("inactive", models.TriggerAppointmentCreate, `["v"]`, `["wa-2"]`, `[]`, "false"),
		makeFlow("wrong profile", models.TriggerAppointmentCreate, `["g"]`, `["wa-3"]`, `[]`, "true"),
		makeFlow("no templates", models.TriggerAppointmentCreate, `["v"]`, `[]`, `[]`, "true"),
	}

	report := ExplainFlows(flows, models.TriggerAppointmentCreate, "v")

	assert.Equal(t, models.TriggerAppointmentCreate, report.Trigger)
	assert.Equal(t, "v", report.ProfileCode)
	assert.Equal(t, "vip", report.NormalizedProfile)
	assert.Equal(t, 4, report.TotalFlows)
	assert.Equal(t, 1, report.MatchingFlows)
	assert.Contains(t, report.Columns, "whatsapp_template_ids")

	byName := map[string]FlowExplain{}
	for _, fe := range report.Flows {
		byName[fe.Name] = fe
	}

	assert.True(t, byName["matching"].WouldMatchForWhatsApp)
	assert.False(t, byName["matching"].WouldMatchForMail)

	assert.True(t, byName["inactive"].TriggerMatches)
	assert.True(t, byName["inactive"].ProfileMatches)
	assert.False(t, byName["inactive"].Active)
	assert.False(t, byName["inactive"].WouldMatchForWhatsApp)

	assert.False(t, byName["wrong profile"].ProfileMatches)
	assert.Equal(t, []string{"general"}, byName["wrong profile"].Profiles)

	// Matches on trigger and profile but has nothing to send on either channel.
	assert.True(t, byName["no templates"].TriggerMatches)
	assert.True(t, byName["no templates"].ProfileMatches)
	assert.False(t, byName["no templates"].WouldMatchForWhatsApp)
	assert.False(t, byName["no templates"].WouldMatchForMail)
}

func TestExplainFlows_CarriesRawValues(t *testing.T) {
	flows := []models.NotificationFlow{
		makeFlow("f", models.TriggerAppointmentCreate, `["v"]`, `["wa-1"]`, `[]`, "TRUE"),
	}

	report := ExplainFlows(flows, models.TriggerAppointmentCreate, "v")
	assert.Equal(t, "TRUE", report.Flows[0].RawActive)
	assert.True(t, report.Flows[0].Active)
	assert.Equal(t, `["v"]`, report.Flows[0].RawProfiles)
	assert.Equal(t, []string{"vip"}, report.Flows[0].Profiles)
}

func TestFlowAppliesToProfile(t *testing.T) {
	flow := makeFlow("f", models.TriggerReminder, `["v","g"]`, `["wa-1"]`, `[]`, "true")

	assert.True(t, FlowAppliesToProfile(flow, "vip"))
	assert.True(t, FlowAppliesToProfile(flow, "v"))
	assert.True(t, FlowAppliesToProfile(flow, "general"))
	assert.False(t, FlowAppliesToProfile(flow, "boutique"))
}
