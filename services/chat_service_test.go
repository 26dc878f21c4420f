// services/chat_service_test.go
package services

import (
	"testing"
	"time"

	"boutique-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryMarkers struct {
	marks map[string]time.Time
}

func newMemoryMarkers() *memoryMarkers {
	return &memoryMarkers{marks: map[string]time.Time{}}
}

func (m *memoryMarkers) LastRead(phoneKey string) (time.Time, bool) {
	t, ok := m.marks[phoneKey]
	return t, ok
}

func (m *memoryMarkers) SetLastRead(phoneKey string, t time.Time) error {
	m.marks[phoneKey] = t
	return nil
}

func at(minutes int) time.Time {
	return time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}

func outgoing(phone, name, content string, sentAt time.Time) models.MessageLog {
	return models.MessageLog{
		Direction:      models.DirectionOutgoing,
		Phone:          phone,
		RecipientName:  name,
		MessageContent: content,
		TargetType:     models.TargetCustomer,
		SentAt:         sentAt,
	}
}

func incoming(phone, content string, sentAt time.Time) models.MessageLog {
	return models.MessageLog{
		Direction:      models.DirectionIncoming,
		Phone:          phone,
		MessageContent: content,
		SentAt:         sentAt,
	}
}

func TestBuildContacts_GroupsEquivalentPhoneSpellings(t *testing.T) {
	log := []models.MessageLog{
		outgoing("0555 123 45 67", "Ada Demir", "Randevunuz oluşturuldu", at(0)),
		incoming("+905551234567", "Teşekkürler", at(1)),
		incoming("5551234567", "Görüşürüz", at(2)),
	}

	contacts := BuildContacts(log, newMemoryMarkers())
	require.Len(t, contacts, 1)
	assert.Equal(t, "905551234567", contacts[0].PhoneKey)
	assert.Equal(t, "Ada Demir", contacts[0].Name)
	assert.Equal(t, "Görüşürüz", contacts[0].LastMessage)
	assert.Equal(t, at(2), contacts[0].LastMessageTime)
}

func TestBuildContacts_OutgoingIdentityWins(t *testing.T) {
	// Incoming arrives first; the outgoing send later establishes who the
	// phone belongs to, and that identity is used even for the earlier rows.
	log := []models.MessageLog{
		incoming("05551234567", "Merhaba", at(0)),
		outgoing("+905551234567", "Ada Demir", "Buyrun", at(1)),
	}

	contacts := BuildContacts(log, newMemoryMarkers())
	require.Len(t, contacts, 1)
	assert.Equal(t, "Ada Demir", contacts[0].Name)
}

func TestBuildContacts_FirstOutgoingNameKept(t *testing.T) {
	log := []models.MessageLog{
		outgoing("05551234567", "Ada Demir", "a", at(0)),
		outgoing("05551234567", "A. Demir", "b", at(1)),
	}

	contacts := BuildContacts(log, newMemoryMarkers())
	require.Len(t, contacts, 1)
	assert.Equal(t, "Ada Demir", contacts[0].Name)
}

func TestBuildContacts_NoIdentityFallsBackToPhone(t *testing.T) {
	log := []models.MessageLog{
		incoming("05551234567", "Merhaba", at(0)),
	}

	contacts := BuildContacts(log, newMemoryMarkers())
	require.Len(t, contacts, 1)
	assert.Equal(t, "+90 555 123 4567", contacts[0].Name)
}

func TestBuildContacts_SkipsUnresolvablePhones(t *testing.T) {
	log := []models.MessageLog{
		incoming("", "kim", at(0)),
		outgoing("05551234567", "Ada Demir", "a", at(1)),
	}

	contacts := BuildContacts(log, newMemoryMarkers())
	assert.Len(t, contacts, 1)
}

func TestBuildContacts_SortedByRecency(t *testing.T) {
	log := []models.MessageLog{
		outgoing("05551111111", "Eski", "a", at(0)),
		outgoing("05552222222", "Yeni", "b", at(5)),
	}

	contacts := BuildContacts(log, newMemoryMarkers())
	require.Len(t, contacts, 2)
	assert.Equal(t, "Yeni", contacts[0].Name)
	assert.Equal(t, "Eski", contacts[1].Name)
}

func TestBuildContacts_UnreadAgainstWatermark(t *testing.T) {
	markers := newMemoryMarkers()
	require.NoError(t, markers.SetLastRead("905551234567", at(1)))

	log := []models.MessageLog{
		incoming("05551234567", "okundu", at(0)),
		incoming("05551234567", "okundu", at(1)), // not after the watermark
		incoming("05551234567", "yeni", at(2)),
		incoming("05551234567", "yeni", at(3)),
		outgoing("05551234567", "Ada Demir", "cevap", at(4)), // outgoing never counts
	}

	contacts := BuildContacts(log, markers)
	require.Len(t, contacts, 1)
	assert.Equal(t, 2, contacts[0].UnreadCount)
}

func TestBuildContacts_MissingWatermarkCountsEverything(t *testing.T) {
	log := []models.MessageLog{
		incoming("05551234567", "a", at(0)),
		incoming("05551234567", "b", at(1)),
	}

	contacts := BuildContacts(log, newMemoryMarkers())
	require.Len(t, contacts, 1)
	assert.Equal(t, 2, contacts[0].UnreadCount)
}

func TestBuildContacts_PreviewTruncation(t *testing.T) {
	long := "Bu mesaj elli karakterden uzun olduğu için kesilecek ve sonuna üç nokta eklenecek"
	log := []models.MessageLog{
		incoming("05551234567", long, at(0)),
	}

	contacts := BuildContacts(log, newMemoryMarkers())
	require.Len(t, contacts, 1)
	assert.Equal(t, string([]rune(long)[:50])+"...", contacts[0].LastMessage)
}

func TestBuildContacts_TemplateOnlyPreview(t *testing.T) {
	log := []models.MessageLog{
		{
			Direction:    models.DirectionOutgoing,
			Phone:        "05551234567",
			TemplateName: "randevu-onay",
			SentAt:       at(0),
		},
	}

	contacts := BuildContacts(log, newMemoryMarkers())
	require.Len(t, contacts, 1)
	assert.Equal(t, "[Şablon: randevu-onay]", contacts[0].LastMessage)
}

func TestThreadFor(t *testing.T) {
	log := []models.MessageLog{
		outgoing("05551234567", "Ada Demir", "c", at(2)),
		incoming("+905551234567", "a", at(0)),
		outgoing("05559999999", "Başkası", "x", at(1)),
		incoming("5551234567", "b", at(1)),
	}

	thread := ThreadFor(log, "905551234567")
	require.Len(t, thread, 3)
	assert.Equal(t, "a", thread[0].MessageContent)
	assert.Equal(t, "b", thread[1].MessageContent)
	assert.Equal(t, "c", thread[2].MessageContent)
}

func TestFilterContacts(t *testing.T) {
	contacts := []Contact{
		{PhoneKey: "905551234567", Name: "Ada Demir"},
		{PhoneKey: "905559876543", Name: "Banu Koç"},
	}

	tests := []struct {
		name     string
		term     string
		expected []string
	}{
		{"empty keeps all", "", []string{"Ada Demir", "Banu Koç"}},
		{"name substring case-insensitive", "ada", []string{"Ada Demir"}},
		{"digit substring", "9876", []string{"Banu Koç"}},
		{"formatted phone digits", "0555 123", []string{"Ada Demir"}},
		{"no match", "cem", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterContacts(contacts, tt.term)
			var names []string
			for _, c := range got {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}
