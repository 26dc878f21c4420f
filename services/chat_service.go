// services/chat_service.go
package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"boutique-backend/models"
	"boutique-backend/utils"

	"gorm.io/gorm"
)

// Contact is a derived conversation head, keyed by normalized phone. It is
// never persisted; every read rebuilds the full set from the message log.
type Contact struct {
	PhoneKey        string    `json:"phoneKey"`
	Phone           string    `json:"phone"` // display form
	Name            string    `json:"name"`
	ContactType     string    `json:"contactType"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	UnreadCount     int       `json:"unreadCount"`
}

// ReadMarkerStore persists the per-contact last-read watermark. It is the
// only durable state the aggregation owns and is written through immediately
// on contact selection.
type ReadMarkerStore interface {
	LastRead(phoneKey string) (time.Time, bool)
	SetLastRead(phoneKey string, t time.Time) error
}

// GormReadMarkers keeps watermarks in the read_markers table.
type GormReadMarkers struct {
	db *gorm.DB
}

func NewGormReadMarkers(db *gorm.DB) *GormReadMarkers {
	return &GormReadMarkers{db: db}
}

func (m *GormReadMarkers) LastRead(phoneKey string) (time.Time, bool) {
	var marker models.ReadMarker
	err := m.db.First(&marker, "phone_key = ?", phoneKey).Error
	if err != nil {
		return time.Time{}, false
	}
	return marker.LastRead, true
}

func (m *GormReadMarkers) SetLastRead(phoneKey string, t time.Time) error {
	marker := models.ReadMarker{PhoneKey: phoneKey, LastRead: t}
	return m.db.Save(&marker).Error
}

type ChatService struct {
	db      *gorm.DB
	markers ReadMarkerStore
}

func NewChatService(db *gorm.DB, markers ReadMarkerStore) *ChatService {
	return &ChatService{db: db, markers: markers}
}

// Contacts rebuilds the full contact list from the message log, most recent
// conversation first. term filters by name or phone; empty keeps everything.
func (s *ChatService) Contacts(term string) ([]Contact, error) {
	log, err := s.fetchLog()
	if err != nil {
		return nil, err
	}
	contacts := BuildContacts(log, s.markers)
	return FilterContacts(contacts, term), nil
}

// Thread returns one contact's messages in chronological order, with display
// bodies resolved against the current template definitions.
func (s *ChatService) Thread(phone string) ([]models.MessageLog, error) {
	key := utils.PhoneKey(phone)
	if key == "" {
		return nil, errors.New("no resolvable phone")
	}
	log, err := s.fetchLog()
	if err != nil {
		return nil, err
	}
	lookup := s.TemplateLookup()
	thread := ThreadFor(log, key)
	for i := range thread {
		thread[i].MessageContent = RenderMessage(thread[i], lookup)
	}
	return thread, nil
}

// MarkRead sets the contact's watermark to now, written through immediately
// so a refresh straight after reflects zero unread.
func (s *ChatService) MarkRead(phone string) error {
	key := utils.PhoneKey(phone)
	if key == "" {
		return errors.New("no resolvable phone")
	}
	return s.markers.SetLastRead(key, time.Now())
}

// TemplateLookup resolves logged template names against both template
// tables, WhatsApp first.
func (s *ChatService) TemplateLookup() TemplateLookup {
	return func(name string) (string, map[string]string, bool) {
		var wa models.WhatsAppTemplate
		if err := s.db.First(&wa, "name = ?", name).Error; err == nil {
			return wa.Content, utils.FlexibleMap(wa.Variables), true
		}
		var mail models.MailTemplate
		if err := s.db.First(&mail, "name = ?", name).Error; err == nil {
			return mail.Content, utils.FlexibleMap(mail.Variables), true
		}
		return "", nil, false
	}
}

func (s *ChatService) fetchLog() ([]models.MessageLog, error) {
	var log []models.MessageLog
	if err := s.db.Order("sent_at asc").Find(&log).Error; err != nil {
		return nil, err
	}
	return log, nil
}

// identity is the system's own record of who it believed a phone belongs to,
// taken from outgoing sends.
type identity struct {
	name       string
	targetType string
}

// BuildContacts groups the bidirectional log into per-contact conversation
// heads. Two independent passes, not one: the authoritative display identity
// for a phone comes from outgoing messages, yet incoming messages may arrive
// for a phone before any outgoing one exists, so a single pass would have to
// patch names retroactively.
func BuildContacts(log []models.MessageLog, markers ReadMarkerStore) []Contact {
	// Pass 1: first-seen outgoing identity per phone.
	identities := map[string]identity{}
	for _, entry := range log {
		if entry.Direction != models.DirectionOutgoing {
			continue
		}
		key := utils.PhoneKey(entry.Phone)
		if key == "" || entry.RecipientName == "" {
			continue
		}
		if _, seen := identities[key]; !seen {
			identities[key] = identity{name: entry.RecipientName, targetType: entry.TargetType}
		}
	}

	// Pass 2: group in original order; entries without a resolvable phone
	// cannot be threaded and are skipped (they stay in the log).
	contactMap := map[string]*Contact{}
	var order []string
	for _, entry := range log {
		key := utils.PhoneKey(entry.Phone)
		if key == "" {
			continue
		}

		contact, seen := contactMap[key]
		if !seen {
			contact = &Contact{
				PhoneKey: key,
				Phone:    utils.FormatPhoneDisplay(entry.Phone),
			}
			if id, ok := identities[key]; ok {
				contact.Name = id.name
				contact.ContactType = id.targetType
			} else if entry.RecipientName != "" {
				contact.Name = entry.RecipientName
				contact.ContactType = entry.TargetType
			} else {
				contact.Name = utils.FormatPhoneDisplay(entry.Phone)
			}
			contactMap[key] = contact
			order = append(order, key)
		}

		if entry.SentAt.After(contact.LastMessageTime) {
			contact.LastMessageTime = entry.SentAt
			contact.LastMessage = previewOf(entry)
		}

		if entry.Direction == models.DirectionIncoming && isUnread(entry, key, markers) {
			contact.UnreadCount++
		}
	}

	contacts := make([]Contact, 0, len(order))
	for _, key := range order {
		contacts = append(contacts, *contactMap[key])
	}
	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].LastMessageTime.After(contacts[j].LastMessageTime)
	})
	return contacts
}

// isUnread: an incoming entry counts as unread when its timestamp exceeds the
// contact's watermark; a missing watermark means everything is unread.
func isUnread(entry models.MessageLog, key string, markers ReadMarkerStore) bool {
	if markers == nil {
		return true
	}
	watermark, ok := markers.LastRead(key)
	if !ok {
		return true
	}
	return entry.SentAt.After(watermark)
}

// ThreadFor extracts one contact's messages in chronological order.
func ThreadFor(log []models.MessageLog, phoneKey string) []models.MessageLog {
	var thread []models.MessageLog
	for _, entry := range log {
		if utils.PhoneKey(entry.Phone) == phoneKey {
			thread = append(thread, entry)
		}
	}
	sort.SliceStable(thread, func(i, j int) bool {
		return thread[i].SentAt.Before(thread[j].SentAt)
	})
	return thread
}

// FilterContacts narrows by case-insensitive name substring or digit-only
// phone substring. Never mutates the input.
func FilterContacts(contacts []Contact, term string) []Contact {
	term = strings.TrimSpace(term)
	if term == "" {
		return contacts
	}
	nameTerm := strings.ToLower(term)
	digitTerm := utils.PhoneDigits(term)

	var out []Contact
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), nameTerm) {
			out = append(out, c)
			continue
		}
		if digitTerm != "" && strings.Contains(c.PhoneKey, digitTerm) {
			out = append(out, c)
		}
	}
	return out
}

func previewOf(entry models.MessageLog) string {
	content := entry.MessageContent
	if content == "" && entry.TemplateName != "" {
		content = "[Şablon: " + entry.TemplateName + "]"
	}
	if runes := []rune(content); len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return content
}
