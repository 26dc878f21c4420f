// services/variables.go
package services

import (
	"fmt"
	"strings"
	"time"

	"boutique-backend/models"
	"boutique-backend/utils"
)

var trMonths = []string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

var trDays = []string{"Pazar", "Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi"}

var appointmentTypeLabels = map[string]string{
	models.AppointmentMeeting:    "Görüşme",
	models.AppointmentDelivery:   "Teslim",
	models.AppointmentShipping:   "Gönderi",
	models.AppointmentService:    "Teknik Servis",
	models.AppointmentManagement: "Yönetim",
}

// FormatTurkishDate renders an ISO date as "25 Aralık 2025, Perşembe".
// Already formatted input passes through.
func FormatTurkishDate(dateStr string) string {
	if dateStr == "" {
		return ""
	}
	for _, m := range trMonths {
		if strings.Contains(dateStr, m) {
			return dateStr
		}
	}
	if len(dateStr) < 10 {
		return dateStr
	}
	d, err := time.Parse("2006-01-02", dateStr[:10])
	if err != nil {
		return dateStr
	}
	return fmt.Sprintf("%d %s %d, %s", d.Day(), trMonths[int(d.Month())-1], d.Year(), trDays[int(d.Weekday())])
}

// messageVariable describes one substitutable template variable: its display
// label for previews and how to extract its value from appointment data.
type messageVariable struct {
	Label    string
	GetValue func(appt models.Appointment) string
}

// Canonical variable catalog. Keys are the semantic names referenced by the
// templates' position->variable maps.
var messageVariables = map[string]messageVariable{
	"musteri": {
		Label: "Müşteri",
		GetValue: func(a models.Appointment) string {
			if a.CustomerSurname != "" {
				return a.CustomerName + " " + a.CustomerSurname
			}
			return a.CustomerName
		},
	},
	"musteri_tel": {
		Label:    "Müşteri Telefonu",
		GetValue: func(a models.Appointment) string { return utils.FormatPhoneE164(a.CustomerPhone) },
	},
	"musteri_mail": {
		Label:    "Müşteri E-postası",
		GetValue: func(a models.Appointment) string { return a.CustomerEmail },
	},
	"randevu_tarihi": {
		Label:    "Randevu Tarihi",
		GetValue: func(a models.Appointment) string { return FormatTurkishDate(a.Date) },
	},
	"randevu_saati": {
		Label:    "Randevu Saati",
		GetValue: func(a models.Appointment) string { return a.Time },
	},
	"randevu_turu": {
		Label: "Randevu Türü",
		GetValue: func(a models.Appointment) string {
			if label, ok := appointmentTypeLabels[a.AppointmentType]; ok {
				return label
			}
			return a.AppointmentType
		},
	},
	"randevu_profili": {
		Label:    "Randevu Profili",
		GetValue: func(a models.Appointment) string { return utils.ProfileLabel(a.Profile) },
	},
	"randevu_ek_bilgi": {
		Label:    "Randevu Notu",
		GetValue: func(a models.Appointment) string { return a.Note },
	},
	"personel": {
		Label: "Personel",
		GetValue: func(a models.Appointment) string {
			if a.StaffName == "" {
				return "Atanacak"
			}
			return a.StaffName
		},
	},
	"personel_tel": {
		Label:    "Personel Telefonu",
		GetValue: func(a models.Appointment) string { return utils.FormatPhoneE164(a.StaffPhone) },
	},
	"personel_mail": {
		Label:    "Personel E-postası",
		GetValue: func(a models.Appointment) string { return a.StaffEmail },
	},
}

// VariableLabel returns the human-readable label for a variable key, falling
// back to the raw key for anything not in the catalog.
func VariableLabel(key string) string {
	if v, ok := messageVariables[key]; ok {
		return v.Label
	}
	return key
}

// VariableKnown reports whether a key exists in the catalog.
func VariableKnown(key string) bool {
	_, ok := messageVariables[key]
	return ok
}

// VariableValue resolves a variable key against appointment data; unknown
// keys yield "".
func VariableValue(key string, appt models.Appointment) string {
	if v, ok := messageVariables[key]; ok {
		return v.GetValue(appt)
	}
	return ""
}

// VariableKeys lists the catalog keys for the template editor.
func VariableKeys() []string {
	return []string{
		"musteri", "musteri_tel", "musteri_mail",
		"randevu_tarihi", "randevu_saati", "randevu_turu",
		"randevu_profili", "randevu_ek_bilgi",
		"personel", "personel_tel", "personel_mail",
	}
}
