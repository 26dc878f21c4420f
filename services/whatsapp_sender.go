// services/whatsapp_sender.go
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"boutique-backend/utils"
)

// WhatsAppSender sends a template message and returns the provider message id.
type WhatsAppSender interface {
	SendTemplate(phone, templateName string, params []string) (string, error)
}

// CloudAPISender talks to the WhatsApp Business Cloud API (Graph API
// template sends). Delivery status callbacks arrive on a separate webhook
// and update log rows by provider message id.
type CloudAPISender struct {
	phoneNumberID string
	accessToken   string
	languageCode  string
	baseURL       string
	client        *http.Client
}

func NewCloudAPISender() *CloudAPISender {
	language := os.Getenv("WHATSAPP_LANGUAGE_CODE")
	if language == "" {
		language = "tr"
	}
	return &CloudAPISender{
		phoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		accessToken:   os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		languageCode:  language,
		baseURL:       "https://graph.facebook.com/v18.0",
		client:        &http.Client{Timeout: 15 * time.Second},
	}
}

type cloudAPIResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (s *CloudAPISender) SendTemplate(phone, templateName string, params []string) (string, error) {
	if s.phoneNumberID == "" || s.accessToken == "" {
		return "", errors.New("whatsapp api not configured")
	}

	to := strings.TrimPrefix(utils.FormatPhoneE164(phone), "+")
	if to == "" {
		return "", errors.New("no resolvable phone")
	}

	parameters := make([]map[string]string, 0, len(params))
	for _, p := range params {
		if p == "" {
			p = "-"
		}
		parameters = append(parameters, map[string]string{"type": "text", "text": p})
	}

	var components []map[string]interface{}
	if len(parameters) > 0 {
		components = append(components, map[string]interface{}{
			"type":       "body",
			"parameters": parameters,
		})
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "template",
		"template": map[string]interface{}{
			"name":       templateName,
			"language":   map[string]string{"code": s.languageCode},
			"components": components,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result cloudAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("whatsapp api: unreadable response: %w", err)
	}
	if len(result.Messages) > 0 {
		return result.Messages[0].ID, nil
	}
	if result.Error != nil {
		return "", fmt.Errorf("whatsapp api: %s (code %d)", result.Error.Message, result.Error.Code)
	}
	return "", fmt.Errorf("whatsapp api: unexpected status %d", resp.StatusCode)
}
