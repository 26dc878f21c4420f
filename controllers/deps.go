// controllers/deps.go
package controllers

import "boutique-backend/services"

// Package-level service handles, set once from main before the router starts.
var (
	dispatcher *services.DispatchService
	chats      *services.ChatService
	flows      *services.FlowService
)

func UseDispatcher(d *services.DispatchService) { dispatcher = d }
func UseChatService(c *services.ChatService)    { chats = c }
func UseFlowService(f *services.FlowService)    { flows = f }
