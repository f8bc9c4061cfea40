package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fawkesdbs/roadguard/internal/http/response"
	"github.com/fawkesdbs/roadguard/internal/observability"
	"github.com/fawkesdbs/roadguard/internal/service"
)

type AssistantHandler struct {
	assistant service.Assistant
}

func NewAssistantHandler(assistant service.Assistant) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Prompt) == "" {
		observability.RecordAssistantRequest(r.Context(), "failure")
		response.Error(w, r, http.StatusBadRequest, "prompt is required")
		return
	}

	answer, err := h.assistant.Ask(r.Context(), in.Prompt)
	if err != nil {
		observability.RecordAssistantRequest(r.Context(), "failure")
		response.Error(w, r, http.StatusBadGateway, "assistant is unavailable")
		return
	}
	observability.RecordAssistantRequest(r.Context(), "success")
	response.JSON(w, r, http.StatusOK, map[string]string{"answer": answer})
}
