package httpapi

import (
	"errors"
	"net/http"

	"github.com/fairyhunter13/stylist-storefront/internal/chat"
	"github.com/fairyhunter13/stylist-storefront/internal/model"
	"github.com/fairyhunter13/stylist-storefront/internal/obs"
	"github.com/go-chi/chi/v5"
)

type chatRequest struct {
	Text string `json:"text"`
}

type sessionView struct {
	SessionID string          `json:"session_id"`
	Typing    bool            `json:"typing"`
	Messages  []model.Message `json:"messages"`
}

type sendAck struct {
	Status    string        `json:"status"`
	SessionID string        `json:"session_id"`
	Message   model.Message `json:"message"`
	RequestID string        `json:"request_id"`
}

type respondView struct {
	Text     string          `json:"text"`
	Rule     string          `json:"rule"`
	Products []model.Product `json:"products"`
}

func viewOf(s *chat.Session) sessionView {
	return sessionView{SessionID: s.ID(), Typing: s.Typing(), Messages: s.Messages()}
}

// session resolves the {sessionID} URL parameter, writing a 404 on failure.
func (a *App) session(w http.ResponseWriter, r *http.Request) (*chat.Session, bool) {
	s, err := a.Sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		WriteJSONError(w, http.StatusNotFound, "not_found", err.Error())
		return nil, false
	}
	return s, true
}

// admitChat applies shutdown and rate-limit checks shared by chat writes.
func (a *App) admitChat(w http.ResponseWriter) bool {
	if a.closing.Load() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return false
	}
	if !a.limiter.Allow() {
		WriteJSONError(w, http.StatusTooManyRequests, "rate_limited", "too many chat messages")
		return false
	}
	return true
}

func (a *App) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	s := a.Sessions.Create()
	obs.Logger.Info("chat_session_created", "session_id", s.ID(), "request_id", RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusCreated, viewOf(s))
}

func (a *App) getMessagesHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(s))
}

func (a *App) sendMessageHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !a.admitChat(w) {
		return
	}
	msg, err := s.Send(req.Text)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "text is required")
		return
	case errors.Is(err, chat.ErrSessionClosed):
		WriteJSONError(w, http.StatusConflict, "session_closed", "")
		return
	case err != nil:
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", err.Error())
		return
	}
	chatTurns.Add(1)
	writeJSON(w, http.StatusAccepted, sendAck{
		Status:    "accepted",
		SessionID: s.ID(),
		Message:   msg,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func (a *App) resetSessionHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	s.Reset()
	writeJSON(w, http.StatusOK, viewOf(s))
}

func (a *App) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		WriteJSONError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) respondHandler(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !a.admitChat(w) {
		return
	}
	reply := a.Responder.Respond(req.Text)
	products := reply.Products
	if products == nil {
		products = []model.Product{}
	}
	chatTurns.Add(1)
	writeJSON(w, http.StatusOK, respondView{Text: reply.Text, Rule: reply.Rule, Products: products})
}
