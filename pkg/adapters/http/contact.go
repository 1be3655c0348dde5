package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/devcraft/pkg/contact"
	"github.com/aretw0/devcraft/pkg/content"
	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds request bodies; field values are further limited by the sanitizer.
const maxBodyBytes = 64 << 10

// FormResponse is the JSON view of a form session.
type FormResponse struct {
	Status       domain.SubmissionState `json:"status"`
	Disabled     bool                   `json:"disabled"`
	Input        domain.FormInput       `json:"input"`
	Errors       map[string]string      `json:"errors,omitempty"`
	Attempt      int                    `json:"attempt"`
	SubmissionID string                 `json:"submission_id,omitempty"`
}

func newFormResponse(st *domain.FormState) FormResponse {
	return FormResponse{
		Status:       st.Status,
		Disabled:     st.Status.Disabled(),
		Input:        st.Input,
		Errors:       st.Errors.Messages(),
		Attempt:      st.Attempt,
		SubmissionID: st.SubmissionID,
	}
}

// FieldRequest is the body of PATCH /api/contact/fields/{field}.
type FieldRequest struct {
	Value string `json:"value"`
}

// SubmitRequest is the optional body of POST /api/contact/submit.
// Present fields are applied, in form order, before validation.
type SubmitRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Message *string `json:"message,omitempty"`
}

func (req SubmitRequest) values() map[domain.Field]*string {
	return map[domain.Field]*string{
		domain.FieldName:    req.Name,
		domain.FieldEmail:   req.Email,
		domain.FieldMessage: req.Message,
	}
}

// GetContactPage renders the contact page with the session's current form.
func (s *Server) GetContactPage(w http.ResponseWriter, r *http.Request) {
	st, err := s.Contact.State(r.Context(), SessionID(r.Context()))
	if err != nil {
		s.fail(w, r, "Load contact form", err)
		return
	}
	s.renderPage(w, r, http.StatusOK, content.SlugContact, st)
}

// PostContactForm is the no-script path: edits every field, then submits.
// Validation failures re-render the page with 422; anything else redirects back.
func (s *Server) PostContactForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := SessionID(ctx)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	for _, f := range domain.Fields {
		if _, err := s.Contact.Edit(ctx, sid, f, r.PostForm.Get(string(f))); err != nil {
			if errors.Is(err, domain.ErrInputsDisabled) {
				http.Redirect(w, r, "/contact", http.StatusSeeOther)
				return
			}
			if isInputError(err) {
				http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
				return
			}
			s.fail(w, r, "Edit contact field", err)
			return
		}
	}

	st, err := s.Contact.Submit(ctx, sid)
	switch {
	case errors.Is(err, domain.ErrSubmissionInFlight):
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	case err != nil:
		s.fail(w, r, "Submit contact form", err)
		return
	}

	if len(st.Errors) > 0 {
		s.renderPage(w, r, http.StatusUnprocessableEntity, content.SlugContact, st)
		return
	}
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

// GetContactState handles GET /api/contact.
func (s *Server) GetContactState(w http.ResponseWriter, r *http.Request) {
	st, err := s.Contact.State(r.Context(), SessionID(r.Context()))
	if err != nil {
		s.fail(w, r, "Load contact form", err)
		return
	}
	writeJSON(w, http.StatusOK, newFormResponse(st))
}

// PatchContactField handles PATCH /api/contact/fields/{field}.
func (s *Server) PatchContactField(w http.ResponseWriter, r *http.Request) {
	field, err := domain.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body FieldRequest
	if err := decodeJSON(w, r, &body, false); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("PatchContactField: Invalid request body", "err", err)
		return
	}

	st, err := s.Contact.Edit(r.Context(), SessionID(r.Context()), field, body.Value)
	if err != nil {
		s.writeWorkflowError(w, r, err, st)
		return
	}
	writeJSON(w, http.StatusOK, newFormResponse(st))
}

// SubmitContact handles POST /api/contact/submit.
func (s *Server) SubmitContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := SessionID(ctx)

	var body SubmitRequest
	if err := decodeJSON(w, r, &body, true); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("SubmitContact: Invalid request body", "err", err)
		return
	}
	values := body.values()
	for _, f := range domain.Fields {
		v := values[f]
		if v == nil {
			continue
		}
		if st, err := s.Contact.Edit(ctx, sid, f, *v); err != nil {
			if errors.Is(err, domain.ErrInputsDisabled) {
				// A pending submission wins over new values.
				err = domain.ErrSubmissionInFlight
			}
			s.writeWorkflowError(w, r, err, st)
			return
		}
	}

	st, err := s.Contact.Submit(ctx, sid)
	if err != nil {
		s.writeWorkflowError(w, r, err, st)
		return
	}
	if len(st.Errors) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, newFormResponse(st))
		return
	}
	writeJSON(w, http.StatusAccepted, newFormResponse(st))
}

// CloseContact handles DELETE /api/contact: the visitor left the page.
func (s *Server) CloseContact(w http.ResponseWriter, r *http.Request) {
	if err := s.Contact.Close(r.Context(), SessionID(r.Context())); err != nil {
		s.fail(w, r, "Close contact session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles GET /api/contact/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	ctx := r.Context()
	sid := SessionID(ctx)

	ch, cancel := s.Streams.Subscribe(sid)
	defer cancel()

	st, err := s.Contact.State(ctx, sid)
	if err != nil {
		s.fail(w, r, "Load contact form", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "event: %s\ndata: connected\n\n", EventPing)
	if initial, err := json.Marshal(domain.Diff(nil, st)); err == nil {
		writeEvent(w, Event{Name: EventState, Data: string(initial)})
	}
	flusher.Flush()
	s.logger.Debug("SSE: Subscribed to session updates", "session_id", sid)

	var keepAlive <-chan time.Time
	if s.pingInterval > 0 {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		keepAlive = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("SSE: Client disconnected", "session_id", sid)
			return
		case <-keepAlive:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case evt, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, evt)
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, evt Event) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Name, evt.Data)
}

// writeWorkflowError maps workflow sentinels to status codes.
func (s *Server) writeWorkflowError(w http.ResponseWriter, r *http.Request, err error, st *domain.FormState) {
	switch {
	case errors.Is(err, domain.ErrInputsDisabled), errors.Is(err, domain.ErrSubmissionInFlight):
		resp := map[string]any{"error": err.Error()}
		if st != nil {
			resp["form"] = newFormResponse(st)
		}
		writeJSON(w, http.StatusConflict, resp)
	case isInputError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, contact.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.fail(w, r, "Contact workflow", err)
	}
}

func isInputError(err error) bool {
	return errors.Is(err, domain.ErrUnknownField) ||
		errors.Is(err, domain.ErrInputTooLarge) ||
		errors.Is(err, domain.ErrInvalidUTF8)
}

// decodeJSON reads a JSON body. With optional set an empty body is accepted.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, code int, slug string, st *domain.FormState) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := s.Renderer.Render(w, slug, st); err != nil {
		s.logger.Error("Render failed", "page", slug, "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error(op+" failed", "path", r.URL.Path, "session_id", SessionID(r.Context()), "err", err)
	if isJSON(r) {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func isJSON(r *http.Request) bool {
	return len(r.URL.Path) >= 5 && r.URL.Path[:5] == "/api/"
}
