package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/lesson_booking/internal/core/domain"
	"github.com/srgjo27/lesson_booking/internal/core/ports"
	"github.com/srgjo27/lesson_booking/internal/core/services"
	"github.com/srgjo27/lesson_booking/internal/platform/rate"
	"github.com/srgjo27/lesson_booking/internal/platform/validate"
)

type SessionHandler struct {
	sessions ports.SessionRepository
	catalog  *services.CatalogService
	checkout *services.CheckoutService
	limiter  *rate.Limiter
	log      logrus.FieldLogger
}

// NewSessionHandler wires the session endpoints. limiter may be nil to
// disable submission rate limiting.
func NewSessionHandler(sessions ports.SessionRepository, catalog *services.CatalogService, checkout *services.CheckoutService, limiter *rate.Limiter, log logrus.FieldLogger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		catalog:  catalog,
		checkout: checkout,
		limiter:  limiter,
		log:      log,
	}
}

func (h *SessionHandler) Register(r *mux.Router) {
	r.HandleFunc("/sessions", h.CreateSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", h.GetSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/lessons", h.ListLessons).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/cart", h.AddToCart).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/cart/toggle", h.ToggleCart).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/cart/{index:[0-9]+}", h.RemoveFromCart).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/contact", h.UpdateContact).Methods(http.MethodPut)
	r.HandleFunc("/sessions/{id}/orders", h.SubmitOrder).Methods(http.MethodPost)
}

type sessionView struct {
	ID          string             `json:"id"`
	Cart        []domain.CartItem  `json:"cart"`
	Total       float64            `json:"total"`
	Contact     domain.ContactInfo `json:"contact"`
	ShowCart    bool               `json:"showCart"`
	CanCheckout bool               `json:"canCheckout"`
	ErrorMsg    string             `json:"errorMsg,omitempty"`
	SuccessMsg  string             `json:"successMsg,omitempty"`
}

// newSessionView must be called with the session locked.
func newSessionView(s *domain.Session) sessionView {
	cart := s.Cart()
	return sessionView{
		ID:          s.ID,
		Cart:        cart,
		Total:       s.CartTotal(),
		Contact:     s.Contact,
		ShowCart:    s.ShowCart,
		CanCheckout: services.CanCheckout(s.Contact, cart),
		ErrorMsg:    s.ErrorMsg,
		SuccessMsg:  s.SuccessMsg,
	}
}

type createSessionResponse struct {
	sessionView
	CatalogFallback bool `json:"catalogFallback"`
}

type addToCartRequest struct {
	LessonID string `json:"lessonId"`
}

type contactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type submitResponse struct {
	Order   *services.CheckoutResult `json:"order,omitempty"`
	Error   string                   `json:"error,omitempty"`
	Session sessionView              `json:"session"`
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := domain.NewSession(validate.GenerateID())

	var fallback bool
	if err := h.catalog.Load(r.Context(), session); err != nil {
		if !errors.Is(err, services.ErrCatalogUnavailable) {
			h.log.WithError(err).Error("loading catalog")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		fallback = true
	}

	resp := createSessionResponse{
		sessionView:     newSessionView(session),
		CatalogFallback: fallback,
	}

	if err := h.sessions.Save(r.Context(), session); err != nil {
		h.log.WithError(err).Error("saving session")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	session.Lock()
	view := newSessionView(session)
	session.Unlock()

	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	opts := domain.DefaultSortOptions()

	q := r.URL.Query()
	if s := q.Get("sort"); s != "" {
		field, err := domain.ParseSortField(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.Field = field
	}

	switch strings.ToLower(q.Get("order")) {
	case "", "asc":
	case "desc":
		opts.Ascending = false
	default:
		writeError(w, http.StatusBadRequest, "order must be asc or desc")
		return
	}

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	session.Lock()
	lessons := session.Lessons()
	session.Unlock()

	sorted, err := domain.SortLessons(lessons, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sorted)
}

func (h *SessionHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decode(w, r, &req); err != nil || req.LessonID == "" {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	session.Lock()
	defer session.Unlock()

	reserved, err := session.Reserve(req.LessonID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if !reserved {
		writeError(w, http.StatusConflict, "no spaces left")
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(session))
}

func (h *SessionHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cart index")
		return
	}

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	session.Lock()
	defer session.Unlock()

	if _, err := session.Release(index); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(session))
}

func (h *SessionHandler) ToggleCart(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	session.Lock()
	defer session.Unlock()

	session.ToggleCart()

	writeJSON(w, http.StatusOK, newSessionView(session))
}

func (h *SessionHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	session.Lock()
	defer session.Unlock()

	session.Contact = domain.ContactInfo{Name: req.Name, Phone: req.Phone}

	writeJSON(w, http.StatusOK, newSessionView(session))
}

func (h *SessionHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if h.limiter != nil && !h.limiter.Allow(session.ID) {
		writeError(w, http.StatusTooManyRequests, "too many order submissions, slow down")
		return
	}

	session.Lock()
	defer session.Unlock()

	result, err := h.checkout.Submit(r.Context(), session)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, services.ErrValidationFailed) {
			status = http.StatusUnprocessableEntity
		}

		writeJSON(w, status, submitResponse{
			Error:   session.ErrorMsg,
			Session: newSessionView(session),
		})
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{
		Order:   result,
		Session: newSessionView(session),
	})
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	session, err := h.sessions.Get(r.Context(), param(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return nil, false
		}
		h.log.WithError(err).Error("loading session")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return session, true
}

// NewRouter mounts the session endpoints and the health check behind the
// request id, logging and panic recovery middleware.
func NewRouter(h *SessionHandler, log logrus.FieldLogger) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID(), Logger(log), Recoverer(log))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	h.Register(r)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})

	return r
}
