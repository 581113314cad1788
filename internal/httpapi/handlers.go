package httpapi

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/draftwise/draftwise/internal/catalog"
	"github.com/draftwise/draftwise/internal/draft"
	"github.com/draftwise/draftwise/internal/hub"
	"github.com/draftwise/draftwise/internal/prediction"
	"github.com/draftwise/draftwise/internal/session"
)

const replyTimeout = 2 * time.Second

// Predictor is the slice of the prediction client the handlers need.
type Predictor interface {
	Health(ctx context.Context) (*prediction.Health, error)
	PredictDraft(ctx context.Context, req draft.Request) (*prediction.Response, error)
}

// ChampionSource feeds the picker's champion grid.
type ChampionSource interface {
	Champions(ctx context.Context) ([]draft.Champion, error)
	ByRole(ctx context.Context, role draft.Role) ([]draft.Champion, error)
}

type API struct {
	hub       *hub.Hub
	champions ChampionSource
	predictor Predictor
	version   string
	log       *zap.Logger
}

func NewAPI(h *hub.Hub, champions ChampionSource, predictor Predictor, version string, log *zap.Logger) *API {
	return &API{hub: h, champions: champions, predictor: predictor, version: version, log: log}
}

type draftResponse struct {
	Code    string       `json:"code"`
	Version int          `json:"version"`
	State   *draft.State `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// predictionResponse wraps the model's answer with the draft version it was computed
// for. The UI keeps only the answer matching its latest request key and discards
// stale in-flight responses.
type predictionResponse struct {
	RequestKey   string               `json:"request_key"`
	DraftVersion int                  `json:"draft_version"`
	Prediction   *prediction.Response `json:"prediction"`
}

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": a.version})
}

// handleBackendHealth proxies the prediction service's connectivity check.
func (a *API) handleBackendHealth(w http.ResponseWriter, r *http.Request) {
	h, err := a.predictor.Health(r.Context())
	if err != nil {
		a.log.Warn("backend health check failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "prediction service unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (a *API) handleChampions(w http.ResponseWriter, r *http.Request) {
	var (
		champs []draft.Champion
		err    error
	)
	if roleParam := r.URL.Query().Get("role"); roleParam != "" {
		champs, err = a.champions.ByRole(r.Context(), draft.Role(strings.ToUpper(roleParam)))
	} else {
		champs, err = a.champions.Champions(r.Context())
	}
	if err != nil {
		if errors.Is(err, catalog.ErrNotReady) {
			// Picker degrades to its loading state.
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "champion data not loaded yet"})
			return
		}
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, champs)
}

func (a *API) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var code string
	for {
		c, err := GenerateCode()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to generate code"})
			return
		}
		reply := make(chan *session.Session, 1)
		a.hub.Inbox() <- hub.GetSession{Code: c, Reply: reply}
		if <-reply == nil {
			code = c
			break
		}
		a.log.Debug("collision on session code, regenerating", zap.String("code", c))
	}

	reply := make(chan *session.Session, 1)
	a.hub.Inbox() <- hub.EnsureSession{Code: code, Reply: reply}
	s := <-reply
	if s == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to create draft"})
		return
	}

	view, ok := a.viewOf(w, s)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, draftResponse{Code: code, Version: view.Version, State: view.State})
}

func (a *API) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	code, s, ok := a.findSession(w, r)
	if !ok {
		return
	}
	view, ok := a.viewOf(w, s)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Code: code, Version: view.Version, State: view.State})
}

func (a *API) handleAssign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChampionKey int `json:"champion_key"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json"})
		return
	}
	a.applyCommand(w, r, session.Command{
		Type:        session.CmdAssign,
		Team:        draft.Team(strings.ToLower(chi.URLParam(r, "team"))),
		Role:        draft.Role(strings.ToUpper(chi.URLParam(r, "role"))),
		ChampionKey: body.ChampionKey,
	})
}

func (a *API) handleUnassign(w http.ResponseWriter, r *http.Request) {
	a.applyCommand(w, r, session.Command{
		Type: session.CmdUnassign,
		Team: draft.Team(strings.ToLower(chi.URLParam(r, "team"))),
		Role: draft.Role(strings.ToUpper(chi.URLParam(r, "role"))),
	})
}

func (a *API) handleBan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChampionKey int `json:"champion_key"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json"})
		return
	}
	a.applyCommand(w, r, session.Command{
		Type:        session.CmdBan,
		Team:        draft.Team(strings.ToLower(chi.URLParam(r, "team"))),
		ChampionKey: body.ChampionKey,
	})
}

func (a *API) handleUnban(w http.ResponseWriter, r *http.Request) {
	key, err := strconv.Atoi(chi.URLParam(r, "key"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad champion key"})
		return
	}
	a.applyCommand(w, r, session.Command{
		Type:        session.CmdUnban,
		Team:        draft.Team(strings.ToLower(chi.URLParam(r, "team"))),
		ChampionKey: key,
	})
}

func (a *API) handleSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Elo   string `json:"elo"`
		Patch string `json:"patch"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json"})
		return
	}
	a.applyCommand(w, r, session.Command{
		Type:  session.CmdSetSettings,
		Elo:   draft.Elo(body.Elo),
		Patch: body.Patch,
	})
}

func (a *API) handleReset(w http.ResponseWriter, r *http.Request) {
	a.applyCommand(w, r, session.Command{Type: session.CmdReset})
}

func (a *API) handleValidation(w http.ResponseWriter, r *http.Request) {
	_, s, ok := a.findSession(w, r)
	if !ok {
		return
	}
	view, ok := a.viewOf(w, s)
	if !ok {
		return
	}
	issues := multierr.Errors(view.State.Validate())
	resp := validationResponse{Valid: len(issues) == 0}
	for _, issue := range issues {
		resp.Errors = append(resp.Errors, issue.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handlePrediction(w http.ResponseWriter, r *http.Request) {
	_, s, ok := a.findSession(w, r)
	if !ok {
		return
	}
	view, ok := a.viewOf(w, s)
	if !ok {
		return
	}

	if issues := multierr.Errors(view.State.Validate()); len(issues) > 0 {
		resp := validationResponse{Valid: false}
		for _, issue := range issues {
			resp.Errors = append(resp.Errors, issue.Error())
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	result, err := a.predictor.PredictDraft(r.Context(), view.State.Request())
	if err != nil {
		a.log.Warn("prediction request failed", zap.Error(err))
		var apiErr *prediction.APIError
		if errors.As(err, &apiErr) {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: apiErr.Error()})
			return
		}
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "prediction service unreachable"})
		return
	}

	writeJSON(w, http.StatusOK, predictionResponse{
		RequestKey:   uuid.NewString(),
		DraftVersion: view.Version,
		Prediction:   result,
	})
}

// applyCommand routes one mutation through the session actor and maps the outcome to
// an HTTP status. Successful mutations answer with the fresh draft snapshot.
func (a *API) applyCommand(w http.ResponseWriter, r *http.Request, cmd session.Command) {
	code, s, ok := a.findSession(w, r)
	if !ok {
		return
	}

	reply := make(chan error, 1)
	s.Inbox() <- session.Apply{Cmd: cmd, Reply: reply}
	select {
	case err := <-reply:
		if err != nil {
			writeJSON(w, statusForErr(err), errorResponse{Error: err.Error()})
			return
		}
	case <-time.After(replyTimeout):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "draft session unresponsive"})
		return
	}

	view, ok := a.viewOf(w, s)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Code: code, Version: view.Version, State: view.State})
}

func (a *API) findSession(w http.ResponseWriter, r *http.Request) (string, *session.Session, bool) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	reply := make(chan *session.Session, 1)
	a.hub.Inbox() <- hub.GetSession{Code: code, Reply: reply}
	s := <-reply
	if s == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "draft not found"})
		return "", nil, false
	}
	return code, s, true
}

func (a *API) viewOf(w http.ResponseWriter, s *session.Session) (session.View, bool) {
	reply := make(chan session.View, 1)
	s.Inbox() <- session.GetState{Reply: reply}
	select {
	case view := <-reply:
		return view, true
	case <-time.After(replyTimeout):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "draft session unresponsive"})
		return session.View{}, false
	}
}

func statusForErr(err error) int {
	switch {
	case errors.Is(err, draft.ErrDuplicateSelection), errors.Is(err, draft.ErrBanListFull):
		return http.StatusConflict
	case errors.Is(err, draft.ErrUnknownTeam), errors.Is(err, draft.ErrUnknownRole),
		errors.Is(err, session.ErrUnknownCommand):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
