package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/pws-advisor-service/internal/adapter/settings"
	"github.com/couchcryptid/pws-advisor-service/internal/compose"
	"github.com/couchcryptid/pws-advisor-service/internal/domain"
	"github.com/couchcryptid/pws-advisor-service/internal/plan"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

type actionsRequest struct {
	Reading domain.AdvisoryReading `json:"reading"`
	Source  domain.ReadingSource   `json:"source" validate:"omitempty,oneof=scada water"`
}

type rankRequest struct {
	Assets  string  `json:"assets"`
	Budget  float64 `json:"budget" validate:"gte=0"`
	Horizon int     `json:"horizon" validate:"min=1,max=50"`
}

type settingResponse struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Snapshots.Snapshot())
}

// handleRefresh fetches now. On failure the kept snapshot is returned with a
// 502 so the caller can keep showing it.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Snapshots.Refresh(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, snap)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCAP(w http.ResponseWriter, r *http.Request) {
	pwsid := strings.TrimSpace(r.URL.Query().Get("pwsid"))
	if pwsid == "" {
		writeError(w, http.StatusBadRequest, "pwsid is required")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.CAP.Lookup(r.Context(), pwsid))
}

func (s *Server) handleAdvisory(w http.ResponseWriter, r *http.Request) {
	var reading domain.AdvisoryReading
	if !s.decode(w, r, &reading) {
		return
	}
	recs := domain.DeriveRecommendations(reading)
	s.deps.Metrics.Recommendations.Add(float64(len(recs)))
	writeJSON(w, http.StatusOK, map[string][]string{"recommendations": recs})
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	var req actionsRequest
	if !s.decode(w, r, &req) {
		return
	}
	actions := domain.BuildNextActions(s.deps.Snapshots.Snapshot().Violations, req.Reading, req.Source)
	writeJSON(w, http.StatusOK, map[string][]domain.NextAction{"actions": actions})
}

func (s *Server) handleRankAssets(w http.ResponseWriter, r *http.Request) {
	req := rankRequest{Horizon: plan.Default().Capital.HorizonYears}
	if !s.decode(w, r, &req) {
		return
	}
	assets := domain.RankAssets(domain.SplitAssetLines(req.Assets))
	writeJSON(w, http.StatusOK, domain.PlanFunding(assets, req.Budget, req.Horizon))
}

// handleDocument renders one document. The stored profile is the base; any
// fields in the request body override it for this render only.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	kind, ok := compose.ParseKind(r.PathValue("kind"))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown document kind %q", r.PathValue("kind")))
		return
	}

	p := plan.FromSettings(r.Context(), s.deps.Settings)
	if !s.decode(w, r, &p) {
		return
	}

	snap := s.deps.Snapshots.Snapshot()
	doc := plan.Render(kind, p, plan.Records{Systems: snap.Systems, Violations: snap.Violations})
	s.deps.Metrics.DocumentsRendered.WithLabelValues(string(doc.Kind)).Inc()

	if wantEmit(r) {
		var sent []string
		for _, res := range s.deps.Emitter.Emit(r.Context(), doc) {
			if res.OK() {
				sent = append(sent, res.Sink)
			}
		}
		w.Header().Set("X-Emitted-To", strings.Join(sent, ","))
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, doc.Content) //nolint:errcheck // client gone
}

// handleGetSetting returns a stored value, or the profile default for a known
// key that was never saved.
func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	raw, err := s.deps.Settings.Lookup(r.Context(), key)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: raw})
	case errors.Is(err, settings.ErrNotFound):
		def, ok := plan.DefaultValue(key)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("setting %q not found", key))
			return
		}
		b, _ := json.Marshal(def)
		writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: b})
	default:
		s.logger.Error("settings lookup failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "settings unavailable")
	}
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !plan.IsKnownKey(key) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown setting %q", key))
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body too large")
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "value must be JSON")
		return
	}
	if err := s.deps.Settings.Put(r.Context(), key, body); err != nil {
		s.logger.Error("settings write failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "settings unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads an optional JSON body into dst and validates it. An empty
// body leaves dst untouched. It writes the error response and returns false
// on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if !errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return false
		}
	}
	return true
}

func wantEmit(r *http.Request) bool {
	v := r.URL.Query().Get("emit")
	if v == "" {
		return false
	}
	ok, err := strconv.ParseBool(v)
	return err == nil && ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	sharedobs.WriteJSON(w, status, v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
