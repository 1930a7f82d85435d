package scan

import (
	"encoding/json"
	"net/http"
	"strings"

	"nanokiosk/frontend/shared/context"
	"nanokiosk/tracking"
)

type scanRequest struct {
	Code string `json:"code"`
}

type removeRequest struct {
	TransactionID string `json:"transaction_id"`
}

type apiResponse struct {
	Notice *tracking.Notice `json:"notice,omitempty"`
	Status tracking.Status  `json:"status"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func liveSession(w http.ResponseWriter, r *http.Request, sessions *tracking.Registry) (*tracking.Session, bool) {
	session, ok := context.GetSessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return nil, false
	}
	live, found := sessions.Get(session.ID)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no live order"})
		return nil, false
	}
	return live, true
}

// StatusAPIHandler returns the polled snapshot the scan screen renders from.
func StatusAPIHandler(sessions *tracking.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		live, ok := liveSession(w, r, sessions)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, apiResponse{Status: live.Status()})
	}
}

// ScanAPIHandler records one scanned code.
func ScanAPIHandler(sessions *tracking.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		live, ok := liveSession(w, r, sessions)
		if !ok {
			return
		}
		var req scanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}

		notice, handled := live.Scan(r.Context(), strings.TrimSpace(req.Code))
		resp := apiResponse{Status: live.Status()}
		if handled {
			resp.Notice = &notice
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// RemoveAPIHandler deletes a recorded scan after the screen-side confirmation.
func RemoveAPIHandler(sessions *tracking.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		live, ok := liveSession(w, r, sessions)
		if !ok {
			return
		}
		var req removeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}

		notice := live.Remove(r.Context(), strings.TrimSpace(req.TransactionID))
		writeJSON(w, http.StatusOK, apiResponse{Notice: &notice, Status: live.Status()})
	}
}

// CompleteAPIHandler finalizes the order. On success the session is ended and
// the screen navigates home off the done flag.
func CompleteAPIHandler(sessions *tracking.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		live, ok := liveSession(w, r, sessions)
		if !ok {
			return
		}
		notice, _ := live.Complete(r.Context())
		writeJSON(w, http.StatusOK, apiResponse{Notice: &notice, Status: live.Status()})
	}
}
