package api

import (
	"net/http"

	"github.com/goldspin/goldspin/internal/services/roulette"
)

type spinRequest struct {
	Stake int64  `json:"stake"`
	Code  string `json:"code,omitempty"`
	Door  int    `json:"door,omitempty"`
}

type spinResponse struct {
	Outcome     string `json:"outcome"`
	PendingDoor bool   `json:"pendingDoor,omitempty"`
	Door        int    `json:"door,omitempty"`
	Multiplier  int64  `json:"multiplier,omitempty"`
	NewBalance  int64  `json:"newBalance"`
	// RevealMs tells the client how long to animate before showing
	// the outcome; the result above is already final.
	RevealMs int64 `json:"revealMs"`
}

// SpinHandler handles POST /user/{accountID}/spin.
func (h *HandlerProvider) SpinHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseAccountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountID in path")
		return
	}

	var req spinRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res, err := h.roulette.Spin(r.Context(), accountID, req.Stake, req.Code, req.Door)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toSpinResponse(res))
}

type mysteryRequest struct {
	Door int `json:"door"`
}

// PickDoorHandler handles POST /user/{accountID}/mystery, finishing a
// spin that came back with pendingDoor. The stake is the one recorded
// by that spin.
func (h *HandlerProvider) PickDoorHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseAccountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountID in path")
		return
	}

	var req mysteryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res, err := h.roulette.PickDoor(r.Context(), accountID, req.Door)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toSpinResponse(res))
}

func (h *HandlerProvider) toSpinResponse(res *roulette.SpinResult) spinResponse {
	return spinResponse{
		Outcome:     string(res.Outcome),
		PendingDoor: res.PendingDoor,
		Door:        res.Door,
		Multiplier:  res.Multiplier,
		NewBalance:  res.NewBalance,
		RevealMs:    h.revealDelay.Milliseconds(),
	}
}
