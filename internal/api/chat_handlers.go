package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fastprodman/mcmmocredits/internal/skills"
)

const cancelWord = "cancel"

type promptRequest struct {
	Skill string `json:"skill"`
}

// RedeemPromptHandler handles POST /users/{userId}/prompts/redeem. The
// player answers through POST /chat/{userId}.
func (h *HandlerProvider) RedeemPromptHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req promptRequest
	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	skill, err := skills.Parse(req.Skill)
	if err != nil {
		if errors.Is(err, skills.ErrChildSkill) {
			writeError(w, http.StatusBadRequest, "child skills cannot be redeemed")
			return
		}

		writeError(w, http.StatusBadRequest, "unknown skill")
		return
	}

	u, err := h.users.GetUser(r.Context(), id).Await(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	h.credits.PromptRedeem(r.Context(), *u, skill)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "prompted",
		"skill":  skill.String(),
	})
}

type chatRequest struct {
	Text string `json:"text"`
}

// ChatHandler handles POST /chat/{userId}. A pending prompt consumes the
// text; "cancel" drops the prompt instead.
func (h *HandlerProvider) ChatHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req chatRequest
	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var consumed bool
	if strings.EqualFold(strings.TrimSpace(req.Text), cancelWord) {
		consumed = h.prompts.Contains(id)
		h.prompts.Remove(id)
	} else {
		consumed = h.prompts.Complete(id, req.Text)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"consumed": consumed})
}
