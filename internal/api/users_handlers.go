package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/mcmmocredits/internal/services/credits"
	"github.com/fastprodman/mcmmocredits/internal/storage"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type joinRequest struct {
	Username string `json:"username"`
}

// JoinHandler handles PUT /users/{userId}: a player's first contact or a
// returning player, possibly under a new name.
func (h *HandlerProvider) JoinHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req joinRequest
	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(req.Username)
	if name == "" {
		writeError(w, http.StatusBadRequest, "username required")
		return
	}

	u, err := h.users.Join(r.Context(), id, name).Await(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// LeaveHandler handles DELETE /users/{userId}/online. A pending chat prompt
// of the player is cancelled.
func (h *HandlerProvider) LeaveHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	h.prompts.Remove(id)
	h.users.Leave(id)

	w.WriteHeader(http.StatusNoContent)
}

// GetUserHandler handles GET /users/{userId}
func (h *HandlerProvider) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	u, err := h.users.GetUser(r.Context(), id).Await(r.Context())
	writeUser(w, u, err)
}

// FindUserHandler handles GET /users?username=
func (h *HandlerProvider) FindUserHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("username"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "username query parameter required")
		return
	}

	u, err := h.users.GetUserByName(r.Context(), name).Await(r.Context())
	writeUser(w, u, err)
}

func writeUser(w http.ResponseWriter, u *user.User, err error) {
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(*u))
}

// LeaderboardHandler handles GET /leaderboard?limit=&offset=
func (h *HandlerProvider) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil || limit > maxPageSize {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	page, err := h.users.RangeOfUsers(r.Context(), limit, offset).Await(r.Context())
	if err != nil {
		if errors.Is(err, storage.ErrInvalidPage) {
			writeError(w, http.StatusBadRequest, "invalid page")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"limit":  limit,
		"offset": offset,
		"users":  toUserResponses(page),
	})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}

	return strconv.Atoi(raw)
}

// MessagesHandler handles GET /users/{userId}/messages and
// GET /console/messages, returning and clearing the recipient's inbox.
func (h *HandlerProvider) MessagesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseExecutor(chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	msgs := h.mailbox.Drain(id)
	if msgs == nil {
		msgs = []credits.Message{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}
