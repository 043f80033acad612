package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/app"
	"github.com/fastprodman/mcmmocredits/internal/chat"
	"github.com/fastprodman/mcmmocredits/internal/services/credits"
	"github.com/fastprodman/mcmmocredits/internal/services/users"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

const maxBodyBytes = 1 << 20

// HandlerProvider exposes the credits services as HTTP handlers.
type HandlerProvider struct {
	users   *users.Service
	credits *credits.Service
	prompts *chat.Queue[uuid.UUID]
	mailbox *credits.Mailbox
}

// NewHandler returns a new Handler provider.
func NewHandler(a *app.App) *HandlerProvider {
	return &HandlerProvider{
		users:   a.Users,
		credits: a.Credits,
		prompts: a.Prompts,
		mailbox: a.Mailbox,
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody reads a size-limited JSON body and rejects unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return errors.New("empty body")
	}
	if err != nil {
		return errors.New("invalid JSON")
	}

	return nil
}

// parseUserIDFromPath reads `{userId}` from chi routes like:
//
//	GET  /users/{userId}
//	POST /chat/{userId}
func parseUserIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "userId")
	if raw == "" {
		return uuid.Nil, errors.New("missing userId")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid userId: %w", err)
	}
	if id == uuid.Nil {
		return uuid.Nil, errors.New("invalid userId: nil uuid")
	}

	return id, nil
}

// parseExecutor accepts a player uuid or "console" (also the empty string).
func parseExecutor(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, user.ConsoleName) {
		return uuid.Nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid executor: %w", err)
	}

	return id, nil
}

type userResponse struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
	Credits  int    `json:"credits"`
	Redeemed int    `json:"redeemed"`
}

func toUserResponse(u user.User) userResponse {
	return userResponse{
		UUID:     u.ID.String(),
		Username: u.Username,
		Credits:  u.Credits,
		Redeemed: u.Redeemed,
	}
}

func toUserResponses(us []user.User) []userResponse {
	out := make([]userResponse, len(us))
	for i, u := range us {
		out[i] = toUserResponse(u)
	}

	return out
}
