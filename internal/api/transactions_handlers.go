package api

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/services/credits"
	"github.com/fastprodman/mcmmocredits/internal/services/users"
	"github.com/fastprodman/mcmmocredits/internal/skills"
	"github.com/fastprodman/mcmmocredits/internal/transaction"
)

type txRequest struct {
	Executor string   `json:"executor"`
	Kind     string   `json:"kind"`
	Amount   *int     `json:"amount"`
	Targets  []string `json:"targets"`
	Skill    string   `json:"skill"`
	Silent   bool     `json:"silent"`
}

type rejection struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

type txResponse struct {
	Kind       string         `json:"kind"`
	Executor   string         `json:"executor"`
	Amount     int            `json:"amount"`
	MessageKey string         `json:"messageKey"`
	Updated    []userResponse `json:"updated"`
	Rejected   []rejection    `json:"rejected,omitempty"`
}

type txFailure struct {
	Error    string      `json:"error"`
	Failure  string      `json:"failure"`
	Rejected []rejection `json:"rejected,omitempty"`
}

func (req txRequest) toRequest() (credits.Request, error) {
	exec, err := parseExecutor(req.Executor)
	if err != nil {
		return credits.Request{}, err
	}

	kind, err := transaction.ParseKind(req.Kind)
	if err != nil {
		return credits.Request{}, errors.New("invalid kind")
	}

	if req.Amount == nil {
		return credits.Request{}, errors.New("amount required")
	}
	if *req.Amount < 0 {
		return credits.Request{}, errors.New("amount must be >= 0")
	}

	targets := make([]uuid.UUID, 0, len(req.Targets))
	for _, raw := range req.Targets {
		id, perr := uuid.Parse(strings.TrimSpace(raw))
		if perr != nil {
			return credits.Request{}, errors.New("invalid target uuid")
		}
		targets = append(targets, id)
	}

	out := credits.Request{
		Executor: exec,
		Kind:     kind,
		Amount:   *req.Amount,
		Targets:  targets,
	}

	if req.Skill != "" {
		if !kind.IsRedeem() {
			return credits.Request{}, errors.New("skill is only allowed for redeem")
		}

		out.Skill, err = skills.Parse(req.Skill)
		if err != nil {
			return credits.Request{}, err
		}
	}

	return out, nil
}

// TransactionHandler handles POST /transactions
func (h *HandlerProvider) TransactionHandler(w http.ResponseWriter, r *http.Request) {
	var body txRequest
	err := decodeBody(w, r, &body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := body.toRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.credits.Transact(r.Context(), req).Await(r.Context())
	if err != nil {
		status := transactionErrorStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("transaction failed", "kind", req.Kind, "error", err)
			writeError(w, status, "internal error")
			return
		}

		writeError(w, status, err.Error())
		return
	}

	h.credits.Feedback(o, body.Silent, body.Silent)

	rejected := rejections(o)

	if !o.Applied {
		writeJSON(w, http.StatusConflict, txFailure{
			Error:    "transaction failed",
			Failure:  o.Failure.Key(),
			Rejected: rejected,
		})
		return
	}

	writeJSON(w, http.StatusOK, txResponse{
		Kind:       o.Transaction.Kind().String(),
		Executor:   o.Transaction.Executor().Name(),
		Amount:     o.Transaction.Amount(),
		MessageKey: o.Transaction.MessageKey(),
		Updated:    toUserResponses(o.Result.UpdatedUsers()),
		Rejected:   rejected,
	})
}

func transactionErrorStatus(err error) int {
	switch {
	case errors.Is(err, users.ErrUserNotFound),
		errors.Is(err, credits.ErrTargetMissing):
		return http.StatusNotFound
	case errors.Is(err, transaction.ErrNoTargets),
		errors.Is(err, transaction.ErrMissingSkill),
		errors.Is(err, transaction.ErrPayExecutor),
		errors.Is(err, transaction.ErrPayTargets),
		errors.Is(err, transaction.ErrUnknownKind),
		errors.Is(err, transaction.ErrSkillNotAllowed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func rejections(o credits.Outcome) []rejection {
	if len(o.Rejected) == 0 {
		return nil
	}

	out := make([]rejection, 0, len(o.Rejected))
	for u, reason := range o.Rejected {
		out = append(out, rejection{UUID: u.ID.String(), Username: u.Username, Reason: reason.Key()})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })

	return out
}
