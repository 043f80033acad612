package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/mcmmocredits/internal/app"
	"github.com/fastprodman/mcmmocredits/internal/config"
	"github.com/fastprodman/mcmmocredits/internal/infra/storetest"
	"github.com/fastprodman/mcmmocredits/internal/skills"
)

type harness struct {
	app     *app.App
	handler http.Handler
}

func newHarness(t *testing.T) harness {
	t.Helper()

	a := app.Wire(storetest.NewSQLite(t), config.SkillsConfig{LevelCap: 1000})

	return harness{app: a, handler: NewRouter(NewHandler(a))}
}

func (h harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func (h harness) join(t *testing.T, name string, credits int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	rec := h.do(t, http.MethodPut, "/users/"+id.String(), joinRequest{Username: name})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	if credits > 0 {
		amount := credits
		rec = h.do(t, http.MethodPost, "/transactions", txRequest{
			Executor: "console",
			Kind:     "set",
			Amount:   &amount,
			Targets:  []string{id.String()},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	return id
}

func (h harness) credits(t *testing.T, id uuid.UUID) int {
	t.Helper()

	rec := h.do(t, http.MethodGet, "/users/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return decode[userResponse](t, rec).Credits
}

func amount(n int) *int { return &n }

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := newHarness(t).do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUsersEndpoints(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := h.join(t, "Notch", 0)

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		wantCode int
		wantName string
	}{
		{name: "get_by_id", method: http.MethodGet, path: "/users/" + id.String(), wantCode: http.StatusOK, wantName: "Notch"},
		{name: "get_by_name", method: http.MethodGet, path: "/users?username=notch", wantCode: http.StatusOK, wantName: "Notch"},
		{name: "missing_id", method: http.MethodGet, path: "/users/" + uuid.NewString(), wantCode: http.StatusNotFound},
		{name: "missing_name", method: http.MethodGet, path: "/users?username=nobody", wantCode: http.StatusNotFound},
		{name: "no_name", method: http.MethodGet, path: "/users", wantCode: http.StatusBadRequest},
		{name: "bad_uuid", method: http.MethodGet, path: "/users/42", wantCode: http.StatusBadRequest},
		{name: "join_without_name", method: http.MethodPut, path: "/users/" + uuid.NewString(), body: joinRequest{}, wantCode: http.StatusBadRequest},
		{name: "join_unknown_field", method: http.MethodPut, path: "/users/" + uuid.NewString(), body: map[string]string{"name": "x"}, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantName != "" {
				require.Equal(t, tt.wantName, decode[userResponse](t, rec).Username)
			}
		})
	}
}

func TestJoin_Rename(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := h.join(t, "Old", 7)

	rec := h.do(t, http.MethodPut, "/users/"+id.String(), joinRequest{Username: "New"})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[userResponse](t, rec)
	require.Equal(t, "New", got.Username)
	require.Equal(t, 7, got.Credits)
}

func TestTransactionHandler(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	payer := h.join(t, "payer", 1500)
	payee := h.join(t, "payee", 1000)

	rec := h.do(t, http.MethodPost, "/transactions", txRequest{
		Executor: payer.String(),
		Kind:     "pay",
		Amount:   amount(600),
		Targets:  []string{payee.String()},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[txResponse](t, rec)
	require.Equal(t, "credits-pay", resp.MessageKey)
	require.Len(t, resp.Updated, 2)
	require.Equal(t, 900, h.credits(t, payer))
	require.Equal(t, 1600, h.credits(t, payee))

	msgs := h.app.Mailbox.Drain(payee)
	require.Equal(t, "credits-pay-user", msgs[len(msgs)-1].Key)
}

func TestTransactionHandler_Errors(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	u := h.join(t, "u", 5)

	tests := []struct {
		name        string
		req         txRequest
		wantCode    int
		wantFailure string
	}{
		{
			name:        "not_enough_credits",
			req:         txRequest{Kind: "take", Amount: amount(6), Targets: []string{u.String()}},
			wantCode:    http.StatusConflict,
			wantFailure: "not-enough-credits",
		},
		{
			name:        "pay_self",
			req:         txRequest{Executor: u.String(), Kind: "pay", Amount: amount(1), Targets: []string{u.String()}},
			wantCode:    http.StatusConflict,
			wantFailure: "credits-pay-same-user",
		},
		{
			name:     "console_pay",
			req:      txRequest{Kind: "pay", Amount: amount(1), Targets: []string{u.String()}},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "console_without_targets",
			req:      txRequest{Kind: "add", Amount: amount(1)},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "negative_amount",
			req:      txRequest{Kind: "add", Amount: amount(-1), Targets: []string{u.String()}},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing_amount",
			req:      txRequest{Kind: "add", Targets: []string{u.String()}},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown_kind",
			req:      txRequest{Kind: "steal", Amount: amount(1), Targets: []string{u.String()}},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "skill_on_add",
			req:      txRequest{Kind: "add", Amount: amount(1), Targets: []string{u.String()}, Skill: "mining"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "child_skill",
			req:      txRequest{Executor: u.String(), Kind: "redeem", Amount: amount(1), Skill: "salvage"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "redeem_without_skill",
			req:      txRequest{Executor: u.String(), Kind: "redeem", Amount: amount(1)},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown_target",
			req:      txRequest{Kind: "add", Amount: amount(1), Targets: []string{uuid.NewString()}},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "unknown_executor",
			req:      txRequest{Executor: uuid.NewString(), Kind: "add", Amount: amount(1), Targets: []string{u.String()}},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, "/transactions", tt.req)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantFailure != "" {
				require.Equal(t, tt.wantFailure, decode[txFailure](t, rec).Failure)
			}
		})
	}

	require.Equal(t, 5, h.credits(t, u))
}

func TestTransactionHandler_AllOnline(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	poor := h.join(t, "A", 10)
	rich := h.join(t, "B", 1000)

	rec := h.do(t, http.MethodPost, "/transactions", txRequest{Kind: "take-all", Amount: amount(11)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[txResponse](t, rec)
	require.Equal(t, []rejection{{UUID: poor.String(), Username: "A", Reason: "not-enough-credits-other"}}, resp.Rejected)
	require.Equal(t, 10, h.credits(t, poor))
	require.Equal(t, 989, h.credits(t, rich))
}

func TestRedeemPromptFlow(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := h.join(t, "herbalist", 100)

	rec := h.do(t, http.MethodPost, "/users/"+id.String()+"/prompts/redeem", promptRequest{Skill: "Herbalism"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/chat/"+id.String(), chatRequest{Text: "40"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"consumed":true}`, rec.Body.String())

	ctx := context.Background()

	require.Eventually(t, func() bool {
		got, err := h.app.Users.GetUser(ctx, id).Await(ctx)
		return err == nil && got != nil && got.Redeemed == 40
	}, 5*time.Second, 10*time.Millisecond)

	require.Equal(t, 60, h.credits(t, id))
	require.Equal(t, 40, h.app.Skills.SkillLevel(id, skills.Herbalism))

	rec = h.do(t, http.MethodGet, "/users/"+id.String()+"/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"key":"redeem-prompt"`)
}

func TestChatHandler_Cancel(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := h.join(t, "quitter", 100)

	rec := h.do(t, http.MethodPost, "/users/"+id.String()+"/prompts/redeem", promptRequest{Skill: "taming"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = h.do(t, http.MethodPost, "/chat/"+id.String(), chatRequest{Text: " Cancel "})
	require.JSONEq(t, `{"consumed":true}`, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/chat/"+id.String(), chatRequest{Text: "5"})
	require.JSONEq(t, `{"consumed":false}`, rec.Body.String())

	require.Eventually(t, func() bool {
		rec := h.do(t, http.MethodGet, "/users/"+id.String()+"/messages", nil)
		return bytes.Contains(rec.Body.Bytes(), []byte(`"key":"redeem-cancelled"`))
	}, 5*time.Second, 10*time.Millisecond)

	require.Equal(t, 100, h.credits(t, id))
}

func TestRedeemPrompt_Errors(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := h.join(t, "x", 0)

	tests := []struct {
		name     string
		path     string
		skill    string
		wantCode int
	}{
		{name: "unknown_skill", path: "/users/" + id.String() + "/prompts/redeem", skill: "cooking", wantCode: http.StatusBadRequest},
		{name: "child_skill", path: "/users/" + id.String() + "/prompts/redeem", skill: "smelting", wantCode: http.StatusBadRequest},
		{name: "unknown_user", path: "/users/" + uuid.NewString() + "/prompts/redeem", skill: "mining", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, tt.path, promptRequest{Skill: tt.skill})
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}

	require.False(t, h.app.Prompts.Contains(id))
}

func TestLeave_CancelsPrompt(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := h.join(t, "leaver", 10)

	h.do(t, http.MethodPost, "/users/"+id.String()+"/prompts/redeem", promptRequest{Skill: "mining"})
	require.True(t, h.app.Prompts.Contains(id))

	rec := h.do(t, http.MethodDelete, "/users/"+id.String()+"/online", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.False(t, h.app.Prompts.Contains(id))
	require.False(t, h.app.Users.IsOnline(id))
}

func TestLeaderboard(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.join(t, "low", 1)
	h.join(t, "high", 300)
	h.join(t, "mid", 20)

	rec := h.do(t, http.MethodGet, "/leaderboard?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[struct {
		Users []userResponse `json:"users"`
	}](t, rec)
	require.Len(t, page.Users, 2)
	require.Equal(t, "high", page.Users[0].Username)
	require.Equal(t, "mid", page.Users[1].Username)

	for _, q := range []string{"limit=-1", "limit=abc", "offset=-3", "limit=1000"} {
		rec := h.do(t, http.MethodGet, "/leaderboard?"+q, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}
