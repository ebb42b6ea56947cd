package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/proof-of-love/pol-api/internal/dto"
	"github.com/proof-of-love/pol-api/internal/handler"
	"github.com/proof-of-love/pol-api/internal/service"
	"github.com/proof-of-love/pol-api/pkg/ai"
)

type mockJudgeService struct {
	lastDraft  dto.DraftRequest
	evaluation ai.Evaluation
	err        error
}

func (m *mockJudgeService) Evaluate(_ context.Context, draft dto.DraftRequest) (ai.Evaluation, error) {
	m.lastDraft = draft
	if m.err != nil {
		return ai.Evaluation{}, m.err
	}
	return m.evaluation, nil
}

func newJudgeApp(svc service.JudgeService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/contributions")
	handler.NewJudgeHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func postJudge(t *testing.T, app *fiber.App, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contributions/judge", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestJudgeHandlerSuccess(t *testing.T) {
	svc := &mockJudgeService{evaluation: ai.Evaluation{
		Content:    `{"verdict":"accept"}`,
		Structured: &ai.StructuredEvaluation{Verdict: "accept"},
	}}
	app := newJudgeApp(svc)

	resp := postJudge(t, app, dto.DraftRequest{Summary: "完成文档翻译", Title: "Docs"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response dto.JudgeResponse
	decodeResponse(t, resp, &response)
	require.True(t, response.OK)
	require.Equal(t, `{"verdict":"accept"}`, response.Content)
	require.NotNil(t, response.Structured)
	require.Equal(t, "accept", response.Structured.Verdict)
	require.Equal(t, "Docs", svc.lastDraft.Title)
}

func TestJudgeHandlerUnstructuredReply(t *testing.T) {
	svc := &mockJudgeService{evaluation: ai.Evaluation{Content: "纯文本评审"}}
	app := newJudgeApp(svc)

	resp := postJudge(t, app, dto.DraftRequest{Summary: "summary"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// structured must be an explicit null for the frontend, not omitted.
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Contains(t, string(body), `"structured":null`)
}

func TestJudgeHandlerMissingSummary(t *testing.T) {
	svc := &mockJudgeService{err: service.ErrSummaryRequired}
	app := newJudgeApp(svc)

	resp := postJudge(t, app, dto.DraftRequest{Title: "no summary"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var response dto.JudgeError
	decodeResponse(t, resp, &response)
	require.Equal(t, "缺少必要字段：summary", response.Error)
}

func TestJudgeHandlerNoAPIKey(t *testing.T) {
	svc := &mockJudgeService{err: service.ErrJudgeUnavailable}
	app := newJudgeApp(svc)

	resp := postJudge(t, app, dto.DraftRequest{Summary: "summary"})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var response dto.JudgeError
	decodeResponse(t, resp, &response)
	require.Equal(t, "服务器未配置 DeepSeek API 密钥", response.Error)
}

func TestJudgeHandlerEmptyReply(t *testing.T) {
	svc := &mockJudgeService{err: ai.ErrNoUsableContent}
	app := newJudgeApp(svc)

	resp := postJudge(t, app, dto.DraftRequest{Summary: "summary"})
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var response dto.JudgeError
	decodeResponse(t, resp, &response)
	require.Equal(t, "DeepSeek 未返回有效内容", response.Error)
}

func TestJudgeHandlerUpstreamFailure(t *testing.T) {
	svc := &mockJudgeService{err: service.ErrUpstream}
	app := newJudgeApp(svc)

	resp := postJudge(t, app, dto.DraftRequest{Summary: "summary"})
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var response dto.JudgeError
	decodeResponse(t, resp, &response)
	require.Equal(t, "DeepSeek API 调用失败", response.Error)
	require.NotEmpty(t, response.Details)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}
