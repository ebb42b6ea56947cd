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
	"github.com/proof-of-love/pol-api/internal/models"
	"github.com/proof-of-love/pol-api/internal/service"
	"github.com/proof-of-love/pol-api/internal/utils"
)

type mockSettlementService struct {
	lastDraft dto.DraftRequest
	response  dto.SettlementResponse
	records   []models.EvaluationRecord
	err       error
}

func (m *mockSettlementService) Settle(_ context.Context, draft dto.DraftRequest) (dto.SettlementResponse, error) {
	m.lastDraft = draft
	if m.err != nil {
		return dto.SettlementResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockSettlementService) RecentRecords(_ context.Context, limit int) ([]models.EvaluationRecord, error) {
	return m.records, nil
}

func newContributionApp(governance service.GovernanceService, settlement service.SettlementService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/contributions")
	handler.NewContributionHandler(governance, settlement, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestContributionList(t *testing.T) {
	governance := &mockGovernanceService{page: service.ContributionPage{
		Total:  2,
		Limit:  50,
		Contributions: []dto.ContributionView{
			{ID: 2, Title: "second"},
			{ID: 1, Title: "first"},
		},
	}}
	app := newContributionApp(governance, &mockSettlementService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/contributions", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                   `json:"success"`
		Data    []dto.ContributionView `json:"data"`
		Meta    *utils.PageMeta        `json:"meta"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Len(t, response.Data, 2)
	require.Equal(t, uint64(2), response.Data[0].ID)
	require.NotNil(t, response.Meta)
	require.Equal(t, uint64(2), response.Meta.Total)
}

func TestContributionListRegistryUnset(t *testing.T) {
	governance := &mockGovernanceService{listErr: service.ErrRegistryNotConfigured}
	app := newContributionApp(governance, &mockSettlementService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/contributions", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestContributionListBadQuery(t *testing.T) {
	app := newContributionApp(&mockGovernanceService{}, &mockSettlementService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/contributions?offset=-1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestContributionGet(t *testing.T) {
	governance := &mockGovernanceService{view: dto.ContributionView{ID: 9, Title: "ninth"}}
	app := newContributionApp(governance, &mockSettlementService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/contributions/9", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint64(9), governance.lastID)
}

func TestContributionGetNotFound(t *testing.T) {
	governance := &mockGovernanceService{getErr: service.ErrContributionNotFound}
	app := newContributionApp(governance, &mockSettlementService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/contributions/404", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestContributionSettleSuccess(t *testing.T) {
	id := uint64(3)
	settlement := &mockSettlementService{response: dto.SettlementResponse{
		ContributionID: &id,
		TxHash:         "0xabc",
		State:          models.SettlementStateConfirmed,
	}}
	app := newContributionApp(&mockGovernanceService{}, settlement)

	body, err := json.Marshal(dto.DraftRequest{Summary: "summary", Title: "draft"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contributions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "draft", settlement.lastDraft.Title)
}

func TestContributionSettleErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"missing summary", service.ErrSummaryRequired, fiber.StatusBadRequest},
		{"in flight", service.ErrSubmissionInFlight, fiber.StatusConflict},
		{"registry unset", service.ErrRegistryNotConfigured, fiber.StatusServiceUnavailable},
		{"judge unset", service.ErrJudgeUnavailable, fiber.StatusServiceUnavailable},
		{"reverted", service.ErrTransactionFailed, fiber.StatusBadGateway},
		{"upstream", service.ErrUpstream, fiber.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settlement := &mockSettlementService{err: tc.err}
			app := newContributionApp(&mockGovernanceService{}, settlement)

			body, err := json.Marshal(dto.DraftRequest{Summary: "summary"})
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/contributions", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestContributionRecords(t *testing.T) {
	settlement := &mockSettlementService{records: []models.EvaluationRecord{{ID: 1, State: models.SettlementStateConfirmed}}}
	app := newContributionApp(&mockGovernanceService{}, settlement)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/contributions/records", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data []models.EvaluationRecord `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Len(t, response.Data, 1)
}
