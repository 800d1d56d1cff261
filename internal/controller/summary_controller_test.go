package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-blog-summarizer-be/internal/dto"
	"ai-blog-summarizer-be/internal/pkg/serverutils"
	"ai-blog-summarizer-be/internal/service"
	"ai-blog-summarizer-be/pkg/summarizer"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSummarizationService struct {
	enqueueErr error
	syncErr    error
}

func (s *stubSummarizationService) Enqueue(_ context.Context, _ *dto.EnqueueSummaryRequest) (*dto.EnqueueSummaryResponse, error) {
	if s.enqueueErr != nil {
		return nil, s.enqueueErr
	}
	return &dto.EnqueueSummaryResponse{JobId: "job-1", Status: "pending"}, nil
}

func (s *stubSummarizationService) GetStatus(_ context.Context, jobId string) (*dto.SummaryStatusResponse, error) {
	if jobId == "job-1" {
		return &dto.SummaryStatusResponse{JobId: jobId, Status: "completed", Summary: "done"}, nil
	}
	return &dto.SummaryStatusResponse{JobId: jobId, Status: "not_found"}, nil
}

func (s *stubSummarizationService) Summarize(_ context.Context, req *dto.SyncSummaryRequest) (*dto.SyncSummaryResponse, error) {
	if s.syncErr != nil {
		return nil, s.syncErr
	}
	return &dto.SyncSummaryResponse{Summary: "short", Source: "llm"}, nil
}

func (s *stubSummarizationService) GenerateEmbedding(_ context.Context, _ *dto.EmbeddingRequest) (*dto.EmbeddingResponse, error) {
	return &dto.EmbeddingResponse{Embedding: []float32{1, 0}, Dimension: 2}, nil
}

func newSummaryApp(svc service.ISummarizationService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewSummaryController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func TestSummaryRoutes(t *testing.T) {
	tests := []struct {
		name     string
		svc      *stubSummarizationService
		method   string
		path     string
		body     string
		wantCode int
		wantBody string
	}{
		{"enqueue", &stubSummarizationService{}, "POST", "/api/summaries", `{"text":"hello"}`, fiber.StatusAccepted, `"job_id":"job-1"`},
		{"enqueue empty", &stubSummarizationService{enqueueErr: service.ErrEmptyText}, "POST", "/api/summaries", `{"text":""}`, fiber.StatusBadRequest, "text is required"},
		{"status completed", &stubSummarizationService{}, "GET", "/api/summaries/job-1", "", fiber.StatusOK, `"status":"completed"`},
		{"status unknown", &stubSummarizationService{}, "GET", "/api/summaries/nope", "", fiber.StatusOK, `"status":"not_found"`},
		{"sync", &stubSummarizationService{}, "POST", "/api/summaries/sync", `{"text":"hello"}`, fiber.StatusOK, `"summary":"short"`},
		{"sync missing text", &stubSummarizationService{}, "POST", "/api/summaries/sync", `{}`, fiber.StatusBadRequest, "text is required"},
		{"sync all chunks failed", &stubSummarizationService{syncErr: summarizer.ErrSummarizationFailed}, "POST", "/api/summaries/sync", `{"text":"x"}`, fiber.StatusBadGateway, "summarization failed"},
		{"embedding", &stubSummarizationService{}, "POST", "/api/embeddings", `{"text":"hello"}`, fiber.StatusOK, `"dimension":2`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := newSummaryApp(tt.svc).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.wantBody)
			assert.True(t, json.Valid(body))
		})
	}
}
