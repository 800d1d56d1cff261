package dto

// SummarizeJobMessage is the queue payload consumed by the workers.
type SummarizeJobMessage struct {
	JobId string   `json:"job_id"`
	Texts []string `json:"texts"`
	Batch bool     `json:"batch"`
	Model string   `json:"model"`
}

// EnqueueSummaryRequest takes either Text or Texts. Texts makes a batch job.
type EnqueueSummaryRequest struct {
	Text  string   `json:"text"`
	Texts []string `json:"texts"`
	Model string   `json:"model"`
}

type EnqueueSummaryResponse struct {
	JobId  string `json:"job_id"`
	Status string `json:"status"`
}

type SummaryStatusResponse struct {
	JobId     string   `json:"job_id"`
	Status    string   `json:"status"`
	Summary   string   `json:"summary,omitempty"`
	Summaries []string `json:"summaries,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type SyncSummaryRequest struct {
	Text  string `json:"text" validate:"required"`
	Model string `json:"model"`
}

type SyncSummaryResponse struct {
	Summary      string  `json:"summary"`
	Source       string  `json:"source"`
	Model        string  `json:"model,omitempty"`
	WordCount    int     `json:"word_count"`
	Ratio        float64 `json:"ratio,omitempty"`
	Chunks       int     `json:"chunks"`
	FailedChunks int     `json:"failed_chunks"`
	Similarity   float64 `json:"similarity,omitempty"`
}

type EmbeddingRequest struct {
	Text string `json:"text" validate:"required"`
}

type EmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
	Dimension int       `json:"dimension"`
	Degraded  bool      `json:"degraded"`
}
