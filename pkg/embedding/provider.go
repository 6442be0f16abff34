package embedding

import "context"

// Task types understood by the embedding backends. Query and document
// embeddings are asymmetric for retrieval-tuned models.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Provider converts text into a fixed-dimension vector.
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)

	// Dimension returns the length of the vectors this provider emits.
	Dimension() int
}
