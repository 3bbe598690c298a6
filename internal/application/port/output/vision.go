package output

import (
	"context"

	"webtest-agent/internal/domain/entity"
)

// VisionPort sends one image and one prompt to an image-understanding model.
// A non-success HTTP status is reported through the returned Analysis;
// the error is reserved for transport failures.
type VisionPort interface {
	Analyze(ctx context.Context, image []byte, prompt string) (entity.Analysis, error)
	Model() string
	Mode() string
}
