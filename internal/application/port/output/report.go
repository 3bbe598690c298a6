package output

import "webtest-agent/internal/domain/entity"

type ReportPort interface {
	// Write renders and stores the report. ok is false when no report was produced.
	Write(summary entity.RunSummary) (path string, ok bool)
}
