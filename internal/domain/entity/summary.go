package entity

import "time"

type RunSummary struct {
	RunID      string
	TargetURL  string
	SiteTitle  string
	Username   string
	Model      string
	VisionMode string
	Total      int
	Passed     int
	Failed     int
	Duration   time.Duration
	Timestamp  time.Time
	Steps      []StepResult
}

type RunMeta struct {
	RunID      string
	TargetURL  string
	SiteTitle  string
	Username   string
	Model      string
	VisionMode string
	Duration   time.Duration
	Timestamp  time.Time
}

// Summarize derives the run summary from the recorded steps. Counts are a
// fold over statuses: passed counts success, failed counts error.
func Summarize(meta RunMeta, steps []StepResult) RunSummary {
	copied := make([]StepResult, len(steps))
	for i, s := range steps {
		copied[i] = s.Clone()
	}

	return RunSummary{
		RunID:      meta.RunID,
		TargetURL:  meta.TargetURL,
		SiteTitle:  meta.SiteTitle,
		Username:   meta.Username,
		Model:      meta.Model,
		VisionMode: meta.VisionMode,
		Total:      len(steps),
		Passed:     CountStatus(steps, StatusSuccess),
		Failed:     CountStatus(steps, StatusError),
		Duration:   meta.Duration,
		Timestamp:  meta.Timestamp,
		Steps:      copied,
	}
}

func CountStatus(steps []StepResult, status StepStatus) int {
	n := 0
	for _, s := range steps {
		if s.Status == status {
			n++
		}
	}
	return n
}

// TotalDuration sums the durations of steps that recorded one.
func TotalDuration(steps []StepResult) time.Duration {
	var total time.Duration
	for _, s := range steps {
		if s.Duration != nil {
			total += *s.Duration
		}
	}
	return total
}
