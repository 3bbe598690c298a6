// Package report renders the run summary into the HTML report template.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"webtest-agent/internal/application/port/output"
	"webtest-agent/internal/domain/entity"
)

var _ output.ReportPort = (*Writer)(nil)

const (
	TemplateName  = "test_results_template.html"
	TemplateDir   = "templates"
	timestampFmt  = "2006-01-02 15:04:05"
	fileStampFmt  = "20060102_150405"
	reportPattern = "test_report_%s.html"
)

type Config struct {
	Dir          string
	TemplatePath string
}

// Writer renders summaries with the template on disk and stores one file per run.
type Writer struct {
	dir      string
	template string
	logger   output.LoggerPort
	now      func() time.Time
}

func NewWriter(cfg Config, logger output.LoggerPort) *Writer {
	return &Writer{
		dir:      cfg.Dir,
		template: cfg.TemplatePath,
		logger:   logger,
		now:      time.Now,
	}
}

// Write never returns an error: a report that cannot be produced is logged
// and signalled with ok=false so the run can still finish.
func (w *Writer) Write(summary entity.RunSummary) (string, bool) {
	path, err := w.write(summary)
	if err != nil {
		w.logger.Error("Error generating HTML report", "error", err, "dir", w.dir, "template", w.template)
		return "", false
	}
	w.logger.Info("Test report generated", "path", path)
	return path, true
}

func (w *Writer) write(summary entity.RunSummary) (string, error) {
	tmpl, err := os.ReadFile(w.template)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf(reportPattern, w.now().Format(fileStampFmt)))
	if err := os.WriteFile(path, []byte(Render(summary, string(tmpl))), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}

// Render substitutes every placeholder of tmpl. Text values are escaped;
// {{TEST_RESULTS}} receives the generated table rows.
func Render(summary entity.RunSummary, tmpl string) string {
	r := strings.NewReplacer(
		"{{TIMESTAMP}}", summary.Timestamp.Format(timestampFmt),
		"{{SITE_URL}}", html.EscapeString(summary.TargetURL),
		"{{SITE_TITLE}}", html.EscapeString(summary.SiteTitle),
		"{{USERNAME}}", html.EscapeString(summary.Username),
		"{{VISION_MODEL}}", html.EscapeString(summary.Model),
		"{{VISION_MODE}}", html.EscapeString(summary.VisionMode),
		"{{TOTAL_TESTS}}", strconv.Itoa(summary.Total),
		"{{PASSED_TESTS}}", strconv.Itoa(summary.Passed),
		"{{FAILED_TESTS}}", strconv.Itoa(summary.Failed),
		"{{DURATION}}", seconds(summary.Duration),
		"{{TEST_RESULTS}}", Rows(summary.Steps),
	)
	return r.Replace(tmpl)
}

// Rows renders one table row per step, in order.
func Rows(steps []entity.StepResult) string {
	var b strings.Builder
	for _, s := range steps {
		status := strings.ToUpper(s.Status.String())
		if status == "" {
			status = "UNKNOWN"
		}
		details := s.Details
		if details == "" {
			details = "No details available"
		}

		b.WriteString("\n<tr>\n")
		fmt.Fprintf(&b, "    <td>%s</td>\n", html.EscapeString(s.Name))
		fmt.Fprintf(&b, "    <td><span class=\"status status-%s\">%s</span></td>\n", strings.ToLower(status), status)
		fmt.Fprintf(&b, "    <td class=\"details-cell\">%s</td>\n", html.EscapeString(details))
		fmt.Fprintf(&b, "    <td>%s</td>\n", stepTime(s.Duration))
		b.WriteString("</tr>\n")
	}
	return b.String()
}

func stepTime(d *time.Duration) string {
	if d == nil {
		return "0s"
	}
	return seconds(*d)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// ResolveTemplate picks the template file: an explicit path wins, then the
// templates directory next to the executable, then the working directory.
func ResolveTemplate(explicit string) string {
	if explicit != "" {
		return explicit
	}

	rel := filepath.Join(TemplateDir, TemplateName)
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return rel
}
