package render

import (
	"fmt"
	"log/slog"

	"github.com/limaJavier/rostering/pkg/model"
	"github.com/limaJavier/rostering/pkg/roster"
)

// Sink persists a table; a failing write must not affect the other tables
type Sink interface {
	Write(table Table) error
}

// RenderError reports the solutions a sink could not persist
type RenderError struct {
	Failures map[int]error // Per solution index
}

func (err *RenderError) Error() string {
	return fmt.Sprintf("%d solutions could not be rendered", len(err.Failures))
}

func (err *RenderError) Unwrap() []error {
	errs := make([]error, 0, len(err.Failures))
	for _, failure := range err.Failures {
		errs = append(errs, failure)
	}
	return errs
}

// Export writes every solution to the sink, carrying on past failures
func Export(rosterModel *model.RosterModel, solutions []roster.Solution, sink Sink, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	failures := make(map[int]error)
	for _, solution := range solutions {
		if err := sink.Write(Rows(rosterModel, solution)); err != nil {
			logger.Error("cannot render solution", "solution", solution.Index, "error", err)
			failures[solution.Index] = err
		}
	}

	if len(failures) > 0 {
		return &RenderError{Failures: failures}
	}
	return nil
}
