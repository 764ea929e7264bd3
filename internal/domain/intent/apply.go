package intent

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/tools"
	"github.com/GriffinCanCode/InkOS/backend/internal/inference"
	"go.uber.org/zap"
)

// apply executes one tool call against the workspace
func (d *Dispatcher) apply(call inference.ToolCall) Outcome {
	out := Outcome{Name: call.Name, Args: call.Args}

	switch call.Name {
	case tools.DeleteItem:
		name, ok := stringArg(call.Args, tools.ArgItemName)
		if !ok {
			return malformed(out, tools.ArgItemName)
		}
		if n := d.workspace.DeleteItemsNamed(name); n > 0 {
			out.Status = OutcomeApplied
			out.Detail = fmt.Sprintf("removed %d entities", n)
		} else {
			out.Status = OutcomeMiss
			out.Detail = fmt.Sprintf("no item named %q", name)
		}

	case tools.ExplodeFolder:
		name, ok := stringArg(call.Args, tools.ArgFolderName)
		if !ok {
			return malformed(out, tools.ArgFolderName)
		}
		win, err := d.workspace.ExplodeFolder(name)
		if err != nil {
			out.Status = OutcomeMiss
			out.Detail = err.Error()
		} else {
			out.Status = OutcomeApplied
			out.Detail = "opened window " + win.ID
		}

	case tools.DeleteEmail:
		text, ok := stringArg(call.Args, tools.ArgSubjectText)
		if !ok {
			return malformed(out, tools.ArgSubjectText)
		}
		if n := d.workspace.DeleteEmailsMatching(text); n > 0 {
			out.Status = OutcomeApplied
			out.Detail = fmt.Sprintf("removed %d emails", n)
		} else {
			out.Status = OutcomeMiss
			out.Detail = fmt.Sprintf("no subject contains %q", text)
		}

	case tools.SummarizeEmail:
		text, ok := stringArg(call.Args, tools.ArgSubjectText)
		if !ok {
			return malformed(out, tools.ArgSubjectText)
		}
		notice := d.workspace.SummarizeEmail(text)
		out.Status = OutcomeApplied
		out.Detail = notice.Message
		if email, found := d.workspace.Mail().FindBySubject(text); found {
			out.Detail = fmt.Sprintf("%s (email %d)", notice.Message, email.ID)
		}

	default:
		out.Status = OutcomeIgnored
	}

	return out
}

// applyAll applies every call in order. A known tool the focused surface
// did not offer still runs but is flagged OutsideSchema.
func (d *Dispatcher) applyAll(calls []inference.ToolCall, schema inference.ToolSchema) []Outcome {
	outcomes := make([]Outcome, 0, len(calls))
	for _, call := range calls {
		out := d.apply(call)
		if out.Status != OutcomeIgnored && !schema.Has(out.Name) {
			out.OutsideSchema = true
			d.logger.Warn("Tool call outside surface schema",
				zap.String("tool", out.Name),
				zap.String("surface", schema.Surface))
		}
		outcomes = append(outcomes, out)

		if d.metrics != nil {
			d.metrics.RecordToolCall(out.Name, out.Status)
		}
		d.logger.Info("Tool call",
			zap.String("tool", out.Name),
			zap.String("status", out.Status),
			zap.String("detail", out.Detail))
	}
	return outcomes
}

func malformed(out Outcome, arg string) Outcome {
	out.Status = OutcomeMalformed
	out.Detail = "missing or blank argument " + arg
	return out
}

// stringArg returns args[key] when it is a non-blank string. The value is
// returned untrimmed so name matching stays exact.
func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}
