package hxform

import (
	"fmt"
	"log/slog"
	"strings"
)

// ExecutionContext is handed to actions so they can report progress.
// Arguments are formatted with fmt.Sprint and joined with spaces.
type ExecutionContext interface {
	SetStatus(message string)
	Log(args ...any)
	Warn(args ...any)
	Error(args ...any)
}

func joinArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, " ")
}

type basicExecutionContext struct {
	log *slog.Logger
}

// BasicExecutionContext sends everything to a logger, for running actions
// outside of a field. A nil logger means slog.Default().
func BasicExecutionContext(logger *slog.Logger) ExecutionContext {
	if logger == nil {
		logger = slog.Default()
	}
	return basicExecutionContext{log: logger}
}

func (c basicExecutionContext) SetStatus(string)  {}
func (c basicExecutionContext) Log(args ...any)   { c.log.Info(joinArgs(args)) }
func (c basicExecutionContext) Warn(args ...any)  { c.log.Warn(joinArgs(args)) }
func (c basicExecutionContext) Error(args ...any) { c.log.Error(joinArgs(args)) }

// fieldExecutionContext routes reports into an action's root messages.
type fieldExecutionContext[R any] struct {
	action *ActionField[R]
}

func (c fieldExecutionContext[R]) SetStatus(message string) {
	c.action.setStatus(message)
}

func (c fieldExecutionContext[R]) Log(args ...any) {
	c.add(MessageInfo, args)
}

func (c fieldExecutionContext[R]) Warn(args ...any) {
	c.add(MessageWarning, args)
}

func (c fieldExecutionContext[R]) Error(args ...any) {
	c.add(MessageError, args)
}

func (c fieldExecutionContext[R]) add(t MessageType, args []any) {
	c.action.addMessage(MessageAt{
		FieldMessage: FieldMessage{Text: joinArgs(args), Type: t},
		Location:     RootLocation,
	})
}
