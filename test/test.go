package test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func ConfigLogging() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

type CallWatcher struct {
	functionCalls map[string][][]interface{}
}

func NewCallWatcher() *CallWatcher {
	return &CallWatcher{functionCalls: make(map[string][][]interface{})}
}

func (w *CallWatcher) GetCall(funcName string) [][]interface{} {
	for name, calls := range w.functionCalls {
		if strings.HasSuffix(name, "."+funcName) {
			return calls
		}
	}
	return nil
}

func (w *CallWatcher) GetCallCount(funcName string) int {
	cnt := 0
	for name, calls := range w.functionCalls {
		if strings.HasSuffix(name, "."+funcName) {
			cnt += len(calls)
		}
	}
	return cnt
}

func (w *CallWatcher) VerifyCount(funcName string, want int, t *testing.T) {
	t.Helper()
	if got := w.GetCallCount(funcName); got != want {
		t.Errorf("%s call count got=%d want=%d", funcName, got, want)
	}
}

func (w *CallWatcher) AddCall(args ...interface{}) {
	pc := make([]uintptr, 15)
	n := runtime.Callers(2, pc)
	frames := runtime.CallersFrames(pc[:n])
	frame, _ := frames.Next()
	funcName := frame.Func.Name()

	calls := w.functionCalls[funcName]
	w.functionCalls[funcName] = append(calls, args)
}
