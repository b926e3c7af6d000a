package client

import (
	"testing"

	"github.com/vietddude/codementor/internal/resilience/classify"
	"github.com/vietddude/codementor/internal/resilience/orchestrator"
)

func TestViewTransitions(t *testing.T) {
	v := View[string]{Status: StatusIdle}

	v = Begin(v)
	if v.Status != StatusLoading || v.Notice != nil {
		t.Fatalf("unexpected loading view %+v", v)
	}

	loaded := Resolve(v, orchestrator.Result[string]{Source: orchestrator.Remote, Data: "ok"})
	if loaded.Status != StatusLoaded || loaded.Data != "ok" || loaded.Notice != nil {
		t.Errorf("unexpected loaded view %+v", loaded)
	}

	netErr := &classify.Error{Category: classify.Network, UserMessage: classify.MsgUnreachable}
	demo := Resolve(Begin(loaded), orchestrator.Result[string]{Source: orchestrator.Fallback, Data: "mock", Err: netErr})
	if demo.Status != StatusDemo || demo.Data != "mock" || demo.Notice.Kind != NoticeWarning {
		t.Errorf("unexpected demo view %+v", demo)
	}
	if demo.Notice.Message != DemoModeMessage+": "+classify.MsgUnreachable {
		t.Errorf("unexpected notice %q", demo.Notice.Message)
	}

	valErr := classify.Validation(map[string]string{"code": "code is required"})
	failed := Resolve(Begin(loaded), orchestrator.Result[string]{Source: orchestrator.Remote, Err: valErr})
	if failed.Status != StatusFailed || failed.Data != "ok" {
		t.Errorf("failed view should keep previous data: %+v", failed)
	}
	if failed.Notice.Kind != NoticeError || failed.FieldErrors["code"] == "" {
		t.Errorf("unexpected failure detail %+v", failed)
	}

	saved := WithNotice(loaded, NoticeSuccess, "Saved")
	if saved.Notice.Kind != NoticeSuccess || loaded.Notice != nil {
		t.Error("WithNotice should not mutate its input")
	}
}
