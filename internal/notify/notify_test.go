package notify

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleSink(t *testing.T) {
	tests := []struct {
		name string
		n    Notification
		want string
	}{
		{name: "success", n: Success("Task created"), want: "✅ Task created\n"},
		{name: "failure", n: Failure("create failed: %s", "timeout"), want: "❌ create failed: timeout\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			sink := &ConsoleSink{Out: &buf}
			sink.Notify(tt.n)
			if got := buf.String(); got != tt.want {
				t.Errorf("output: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder

	if _, ok := r.Last(); ok {
		t.Error("empty recorder reported a last notification")
	}

	r.Notify(Success("one"))
	r.Notify(Failure("two"))

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("recorded count: got %d, want 2", len(all))
	}
	if all[0].Kind != KindSuccess || all[0].Message != "one" {
		t.Errorf("first: got %+v", all[0])
	}

	last, ok := r.Last()
	if !ok || last.Kind != KindFailure || !strings.Contains(last.Message, "two") {
		t.Errorf("last: got %+v ok=%v", last, ok)
	}
}
