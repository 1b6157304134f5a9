package broadcast

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dskvich/tgcast/pkg/domain"
)

type call struct {
	dest domain.Destination
	text string
}

type fakeSender struct {
	calls []call
	fail  map[domain.Destination]error
}

func (f *fakeSender) Send(_ context.Context, dest domain.Destination, text string) error {
	f.calls = append(f.calls, call{dest, text})
	return f.fail[dest]
}

type fakeReporter struct {
	sending   []string
	delivered []error
}

func (f *fakeReporter) Sending(i, total int, dest domain.Destination) {
	f.sending = append(f.sending, string(dest))
	if i < 1 || i > total {
		panic("progress index out of range")
	}
}

func (f *fakeReporter) Delivered(_ domain.Destination, err error) {
	f.delivered = append(f.delivered, err)
}

func TestRunSendsToEveryDestinationInOrder(t *testing.T) {
	sender := &fakeSender{}
	reporter := &fakeReporter{}
	destinations := []domain.Destination{"123", "@news", "123"}

	summary := New(sender, reporter).Run(context.Background(), destinations, "hello")

	want := []call{{"123", "hello"}, {"@news", "hello"}, {"123", "hello"}}
	if !reflect.DeepEqual(sender.calls, want) {
		t.Errorf("calls = %v, want %v", sender.calls, want)
	}
	if !reflect.DeepEqual(reporter.sending, []string{"123", "@news", "123"}) {
		t.Errorf("progress = %v", reporter.sending)
	}
	if summary.Succeeded != 3 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 3 succeeded", summary)
	}
	if summary.ExitCode() != 0 {
		t.Errorf("ExitCode() = %d, want 0", summary.ExitCode())
	}
}

func TestRunDoesNotStopOnFailure(t *testing.T) {
	notFound := errors.New("Bad Request: chat not found")
	sender := &fakeSender{fail: map[domain.Destination]error{
		"1": notFound,
		"3": errors.New("timeout"),
	}}
	reporter := &fakeReporter{}
	destinations := []domain.Destination{"1", "2", "3", "4"}

	summary := New(sender, reporter).Run(context.Background(), destinations, "")

	if len(sender.calls) != len(destinations) {
		t.Fatalf("attempts = %d, want %d", len(sender.calls), len(destinations))
	}
	for _, c := range sender.calls {
		if c.text != "" {
			t.Errorf("text = %q, want empty message", c.text)
		}
	}
	if summary.Succeeded != 2 || summary.Failed != 2 {
		t.Errorf("summary = %+v, want 2 succeeded and 2 failed", summary)
	}
	if summary.Succeeded+summary.Failed != len(destinations) {
		t.Errorf("counts do not add up to %d: %+v", len(destinations), summary)
	}
	if summary.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1", summary.ExitCode())
	}
	if !errors.Is(summary.Err(), notFound) {
		t.Errorf("Err() = %v, want it to wrap %v", summary.Err(), notFound)
	}
	if !errors.Is(reporter.delivered[0], notFound) || reporter.delivered[1] != nil {
		t.Errorf("reported results = %v", reporter.delivered)
	}
}
