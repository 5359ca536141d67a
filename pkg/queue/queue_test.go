package queue

import (
	"sync"
	"testing"
)

func TestQueueFIFO(t *testing.T) {
	q := New()
	q.Enqueue(Task{Kind: KindCurrent, SubjectID: "a"}, Task{Kind: KindHourly, SubjectID: "b"})
	q.Enqueue(Task{Kind: KindDaily, SubjectID: "c"})

	if got := q.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	want := []string{"a", "b", "c"}
	for _, id := range want {
		task, ok := q.Dequeue()
		if !ok {
			t.Fatalf("Dequeue() ok = false, want task %s", id)
		}
		if task.SubjectID != id {
			t.Errorf("Dequeue() subject = %s, want %s", task.SubjectID, id)
		}
	}

	if _, ok := q.Dequeue(); ok {
		t.Error("Dequeue() on empty queue ok = true, want false")
	}
}

func TestQueueClear(t *testing.T) {
	q := New()
	q.Enqueue(Task{Kind: KindCurrent}, Task{Kind: KindAdvisory})

	if got := q.Clear(); got != 2 {
		t.Errorf("Clear() = %d, want 2", got)
	}
	if got := q.Len(); got != 0 {
		t.Errorf("Len() after Clear = %d, want 0", got)
	}
}

func TestQueueReadySignal(t *testing.T) {
	q := New()

	select {
	case <-q.Ready():
		t.Fatal("Ready() signalled on empty queue")
	default:
	}

	q.Enqueue(Task{Kind: KindCurrent})
	q.Enqueue(Task{Kind: KindHourly})

	select {
	case <-q.Ready():
	default:
		t.Fatal("Ready() not signalled after Enqueue")
	}
}

func TestQueueConcurrentEnqueue(t *testing.T) {
	q := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Enqueue(Task{Kind: KindCurrent})
		}()
	}
	wg.Wait()

	if got := q.Len(); got != 50 {
		t.Errorf("Len() = %d, want 50", got)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindCurrent, "current"},
		{KindHourly, "hourly"},
		{KindDaily, "daily"},
		{KindSecondaryIndex, "secondary_index"},
		{KindAdvisory, "advisory"},
		{KindMaintenance, "maintenance"},
		{Kind(42), "kind(42)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestTaskString(t *testing.T) {
	if got := (Task{Kind: KindDaily, SubjectID: "101010100"}).String(); got != "daily:101010100" {
		t.Errorf("String() = %q, want %q", got, "daily:101010100")
	}
	if got := (Task{Kind: KindMaintenance}).String(); got != "maintenance" {
		t.Errorf("String() = %q, want %q", got, "maintenance")
	}
}
