package repository

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/AnikethTS/citadel-backend-v2/internal/model"
)

func newTestLog(t *testing.T) *MessageLog {
	t.Helper()
	return NewMessageLog(filepath.Join(t.TempDir(), "messages.json"))
}

func seedLog(t *testing.T, l *MessageLog, msgs ...model.Message) {
	t.Helper()
	for _, m := range msgs {
		if err := l.Append(m); err != nil {
			t.Fatalf("seed append: %v", err)
		}
	}
}

func TestReadAll_MissingFile(t *testing.T) {
	l := newTestLog(t)

	msgs, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll on missing file: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected empty log, got %d messages", len(msgs))
	}
}

func TestReadAll_Idempotent(t *testing.T) {
	l := newTestLog(t)
	seedLog(t, l,
		model.Message{Sender: "A", Body: "hi", Time: "t1"},
		model.Message{Sender: "B", Body: "yo", Time: "t2"},
	)

	first, err := l.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	second, err := l.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("consecutive reads differ: %v vs %v", first, second)
	}
}

func TestAppend_PreservesOrder(t *testing.T) {
	l := newTestLog(t)
	seedLog(t, l,
		model.Message{Sender: "A", Body: "first", Time: "t9"},
		model.Message{Sender: "B", Body: "second", Time: "t1"},
		model.Message{Sender: "A", Body: "third", Time: "t5"},
	)

	msgs, err := l.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// Append order, not timestamp order.
	want := []string{"first", "second", "third"}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(msgs))
	}
	for i, body := range want {
		if msgs[i].Body != body {
			t.Errorf("msgs[%d].Body = %q, want %q", i, msgs[i].Body, body)
		}
	}
}

func TestUpdateAt(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		wantOK bool
	}{
		{"first", 0, true},
		{"last", 2, true},
		{"negative", -1, false},
		{"past end", 3, false},
		{"far past end", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLog(t)
			seedLog(t, l,
				model.Message{Sender: "A", Body: "a", Time: "t1"},
				model.Message{Sender: "B", Body: "b", Media: &model.Media{Type: "image", URL: "/uploads/x.png"}, Time: "t2"},
				model.Message{Sender: "C", Body: "c", Time: "t3"},
			)
			before, _ := l.ReadAll()

			msgs, ok, err := l.UpdateAt(tt.index, "edited")
			if err != nil {
				t.Fatal(err)
			}
			if ok != tt.wantOK {
				t.Fatalf("UpdateAt(%d) ok = %v, want %v", tt.index, ok, tt.wantOK)
			}

			if !tt.wantOK {
				if !reflect.DeepEqual(msgs, before) {
					t.Fatal("out-of-range update modified the log")
				}
				return
			}

			if msgs[tt.index].Body != "edited" {
				t.Errorf("body = %q, want %q", msgs[tt.index].Body, "edited")
			}
			// Only the body changes; everything else stays.
			if msgs[tt.index].Sender != before[tt.index].Sender ||
				msgs[tt.index].Time != before[tt.index].Time ||
				!reflect.DeepEqual(msgs[tt.index].Media, before[tt.index].Media) {
				t.Error("update touched fields other than body")
			}
			for i := range msgs {
				if i != tt.index && !reflect.DeepEqual(msgs[i], before[i]) {
					t.Errorf("message at %d changed", i)
				}
			}

			// The change is durable.
			persisted, err := l.ReadAll()
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(persisted, msgs) {
				t.Error("persisted log differs from returned log")
			}
		})
	}
}

func TestDeleteAt(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		wantOK bool
		want   []string // remaining bodies in order
	}{
		{"first", 0, true, []string{"b", "c"}},
		{"middle", 1, true, []string{"a", "c"}},
		{"last", 2, true, []string{"a", "b"}},
		{"negative", -1, false, []string{"a", "b", "c"}},
		{"past end", 3, false, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLog(t)
			seedLog(t, l,
				model.Message{Sender: "A", Body: "a", Time: "t1"},
				model.Message{Sender: "B", Body: "b", Time: "t2"},
				model.Message{Sender: "C", Body: "c", Time: "t3"},
			)

			msgs, ok, err := l.DeleteAt(tt.index)
			if err != nil {
				t.Fatal(err)
			}
			if ok != tt.wantOK {
				t.Fatalf("DeleteAt(%d) ok = %v, want %v", tt.index, ok, tt.wantOK)
			}
			if len(msgs) != len(tt.want) {
				t.Fatalf("expected %d messages, got %d", len(tt.want), len(msgs))
			}
			for i, body := range tt.want {
				if msgs[i].Body != body {
					t.Errorf("msgs[%d].Body = %q, want %q", i, msgs[i].Body, body)
				}
			}
		})
	}
}

func TestOutOfRange_FileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	l := NewMessageLog(path)
	seedLog(t, l, model.Message{Sender: "A", Body: "hi", Time: "t1"})

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok, err := l.UpdateAt(5, "x"); err != nil || ok {
		t.Fatalf("UpdateAt(5) = ok=%v err=%v, want silent no-op", ok, err)
	}
	if _, ok, err := l.DeleteAt(-2); err != nil || ok {
		t.Fatalf("DeleteAt(-2) = ok=%v err=%v, want silent no-op", ok, err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatal("out-of-range mutation rewrote the file")
	}
}

func TestReplaceAll(t *testing.T) {
	l := newTestLog(t)
	seedLog(t, l, model.Message{Sender: "A", Body: "old", Time: "t1"})

	replacement := []model.Message{
		{Sender: "B", Body: "new", Time: "t2"},
		{Sender: "C", Body: "newer", Time: "t3"},
	}
	if err := l.ReplaceAll(replacement); err != nil {
		t.Fatal(err)
	}

	msgs, err := l.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(msgs, replacement) {
		t.Fatalf("ReadAll = %v, want %v", msgs, replacement)
	}
}

func TestReadAll_UnreadableFile(t *testing.T) {
	// A directory at the log path makes every read fail.
	dir := t.TempDir()
	l := NewMessageLog(dir)

	if _, err := l.ReadAll(); err == nil {
		t.Fatal("expected error reading a directory as the log")
	}
	if err := l.Append(model.Message{Sender: "A", Body: "hi"}); err == nil {
		t.Fatal("expected append to fail when the log is unreadable")
	}
}
