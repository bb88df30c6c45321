package memory_test

import (
	"fmt"
	"testing"
	"time"

	"qametrics-assistant/internal/assistant/memory"
)

func TestConversationWindow(t *testing.T) {
	t.Run("Never Exceeds Window", func(t *testing.T) {
		const window = 5
		conv := memory.NewConversation(window)

		for i := 0; i < 20; i++ {
			if i%2 == 0 {
				conv.AddHuman(fmt.Sprintf("q%d", i))
			} else {
				conv.AddAI(fmt.Sprintf("a%d", i))
			}
			want := i + 1
			if want > window {
				want = window
			}
			if got := conv.Len(); got != want {
				t.Fatalf("after %d adds expected len %d, got %d", i+1, want, got)
			}
		}
	})

	t.Run("Retains Most Recent In Order", func(t *testing.T) {
		conv := memory.NewConversation(3)
		for i := 0; i < 6; i++ {
			conv.AddHuman(fmt.Sprintf("m%d", i))
		}

		msgs := conv.Messages()
		if len(msgs) != 3 {
			t.Fatalf("expected 3 retained turns, got %d", len(msgs))
		}
		for i, want := range []string{"m3", "m4", "m5"} {
			if msgs[i].Content != want {
				t.Errorf("position %d: expected %q, got %q", i, want, msgs[i].Content)
			}
		}
	})

	t.Run("Roles Preserved", func(t *testing.T) {
		conv := memory.NewConversation(10)
		conv.AddSystem("ctx")
		conv.AddHuman("oi")
		conv.AddAI("olá")

		msgs := conv.Messages()
		wantRoles := []memory.Role{memory.RoleSystem, memory.RoleUser, memory.RoleAssistant}
		for i, r := range wantRoles {
			if msgs[i].Role != r {
				t.Errorf("position %d: expected role %s, got %s", i, r, msgs[i].Role)
			}
		}
	})

	t.Run("Clear", func(t *testing.T) {
		conv := memory.NewConversation(5)
		conv.AddHuman("oi")
		conv.Clear()
		if conv.Len() != 0 {
			t.Errorf("expected empty conversation after clear")
		}
	})

	t.Run("Messages Returns Copy", func(t *testing.T) {
		conv := memory.NewConversation(5)
		conv.AddHuman("original")
		msgs := conv.Messages()
		msgs[0].Content = "mutated"
		if conv.Messages()[0].Content != "original" {
			t.Errorf("external mutation must not affect stored turns")
		}
	})
}

func TestStore(t *testing.T) {
	t.Run("Sessions Are Independent", func(t *testing.T) {
		s := memory.NewStore(16, time.Minute, 5)
		a := s.Get(memory.SessionKey("u1", "DEMO"))
		b := s.Get(memory.SessionKey("u2", "DEMO"))

		a.AddHuman("only in a")
		if b.Len() != 0 {
			t.Errorf("sessions must never share storage")
		}
	})

	t.Run("Same Key Returns Same Conversation", func(t *testing.T) {
		s := memory.NewStore(16, time.Minute, 5)
		a := s.Get(memory.SessionKey("u1", ""))
		a.AddHuman("hello")

		again := s.Get(memory.SessionKey("u1", ""))
		if again.Len() != 1 {
			t.Errorf("expected the same conversation on repeat lookup")
		}
	})

	t.Run("Clear Removes Session", func(t *testing.T) {
		s := memory.NewStore(16, time.Minute, 5)
		key := memory.SessionKey("u1", "DEMO")
		s.Get(key).AddHuman("hello")

		if !s.Clear(key) {
			t.Errorf("expected clear to report existing session")
		}
		if s.Get(key).Len() != 0 {
			t.Errorf("expected a fresh conversation after clear")
		}
	})
}

func TestSessionKey(t *testing.T) {
	if memory.SessionKey("u1", "") != "u1|all" {
		t.Errorf("unexpected key for unscoped session")
	}
	if memory.SessionKey("u1", "DEMO") != "u1|DEMO" {
		t.Errorf("unexpected key for project-scoped session")
	}
}
