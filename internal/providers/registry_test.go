package providers

import "testing"

func TestRegistry_Select(t *testing.T) {
	t.Run("auto prefers anthropic when key configured", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{AnthropicAPIKey: "k"})
		client, err := r.Select(SelectionAuto)
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if client.Name() != AnthropicName {
			t.Errorf("selected %q, want anthropic", client.Name())
		}
	})

	t.Run("auto falls back to lmstudio without key", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{})
		client, err := r.Select(SelectionAuto)
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if client.Name() != LMStudioName {
			t.Errorf("selected %q, want lmstudio", client.Name())
		}
	})

	t.Run("empty selection behaves like auto", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{})
		client, err := r.Select("")
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if client.Name() != LMStudioName {
			t.Errorf("selected %q", client.Name())
		}
	})

	t.Run("explicit unregistered provider fails", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{})
		if _, err := r.Select(SelectionAnthropic); err == nil {
			t.Error("expected error for unregistered anthropic")
		}
	})
}

func TestRegistry_Reload(t *testing.T) {
	r := NewRegistryFromConfig(RegistryConfig{AnthropicAPIKey: "k"})
	if !r.Has(SelectionAnthropic) {
		t.Fatal("anthropic should be registered")
	}

	r.Reload(RegistryConfig{})
	if r.Has(SelectionAnthropic) {
		t.Error("anthropic should be gone after key removal")
	}
	if !r.Has(SelectionLMStudio) {
		t.Error("lmstudio should always be registered")
	}
}

func TestRegistry_RegisterAndList(t *testing.T) {
	r := NewRegistry()
	mock := NewMockClient()
	r.Register(MockClientName, mock)

	got, err := r.Get(MockClientName)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != mock {
		t.Error("Get returned a different client")
	}
	if len(r.List()) != 1 {
		t.Errorf("List = %v", r.List())
	}

	r.Unregister(MockClientName)
	if r.Has(MockClientName) {
		t.Error("client still registered after Unregister")
	}
}
