package certs

import (
	"context"
	"strings"
	"testing"

	"github.com/every-mentor/mentorai/internal/providers"
)

func TestInferrer_PlaceholderWhenDisabled(t *testing.T) {
	mock := providers.NewMockClient()
	inf := NewInferrer(InferrerConfig{Client: mock, FallbackEnabled: false})

	line, err := inf.InferSubjects(context.Background(), "미지의자격증")
	if err != nil {
		t.Fatalf("InferSubjects: %v", err)
	}
	if line != "미지의자격증 - (과목표 미등록)" {
		t.Errorf("line = %q", line)
	}
	if mock.RequestCount() != 0 {
		t.Errorf("LLM called %d times with fallback disabled", mock.RequestCount())
	}

	// Placeholder is cached too.
	if cached, ok := inf.Cached("미지의자격증"); !ok || cached != line {
		t.Errorf("cached = %q, %v", cached, ok)
	}
}

func TestInferrer_SingleLLMCallPerCompactedName(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = "미지의자격증 - 과목A, 과목B\n덧붙은 둘째 줄"
	inf := NewInferrer(InferrerConfig{Client: mock, FallbackEnabled: true})

	first, err := inf.InferSubjects(context.Background(), "미지의자격증")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	// Whitespace-variant spelling compacts to the same cache key.
	second, err := inf.InferSubjects(context.Background(), "미지의 자격증")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if mock.RequestCount() != 1 {
		t.Errorf("LLM called %d times, want 1", mock.RequestCount())
	}
	if first != second {
		t.Errorf("cache returned different lines: %q vs %q", first, second)
	}
	if first != "미지의자격증 - 과목A, 과목B" {
		t.Errorf("line = %q, want first response line only", first)
	}
}

func TestInferrer_ForcesNamePrefix(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = "- 과목A, 과목B"
	inf := NewInferrer(InferrerConfig{Client: mock, FallbackEnabled: true})

	line, err := inf.InferSubjects(context.Background(), "미지의자격증")
	if err != nil {
		t.Fatalf("InferSubjects: %v", err)
	}
	if !strings.HasPrefix(line, "미지의자격증 - ") {
		t.Errorf("line = %q, must start with the certificate name", line)
	}
}

func TestInferrer_NoInfoSentinel(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = "정보 없음"
	inf := NewInferrer(InferrerConfig{Client: mock, FallbackEnabled: true})

	line, err := inf.InferSubjects(context.Background(), "미지의자격증")
	if err != nil {
		t.Fatalf("InferSubjects: %v", err)
	}
	if line != "미지의자격증 - (과목표 미등록)" {
		t.Errorf("line = %q, want placeholder on sentinel", line)
	}
}

func TestInferrer_LLMErrorNotCached(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ShouldFail = true
	inf := NewInferrer(InferrerConfig{Client: mock, FallbackEnabled: true})

	if _, err := inf.InferSubjects(context.Background(), "미지의자격증"); err == nil {
		t.Fatal("expected error from failing client")
	}
	if _, ok := inf.Cached("미지의자격증"); ok {
		t.Error("failed inference must not populate the cache")
	}
}

func TestSubjectCache_Concurrent(t *testing.T) {
	cache := NewSubjectCache()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				cache.Put("키", "값")
				cache.Get("키")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	if line, ok := cache.Get("키"); !ok || line != "값" {
		t.Errorf("cache corrupted: %q, %v", line, ok)
	}
	if cache.Len() != 1 {
		t.Errorf("len = %d", cache.Len())
	}
}
