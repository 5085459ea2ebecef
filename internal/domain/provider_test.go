package domain_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/llmrouter/internal/cache/memory"
	"github.com/davidbz/llmrouter/internal/domain"
	"github.com/davidbz/llmrouter/internal/mocks"
)

func newTestProvider(
	t *testing.T,
	backend domain.Backend,
	sink domain.MetricsSink,
	store domain.CacheStore,
) *domain.Provider {
	t.Helper()

	if store == nil {
		store = memory.NewStore(0, 0)
	}

	return domain.NewProvider("google", "gemini", backend, domain.ProviderDeps{
		Cache:   domain.NewResponseCache(store, time.Minute),
		Metrics: sink,
		Retry:   fastPolicy(),
	})
}

func expectCall(sink *mocks.MockMetricsSink, failures int) {
	sink.EXPECT().IncRequests("google", "gemini").Return().Once()
	sink.EXPECT().ObserveLatency("google", "gemini", mock.Anything).Return().Once()
	if failures > 0 {
		sink.EXPECT().IncErrors("google", "gemini").Return().Times(failures)
	}
}

func TestProvider_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("should serve the second identical call from cache", func(t *testing.T) {
		backend := mocks.NewMockBackend(t)
		sink := mocks.NewMockMetricsSink(t)
		provider := newTestProvider(t, backend, sink, nil)

		backend.EXPECT().
			RawGenerate(mock.Anything, "hello", domain.Options{"max_tokens": 10}).
			Return(&domain.GenerationResponse{Text: "hi there", Raw: map[string]any{"id": "1"}}, nil).
			Once()
		sink.EXPECT().IncRequests("google", "gemini").Return().Twice()
		sink.EXPECT().ObserveLatency("google", "gemini", mock.Anything).Return().Twice()

		first, err := provider.Generate(ctx, "hello", domain.Options{"max_tokens": 10})
		require.NoError(t, err)
		require.Equal(t, "hi there", first.Text)

		second, err := provider.Generate(ctx, "hello", domain.Options{"max_tokens": 10})
		require.NoError(t, err)
		require.Equal(t, first.Text, second.Text)
		require.Equal(t, first.Raw, second.Raw)

		backend.AssertNumberOfCalls(t, "RawGenerate", 1)
		sink.AssertNotCalled(t, "IncErrors", mock.Anything, mock.Anything)
	})

	t.Run("should recover within the retry budget without counting an error", func(t *testing.T) {
		backend := mocks.NewMockBackend(t)
		sink := mocks.NewMockMetricsSink(t)
		provider := newTestProvider(t, backend, sink, nil)

		transient := domain.NewTransientError("google", 503, errors.New("unavailable"))
		backend.EXPECT().RawGenerate(mock.Anything, "q", mock.Anything).Return(nil, transient).Twice()
		backend.EXPECT().RawGenerate(mock.Anything, "q", mock.Anything).
			Return(&domain.GenerationResponse{Text: "third time"}, nil).Once()
		expectCall(sink, 0)

		resp, err := provider.Generate(ctx, "q", nil)
		require.NoError(t, err)
		require.Equal(t, "third time", resp.Text)
		backend.AssertNumberOfCalls(t, "RawGenerate", 3)
		sink.AssertNotCalled(t, "IncErrors", mock.Anything, mock.Anything)
	})

	t.Run("should make exactly three attempts and count one error", func(t *testing.T) {
		backend := mocks.NewMockBackend(t)
		sink := mocks.NewMockMetricsSink(t)

		var delays []time.Duration
		policy := fastPolicy()
		policy.OnRetry = func(_ int, _ error, delay time.Duration) {
			delays = append(delays, delay)
		}
		provider := domain.NewProvider("google", "gemini", backend, domain.ProviderDeps{
			Cache:   domain.NewResponseCache(memory.NewStore(0, 0), time.Minute),
			Metrics: sink,
			Retry:   policy,
		})

		transient := domain.NewTransientError("google", 500, errors.New("boom"))
		backend.EXPECT().RawGenerate(mock.Anything, "q", mock.Anything).Return(nil, transient).Times(3)
		expectCall(sink, 1)

		resp, err := provider.Generate(ctx, "q", nil)
		require.Nil(t, resp)
		require.ErrorIs(t, err, transient)
		require.Len(t, delays, 2)
		require.LessOrEqual(t, delays[0], delays[1])
		require.LessOrEqual(t, delays[1], policy.MaxBackoff)
	})

	t.Run("should not retry or cache terminal failures", func(t *testing.T) {
		backend := mocks.NewMockBackend(t)
		sink := mocks.NewMockMetricsSink(t)
		store := memory.NewStore(0, 0)
		provider := newTestProvider(t, backend, sink, store)

		terminal := errors.New("bad request")
		backend.EXPECT().RawGenerate(mock.Anything, "q", mock.Anything).Return(nil, terminal).Once()
		expectCall(sink, 1)

		_, err := provider.Generate(ctx, "q", nil)
		require.ErrorIs(t, err, terminal)
		require.Equal(t, 0, store.Len())
	})

	t.Run("should treat a nil response as a failure", func(t *testing.T) {
		backend := mocks.NewMockBackend(t)
		sink := mocks.NewMockMetricsSink(t)
		provider := newTestProvider(t, backend, sink, nil)

		backend.EXPECT().RawGenerate(mock.Anything, "q", mock.Anything).Return(nil, nil).Once()
		expectCall(sink, 1)

		_, err := provider.Generate(ctx, "q", nil)
		require.Error(t, err)
	})

	t.Run("should return text only for corrupt cache entries", func(t *testing.T) {
		backend := mocks.NewMockBackend(t)
		sink := mocks.NewMockMetricsSink(t)
		store := memory.NewStore(0, 0)
		provider := newTestProvider(t, backend, sink, store)

		key, err := domain.CacheKey("google", "gemini", "q", nil)
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, key, "legacy plain text", time.Minute))
		expectCall(sink, 0)

		resp, err := provider.Generate(ctx, "q", nil)
		require.NoError(t, err)
		require.Equal(t, &domain.GenerationResponse{Text: "legacy plain text"}, resp)
		backend.AssertNotCalled(t, "RawGenerate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should call the backend when the cache store is down", func(t *testing.T) {
		backend := mocks.NewMockBackend(t)
		sink := mocks.NewMockMetricsSink(t)
		store := mocks.NewMockCacheStore(t)
		provider := newTestProvider(t, backend, sink, store)

		storeErr := errors.New("dial tcp: connection refused")
		store.EXPECT().Get(mock.Anything, mock.Anything).Return("", false, storeErr).Once()
		store.EXPECT().Set(mock.Anything, mock.Anything, mock.Anything, time.Minute).Return(storeErr).Once()
		backend.EXPECT().RawGenerate(mock.Anything, "q", mock.Anything).
			Return(&domain.GenerationResponse{Text: "fresh"}, nil).Once()
		expectCall(sink, 0)

		resp, err := provider.Generate(ctx, "q", nil)
		require.NoError(t, err)
		require.Equal(t, "fresh", resp.Text)
	})

	t.Run("should call the backend for each concurrent miss", func(t *testing.T) {
		backend := mocks.NewMockBackend(t)
		sink := mocks.NewMockMetricsSink(t)
		provider := newTestProvider(t, backend, sink, nil)

		var inFlight sync.WaitGroup
		inFlight.Add(2)
		var calls atomic.Int32
		backend.EXPECT().RawGenerate(mock.Anything, "same", mock.Anything).
			RunAndReturn(func(context.Context, string, domain.Options) (*domain.GenerationResponse, error) {
				calls.Add(1)
				inFlight.Done()
				inFlight.Wait()
				return &domain.GenerationResponse{Text: "answer"}, nil
			}).Twice()
		sink.EXPECT().IncRequests("google", "gemini").Return().Twice()
		sink.EXPECT().ObserveLatency("google", "gemini", mock.Anything).Return().Twice()

		var wg sync.WaitGroup
		results := make([]*domain.GenerationResponse, 2)
		errs := make([]error, 2)
		for i := range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = provider.Generate(ctx, "same", nil)
			}()
		}
		wg.Wait()

		for i := range 2 {
			require.NoError(t, errs[i])
			require.Equal(t, "answer", results[i].Text)
		}

		require.Equal(t, int32(2), calls.Load())
	})

	t.Run("should stop waiting when the caller cancels during backoff", func(t *testing.T) {
		backend := mocks.NewMockBackend(t)
		sink := mocks.NewMockMetricsSink(t)
		provider := domain.NewProvider("google", "gemini", backend, domain.ProviderDeps{
			Cache:   domain.NewResponseCache(memory.NewStore(0, 0), time.Minute),
			Metrics: sink,
			Retry: domain.RetryPolicy{
				MaxAttempts:    3,
				InitialBackoff: time.Hour,
				MaxBackoff:     time.Hour,
				Multiplier:     2,
			},
		})

		cancelCtx, cancel := context.WithCancel(ctx)
		backend.EXPECT().RawGenerate(mock.Anything, "q", mock.Anything).
			RunAndReturn(func(context.Context, string, domain.Options) (*domain.GenerationResponse, error) {
				time.AfterFunc(10*time.Millisecond, cancel)
				return nil, domain.NewTransientError("google", 502, errors.New("bad gateway"))
			}).Once()
		expectCall(sink, 1)

		_, err := provider.Generate(cancelCtx, "q", nil)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("should fill in cost from usage", func(t *testing.T) {
		backend := mocks.NewMockBackend(t)
		costs := mocks.NewMockCostCalculator(t)
		provider := domain.NewProvider("google", "gemini", backend, domain.ProviderDeps{
			Cache: domain.NewResponseCache(memory.NewStore(0, 0), time.Minute),
			Retry: fastPolicy(),
			Costs: costs,
		})

		usage := domain.Usage{PromptTokens: 1000, CompletionTokens: 500, TotalTokens: 1500}
		backend.EXPECT().RawGenerate(mock.Anything, "q", mock.Anything).
			Return(&domain.GenerationResponse{Text: "t", Usage: &usage}, nil).Once()
		costs.EXPECT().Calculate(mock.Anything, "gemini", usage).Return(0.25, nil).Once()

		resp, err := provider.Generate(ctx, "q", nil)
		require.NoError(t, err)
		require.InDelta(t, 0.25, resp.Usage.Cost, 1e-9)
	})

	t.Run("should fail before calling the backend for unsupported options", func(t *testing.T) {
		backend := mocks.NewMockBackend(t)
		sink := mocks.NewMockMetricsSink(t)
		provider := newTestProvider(t, backend, sink, nil)
		expectCall(sink, 1)

		_, err := provider.Generate(ctx, "q", domain.Options{"bad": []chan int{nil}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "cache key")
	})
}

func TestProvider_Accessors(t *testing.T) {
	provider := domain.NewProvider("ollama", "llama3", mocks.NewMockBackend(t), domain.ProviderDeps{})

	require.Equal(t, "ollama", provider.Name())
	require.Equal(t, "llama3", provider.Model())
}
