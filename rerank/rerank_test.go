package rerank

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recommendit/core"
)

func candidate(name, testType string, durationMinutes int) core.Candidate {
	c := core.Candidate{
		Item: core.CatalogItem{Name: name, TestType: testType},
	}
	if durationMinutes >= 0 {
		d := durationMinutes
		c.Item.DurationMinutes = &d
	}
	return c
}

func TestInferMaxDuration(t *testing.T) {
	tests := []struct {
		query   string
		minutes int
		found   bool
	}{
		{"complete the test in 40 mins", 40, true},
		{"about 1 hour long", 60, true},
		{"at most 1.5 hours", 90, true},
		{"within 90 minutes", 90, true},
		{"takes 2 Hours max", 120, true},
		{"1 hour, ideally 45 mins", 60, true}, // hours win
		{"java developer with strong sql", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := InferMaxDuration(tt.query)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.minutes, got)
			}
		})
	}
}

func TestInferDesiredDomains(t *testing.T) {
	t.Run("technical", func(t *testing.T) {
		d := InferDesiredDomains("Senior Java Developer")
		assert.True(t, d.Technical)
		assert.False(t, d.Behavioral)
		assert.False(t, d.Cognitive)
	})

	t.Run("technical and behavioral", func(t *testing.T) {
		d := InferDesiredDomains("java developer who can collaborate with business teams")
		assert.True(t, d.Technical)
		assert.True(t, d.Behavioral)
	})

	t.Run("cognitive substring match", func(t *testing.T) {
		d := InferDesiredDomains("strong REASONING needed")
		assert.True(t, d.Cognitive)
	})

	t.Run("none", func(t *testing.T) {
		d := InferDesiredDomains("graphic design portfolio review")
		assert.False(t, d.Any())
	})
}

func TestCategorizeTestType(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"K", DomainTechnical},
		{"V", DomainTechnical},
		{"P", DomainBehavioral},
		{"L", DomainBehavioral},
		{"C", DomainCognitive},
		{"N", DomainCognitive},
		{"R", DomainCognitive},
		{" k ", DomainTechnical},
		{"X", DomainOther},
		{"", DomainOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeTestType(tt.code), "code %q", tt.code)
	}
}

func TestApplyDurationFilter(t *testing.T) {
	candidates := []core.Candidate{
		candidate("short", "K", 30),
		candidate("exact", "K", 45),
		candidate("long", "K", 60),
		candidate("unknown", "K", -1),
	}

	filtered := ApplyDurationFilter(candidates, 45)
	require.Len(t, filtered, 3)
	assert.Equal(t, "short", filtered[0].Item.Name)
	assert.Equal(t, "exact", filtered[1].Item.Name)
	assert.Equal(t, "unknown", filtered[2].Item.Name, "unknown duration is kept")
}

func TestBalanceByDomains(t *testing.T) {
	t.Run("no desired domains takes top k", func(t *testing.T) {
		candidates := []core.Candidate{
			candidate("a", "K", 30),
			candidate("b", "P", 30),
			candidate("c", "C", 30),
		}
		out := BalanceByDomains(candidates, DesiredDomains{}, 2)
		require.Len(t, out, 2)
		assert.Equal(t, "a", out[0].Item.Name)
		assert.Equal(t, "b", out[1].Item.Name)
	})

	t.Run("two domains split k evenly", func(t *testing.T) {
		var candidates []core.Candidate
		for i := 0; i < 8; i++ {
			candidates = append(candidates, candidate(fmt.Sprintf("tech-%d", i), "K", 30))
		}
		for i := 0; i < 8; i++ {
			candidates = append(candidates, candidate(fmt.Sprintf("behav-%d", i), "P", 30))
		}

		out := BalanceByDomains(candidates, DesiredDomains{Technical: true, Behavioral: true}, 10)
		require.Len(t, out, 10)

		tech, behav := 0, 0
		for _, c := range out {
			switch CategorizeTestType(c.Item.TestType) {
			case DomainTechnical:
				tech++
			case DomainBehavioral:
				behav++
			}
		}
		assert.Equal(t, 5, tech)
		assert.Equal(t, 5, behav)
	})

	t.Run("sparse domain flows back to remainder", func(t *testing.T) {
		candidates := []core.Candidate{
			candidate("tech-0", "K", 30),
			candidate("tech-1", "K", 30),
			candidate("tech-2", "K", 30),
			candidate("behav-0", "P", 30),
		}

		out := BalanceByDomains(candidates, DesiredDomains{Technical: true, Behavioral: true}, 4)
		require.Len(t, out, 4)
		// Reserved: tech-0, tech-1 then behav-0; remainder fills tech-2.
		assert.Equal(t, "tech-0", out[0].Item.Name)
		assert.Equal(t, "tech-1", out[1].Item.Name)
		assert.Equal(t, "behav-0", out[2].Item.Name)
		assert.Equal(t, "tech-2", out[3].Item.Name)
	})

	t.Run("no duplicates", func(t *testing.T) {
		candidates := []core.Candidate{
			candidate("a", "K", 30),
			candidate("b", "P", 30),
		}
		out := BalanceByDomains(candidates, DesiredDomains{Technical: true, Behavioral: true, Cognitive: true}, 5)
		require.Len(t, out, 2)
		assert.NotEqual(t, out[0].Item.Name, out[1].Item.Name)
	})
}

func TestRerank(t *testing.T) {
	newReranker := func(t *testing.T) *Reranker {
		t.Helper()
		r, err := New()
		require.NoError(t, err)
		return r
	}

	t.Run("applies duration then balance", func(t *testing.T) {
		candidates := []core.Candidate{
			candidate("long-tech", "K", 120),
			candidate("short-tech", "K", 30),
			candidate("short-behav", "P", 20),
			candidate("unknown-cog", "C", -1),
		}

		out := newReranker(t).Rerank("java developer team player, 45 mins max", candidates, 3)
		require.Len(t, out, 3)
		for _, c := range out {
			assert.NotEqual(t, "long-tech", c.Item.Name, "over-duration candidate must be filtered")
		}
	})

	t.Run("never exceeds k", func(t *testing.T) {
		var candidates []core.Candidate
		for i := 0; i < 20; i++ {
			candidates = append(candidates, candidate(fmt.Sprintf("c-%d", i), "K", 30))
		}
		out := newReranker(t).Rerank("java", candidates, 7)
		assert.Len(t, out, 7)
	})

	t.Run("non-positive k", func(t *testing.T) {
		out := newReranker(t).Rerank("java", []core.Candidate{candidate("a", "K", 30)}, 0)
		assert.Empty(t, out)
	})

	t.Run("logs the duration stage even without a constraint", func(t *testing.T) {
		var buf bytes.Buffer
		r, err := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
		require.NoError(t, err)

		r.Rerank("java developer", []core.Candidate{candidate("a", "K", 30)}, 3)

		logs := buf.String()
		assert.Contains(t, logs, "duration constraint")
		assert.Contains(t, logs, "present=false")
		assert.Contains(t, logs, "after duration filter")
	})

	t.Run("deterministic", func(t *testing.T) {
		candidates := []core.Candidate{
			candidate("a", "K", 30),
			candidate("b", "P", 20),
			candidate("c", "C", 10),
		}
		r := newReranker(t)
		first := r.Rerank("java team reasoning", candidates, 3)
		second := r.Rerank("java team reasoning", candidates, 3)
		assert.Equal(t, first, second)
	})
}
