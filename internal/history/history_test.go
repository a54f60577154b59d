package history

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shyim/pagespeed-api/internal/models"
)

func result(id string) *models.AnalysisResult {
	return &models.AnalysisResult{ID: id, URL: "https://example.com/" + id}
}

func ids(results []*models.AnalysisResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func TestAppendNewestFirst(t *testing.T) {
	s := New(0)
	s.Append(result("a"))
	s.Append(result("b"))
	s.Append(result("c"))

	assert.Equal(t, []string{"c", "b", "a"}, ids(s.List()))
	assert.Equal(t, 3, s.Len())
}

func TestAppendRespectsLimit(t *testing.T) {
	s := New(2)
	s.Append(result("a"))
	s.Append(result("b"))
	s.Append(result("c"))

	assert.Equal(t, []string{"c", "b"}, ids(s.List()))
}

func TestClear(t *testing.T) {
	s := New(0)
	s.Append(result("a"))
	s.Append(result("b"))

	assert.Equal(t, 2, s.Clear())
	assert.Empty(t, s.List())
	assert.Equal(t, 0, s.Clear())
}

func TestListReturnsCopy(t *testing.T) {
	s := New(0)
	s.Append(result("a"))

	list := s.List()
	list[0] = result("mutated")

	assert.Equal(t, []string{"a"}, ids(s.List()))
}

func TestGet(t *testing.T) {
	s := New(0)
	s.Append(result("a"))

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a", got.URL)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestConcurrentAppend(t *testing.T) {
	s := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Append(result(fmt.Sprint(i)))
			_ = s.List()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
