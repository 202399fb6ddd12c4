package jobs_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/jobs"
)

type staticLister struct {
	keys []string
	err  error
}

func (s staticLister) Walk(_ context.Context, prefix string, fn func(key string) error) error {
	if s.err != nil {
		return s.err
	}

	for _, k := range s.keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}

		if err := fn(k); err != nil {
			return err
		}
	}

	return nil
}

func urlOf(key string) (string, error) { return "https://cdn.example.com/site/" + key, nil }

func refs(urls ...string) jobs.RefSource {
	return func(context.Context) ([]string, error) { return urls, nil }
}

// TestAuditor_Run 只统计前缀下未被引用的对象.
func TestAuditor_Run(t *testing.T) {
	lister := staticLister{keys: []string{"uploads/a.png", "uploads/b.pdf", "uploads/c.png", "other/d.png"}}

	a := jobs.NewAuditor(lister, "uploads/", urlOf,
		refs("https://cdn.example.com/site/uploads/a.png"),
		refs("https://cdn.example.com/site/uploads/b.pdf", "https://elsewhere/x.pdf"),
	)

	rep, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Scanned)
	assert.Equal(t, 2, rep.Referenced)
	assert.Equal(t, 1, rep.Orphans)
	assert.Equal(t, []string{"uploads/c.png"}, rep.Sample)
}

func TestAuditor_Errors(t *testing.T) {
	boom := errors.New("boom")

	failingRefs := func(context.Context) ([]string, error) { return nil, boom }
	_, err := jobs.NewAuditor(staticLister{}, "", urlOf, failingRefs).Run(context.Background())
	require.ErrorIs(t, err, boom)

	_, err = jobs.NewAuditor(staticLister{err: boom}, "", urlOf).Run(context.Background())
	require.ErrorIs(t, err, boom)
}
