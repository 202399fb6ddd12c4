package jobs

import (
	"context"
	"fmt"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/metrics"
)

// sampleSize 报告中保留的孤立对象示例数.
const sampleSize = 20

// Lister 按前缀遍历对象键.
type Lister interface {
	Walk(ctx context.Context, prefix string, fn func(key string) error) error
}

// RefSource 返回被记录引用的公开地址.
type RefSource func(ctx context.Context) ([]string, error)

// Report 一次审计的结果.
type Report struct {
	Scanned    int      `json:"scanned"`
	Referenced int      `json:"referenced"`
	Orphans    int      `json:"orphans"`
	Sample     []string `json:"sample,omitempty"`
}

// Auditor 找出已写入存储但没有任何记录引用的对象，只记录，不删除.
type Auditor struct {
	objects Lister
	prefix  string
	urlOf   func(key string) (string, error)
	refs    []RefSource
}

// NewAuditor 创建审计器，urlOf 把对象键映射为公开地址.
func NewAuditor(objects Lister, prefix string, urlOf func(key string) (string, error), refs ...RefSource) *Auditor {
	return &Auditor{objects: objects, prefix: prefix, urlOf: urlOf, refs: refs}
}

// Run 执行一次审计并更新孤立对象指标.
func (a *Auditor) Run(ctx context.Context) (Report, error) {
	l := log.Component("orphan-audit")

	referenced := make(map[string]struct{})

	for _, src := range a.refs {
		urls, err := src(ctx)
		if err != nil {
			return Report{}, fmt.Errorf("load references: %w", err)
		}

		for _, u := range urls {
			referenced[u] = struct{}{}
		}
	}

	var rep Report

	err := a.objects.Walk(ctx, a.prefix, func(key string) error {
		rep.Scanned++

		u, err := a.urlOf(key)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", key, err)
		}

		if _, ok := referenced[u]; ok {
			rep.Referenced++
			return nil
		}

		rep.Orphans++
		if len(rep.Sample) < sampleSize {
			rep.Sample = append(rep.Sample, key)
		}

		return nil
	})
	if err != nil {
		return rep, fmt.Errorf("walk objects: %w", err)
	}

	metrics.OrphanObjects.Set(float64(rep.Orphans))

	l.Info().
		Int("scanned", rep.Scanned).
		Int("referenced", rep.Referenced).
		Int("orphans", rep.Orphans).
		Strs("sample", rep.Sample).
		Msg("orphan audit finished")

	return rep, nil
}
