package attachment

import (
	"context"
	"fmt"
	"time"
)

type SweepReport struct {
	Scanned   int
	Orphans   []ObjectInfo
	Deletions []DeletionAttempt
}

// Sweep finds objects under the manager's prefix that no record references
// and, unless dryRun is set, deletes them. Objects younger than olderThan are
// skipped so that uploads of a record still being saved are left alone.
func (m *Manager) Sweep(ctx context.Context, lister Lister, referenced []string, olderThan time.Duration, dryRun bool) (*SweepReport, error) {
	objects, err := lister.List(ctx, m.prefix+"/")
	if err != nil {
		return nil, fmt.Errorf("failed to list objects under %s: %w", m.prefix, err)
	}

	keep := make(map[string]struct{}, len(referenced))
	for _, u := range referenced {
		keep[u] = struct{}{}
		if key, err := m.store.KeyFromURL(u); err == nil {
			keep[key] = struct{}{}
		}
	}

	cutoff := m.now().Add(-olderThan)
	report := &SweepReport{Scanned: len(objects)}
	var urls []string
	for _, obj := range objects {
		if _, ok := keep[obj.Key]; ok {
			continue
		}
		if _, ok := keep[obj.URL]; ok {
			continue
		}
		if !obj.LastModified.IsZero() && obj.LastModified.After(cutoff) {
			continue
		}
		report.Orphans = append(report.Orphans, obj)
		urls = append(urls, obj.URL)
	}

	m.logger.InfoWithContextf(ctx, "[Attachment] Sweep of %s: %d scanned, %d orphaned (dry run: %t)",
		m.prefix, report.Scanned, len(report.Orphans), dryRun)

	if !dryRun {
		report.Deletions = m.deleteBestEffort(ctx, urls)
	}
	return report, nil
}
