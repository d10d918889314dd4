package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tnqbao/gau-showcase-admin/attachment"
	"github.com/tnqbao/gau-showcase-admin/config"
	"github.com/tnqbao/gau-showcase-admin/entity"
	"github.com/tnqbao/gau-showcase-admin/infra"
	"github.com/tnqbao/gau-showcase-admin/repository"
)

// sweepTarget is one entity whose storage prefix can be swept.
type sweepTarget struct {
	prefix     string
	referenced func(ctx context.Context) ([]string, error)
}

func sweepTargets(repo *repository.Repository) map[string]sweepTarget {
	return map[string]sweepTarget{
		"aiTools":      {prefix: "aiTools", referenced: referencedBy[entity.AiTool](repo.AiToolRepo)},
		"competitions": {prefix: "competitions", referenced: referencedBy[entity.Competition](repo.CompetitionRepo)},
		"offices":      {prefix: "offices", referenced: referencedBy[entity.Office](repo.OfficeRepo)},
		"projects":     {prefix: "projects", referenced: referencedBy[entity.Project](repo.ProjectRepo)},
	}
}

type record[T any] interface {
	*T
	entity.Record
}

// referencedBy lists every object URL the stored records of one entity
// point at.
func referencedBy[T any, P record[T]](store repository.DocumentStore[T]) func(ctx context.Context) ([]string, error) {
	return func(ctx context.Context) ([]string, error) {
		docs, err := store.List(ctx)
		if err != nil {
			return nil, err
		}

		var urls []string
		for i := range docs {
			rec := P(&docs[i])
			media := rec.GetMedia()
			if media.ThumbnailURL != "" {
				urls = append(urls, media.ThumbnailURL)
			}
			urls = append(urls, media.Gallery...)

			if holder, ok := any(rec).(entity.BlockHolder); ok {
				for _, b := range holder.GetContentBlocks() {
					if b.Type == string(attachment.BlockImage) && b.Content != "" {
						urls = append(urls, b.Content)
					}
				}
			}
		}
		return urls, nil
	}
}

func newSweepCmd(cfg *config.Config) *cobra.Command {
	var (
		entityName string
		olderThan  time.Duration
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete stored images no record references",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be > 0")
			}

			deps := infra.InitInfra(cfg)
			defer deps.Close(context.WithoutCancel(cmd.Context()))
			repo := repository.InitRepository(deps)

			return runSweep(cmd.Context(), cmd.OutOrStdout(), deps.Storage, deps.Logger, sweepTargets(repo), entityName, olderThan, dryRun)
		},
	}

	cmd.Flags().StringVar(&entityName, "entity", "all", "entity to sweep: aiTools, competitions, offices, projects or all")
	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "only delete objects last modified before this age")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list orphans without deleting them")
	return cmd
}

func runSweep(ctx context.Context, out io.Writer, storage infra.ObjectStorage, logger attachment.Logger,
	targets map[string]sweepTarget, entityName string, olderThan time.Duration, dryRun bool) error {
	var names []string
	if entityName == "all" {
		for name := range targets {
			names = append(names, name)
		}
		sort.Strings(names)
	} else {
		if _, ok := targets[entityName]; !ok {
			return fmt.Errorf("unknown entity %q, expected all or one of: %s", entityName, entityNames(targets))
		}
		names = []string{entityName}
	}

	for _, name := range names {
		target := targets[name]

		referenced, err := target.referenced(ctx)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}

		manager := attachment.NewManager(storage, target.prefix, attachment.WithLogger(logger))
		report, err := manager.Sweep(ctx, storage, referenced, olderThan, dryRun)
		if err != nil {
			return err
		}

		verb := "deleted"
		if dryRun {
			verb = "would delete"
		}
		failed := 0
		for _, d := range report.Deletions {
			if d.Err != nil {
				failed++
			}
		}
		fmt.Fprintf(out, "%s: scanned %d, %s %d orphans", name, report.Scanned, verb, len(report.Orphans))
		if failed > 0 {
			fmt.Fprintf(out, " (%d failed)", failed)
		}
		fmt.Fprintln(out)
		for _, obj := range report.Orphans {
			fmt.Fprintf(out, "  %s\t%d\t%s\n", obj.Key, obj.Size, obj.LastModified.Format(time.RFC3339))
		}
	}
	return nil
}

func entityNames(targets map[string]sweepTarget) string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
