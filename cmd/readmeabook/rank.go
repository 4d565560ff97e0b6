package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/readmeabook/readmeabook/internal/decisioning"
	"github.com/readmeabook/readmeabook/internal/indexer/search"
	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

type rankFlags struct {
	files       []string
	title       string
	author      string
	duration    int
	interactive bool
	ebook       bool
	selectBest  bool
	jsonOutput  bool
}

func newRankCommand(ctx *commandContext) *cobra.Command {
	var flags rankFlags

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank saved indexer results for a book",
		Long: `Rank candidates from one or more saved indexer result files.

Each file holds one indexer's results as JSON or YAML:

  indexerId: 1
  indexerName: MyAnonamouse
  candidates:
    - guid: abc
      title: Andy Weir - Project Hail Mary [M4B]
      size: 943718400
      seeders: 40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, ctx, flags)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.files, "file", "f", nil, "Indexer results file (repeatable)")
	cmd.Flags().StringVarP(&flags.title, "title", "t", "", "Requested book title")
	cmd.Flags().StringVarP(&flags.author, "author", "a", "", "Requested book author")
	cmd.Flags().IntVar(&flags.duration, "duration", 0, "Expected runtime in minutes (0 if unknown)")
	cmd.Flags().BoolVar(&flags.interactive, "interactive", false, "Rank for a human pick; the author is not required")
	cmd.Flags().BoolVar(&flags.ebook, "ebook", false, "Rank ebook results")
	cmd.Flags().BoolVar(&flags.selectBest, "select", false, "Also pick the release an automatic search would grab")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runRank(cmd *cobra.Command, ctx *commandContext, flags rankFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	log, err := ctx.newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer log.Close()

	if flags.selectBest && flags.interactive {
		return errors.New("--select always ranks as an automatic search and cannot be combined with --interactive")
	}

	results := make([]types.IndexerResult, 0, len(flags.files))
	for _, path := range flags.files {
		result, err := loadIndexerFile(path)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	target := types.Target{Title: flags.title, Author: flags.author}
	if flags.duration > 0 {
		target.DurationMinutes = &flags.duration
	}

	mode := decisioning.SearchModeAutomatic
	if flags.interactive {
		mode = decisioning.SearchModeInteractive
	}

	req := search.RankRequest{
		Item: decisioning.SearchableItem{
			Target: target,
			Ebook:  flags.ebook,
			Mode:   mode,
		},
		Results: results,
	}

	service := search.NewService(cfg.Ranking.Policy(), log.Logger)

	var ranked *search.RankResult
	var selected *types.RankedResult
	if flags.selectBest {
		sel, err := service.Select(cmd.Context(), req)
		if err != nil {
			return err
		}
		ranked, selected = sel.RankResult, sel.Selected
		if flags.jsonOutput {
			return writeJSON(cmd, sel)
		}
	} else {
		ranked, err = service.Rank(cmd.Context(), req)
		if err != nil {
			return err
		}
		if flags.jsonOutput {
			return writeJSON(cmd, ranked)
		}
	}

	out := cmd.OutOrStdout()
	if len(ranked.Results) == 0 {
		fmt.Fprintf(out, "No candidates ranked (%d found, %d unique)\n", ranked.TotalRaw, ranked.TotalUnique)
	} else {
		fmt.Fprintln(out, renderRankTable(ranked.Results))
		fmt.Fprintf(out, "%d ranked of %d unique candidates from %d indexers\n",
			ranked.TotalRanked, ranked.TotalUnique, ranked.IndexersUsed)
	}
	for _, indexerErr := range ranked.IndexerErrors {
		fmt.Fprintf(out, "Indexer %s failed: %s\n", indexerErr.IndexerName, indexerErr.Error)
	}

	if flags.selectBest {
		if selected == nil {
			fmt.Fprintln(out, "Selected: none (no candidate is acceptable for an automatic grab)")
		} else {
			fmt.Fprintf(out, "Selected: #%d %s (%s)\n", selected.Rank, selected.Candidate.Title, formatScore(selected.FinalScore))
		}
	}
	return nil
}

func renderRankTable(results []types.RankedResult) string {
	headers := []string{"#", "Final", "Score", "Bonus", "Title", "Indexer", "Size", "Seeders", "Age", "Notes"}
	aligns := []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		c := r.Candidate
		seeders := "-"
		if c.Seeders != nil {
			seeders = strconv.Itoa(*c.Seeders)
		}
		age := "-"
		if !c.PublishDate.IsZero() {
			age = humanize.Time(c.PublishDate)
		}
		size := "-"
		if c.Size > 0 {
			size = humanize.IBytes(uint64(c.Size))
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Rank),
			formatScore(r.FinalScore),
			formatScore(r.Score),
			formatBonus(r.BonusPoints),
			c.Title,
			c.IndexerName,
			size,
			seeders,
			age,
			strings.Join(r.Breakdown.Notes, "; "),
		})
	}
	return renderTable(headers, rows, aligns)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatBonus(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%+.1f", v)
}
