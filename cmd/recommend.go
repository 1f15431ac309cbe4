package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/filtering"
	"github.com/spigell/jobfit/internal/logger"
	"github.com/spigell/jobfit/internal/model"
	"github.com/spigell/jobfit/internal/recommend"
	"github.com/spigell/jobfit/internal/store"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank open job postings for a seeker",
	RunE:  runWith(recommendJobs),
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List open postings with the most recent applications",
	RunE:  runWith(trendingJobs),
}

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "List open postings similar to a given one",
	RunE:  runWith(similarJobs),
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Quick posting suggestions from a seeker's skill overlap",
	RunE:  runWith(suggestJobs),
}

func init() {
	rootCmd.AddCommand(recommendCmd, trendingCmd, similarCmd, suggestCmd)

	for _, c := range []*cobra.Command{recommendCmd, suggestCmd} {
		c.Flags().Int64P("seeker", "s", 0, "seeker profile id")
		c.MarkFlagRequired("seeker")
	}
	for _, c := range []*cobra.Command{recommendCmd, trendingCmd, similarCmd, suggestCmd} {
		c.Flags().Int("limit", recommend.DefaultLimit, "maximum number of results")
		c.Flags().String("category", "", "only consider postings in this category")
		c.Flags().String("type", "", "only consider postings of this employment type")
	}

	recommendCmd.Flags().Int("page", recommend.DefaultPage, "result page")
	recommendCmd.Flags().Int64Slice("exclude", nil, "posting ids to leave out")
	recommendCmd.Flags().BoolP("include-applied", "f", false, "do not exclude postings the seeker already applied to")

	similarCmd.Flags().Int64P("job", "J", 0, "reference posting id")
	similarCmd.MarkFlagRequired("job")
}

// runWith adapts a command body to cobra.
func runWith(fn func(ctx context.Context, cmd *cobra.Command, d *deps) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return run(cmd, newDeps(), fn)
	}
}

// run releases d before the error reaches cobra.
func run(cmd *cobra.Command, d *deps, fn func(ctx context.Context, cmd *cobra.Command, d *deps) error) error {
	defer d.close()
	if err := fn(cmd.Context(), cmd, d); err != nil {
		d.logger.Error(cmd.Name()+" failed", zap.Error(err))
		return err
	}
	return nil
}

func jobFilter(cmd *cobra.Command) store.JobFilter {
	category, _ := cmd.Flags().GetString("category")
	jobType, _ := cmd.Flags().GetString("type")
	return store.JobFilter{Category: category, Type: model.JobType(jobType)}
}

func recommendJobs(ctx context.Context, cmd *cobra.Command, d *deps) error {
	seekerID, _ := cmd.Flags().GetInt64("seeker")
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	exclude, _ := cmd.Flags().GetInt64Slice("exclude")
	includeApplied, _ := cmd.Flags().GetBool("include-applied")

	s, err := d.openStore(ctx)
	if err != nil {
		return err
	}
	profile, err := s.GetSeekerProfile(ctx, seekerID)
	if err != nil {
		return err
	}
	jobs, err := s.ListOpenJobs(ctx, jobFilter(cmd))
	if err != nil {
		return err
	}

	var applied []int64
	if !includeApplied {
		records, err := s.ListApplicationsBySeeker(ctx, seekerID)
		if err != nil {
			return err
		}
		applied = model.AppliedJobIDs(records)
	}

	scorer := recommend.New(d.logger)
	steps := scorer.Pipeline(applied, exclude...)
	if includeApplied {
		filtering.DisableByName(steps, filtering.NameAppliedHistory, "--include-applied is set")
	}
	if viper.GetBool("debug") {
		d.logger.Debug("eligibility filters", zap.Any("filters", filtering.Describe(steps)))
	}

	result := scorer.Rank(profile, jobs, steps)
	matches, pagination := recommend.Paginate(result.Matches, page, limit)

	d.logger.Info("recommendations ready",
		logger.Seeker(seekerID),
		zap.Int("total", result.Total),
		zap.Int("returned", len(matches)),
	)

	return printJSON(cmd.OutOrStdout(), struct {
		Matches    []model.MatchResult  `json:"matches"`
		Pagination recommend.Pagination `json:"pagination"`
	}{matches, pagination})
}

func trendingJobs(ctx context.Context, cmd *cobra.Command, d *deps) error {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := d.openStore(ctx)
	if err != nil {
		return err
	}
	jobs, err := s.ListOpenJobs(ctx, jobFilter(cmd))
	if err != nil {
		return err
	}
	counts, err := s.CountRecentApplications(ctx, time.Now().Add(-recommend.TrendingWindow))
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), recommend.New(d.logger).Trending(jobs, counts, limit))
}

func similarJobs(ctx context.Context, cmd *cobra.Command, d *deps) error {
	jobID, _ := cmd.Flags().GetInt64("job")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := d.openStore(ctx)
	if err != nil {
		return err
	}
	reference, err := s.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	jobs, err := s.ListOpenJobs(ctx, jobFilter(cmd))
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), recommend.New(d.logger).Similar(reference, jobs, limit))
}

func suggestJobs(ctx context.Context, cmd *cobra.Command, d *deps) error {
	seekerID, _ := cmd.Flags().GetInt64("seeker")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := d.openStore(ctx)
	if err != nil {
		return err
	}
	profile, err := s.GetSeekerProfile(ctx, seekerID)
	if err != nil {
		return err
	}
	jobs, err := s.ListOpenJobs(ctx, jobFilter(cmd))
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), recommend.New(d.logger).Suggest(profile, jobs, limit))
}
