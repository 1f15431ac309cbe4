package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/ats"
	"github.com/spigell/jobfit/internal/keywords"
	"github.com/spigell/jobfit/internal/model"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Extract ATS keywords from a job posting",
	RunE:  runWith(extractKeywords),
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a seeker profile against an applicant tracking system",
	RunE:  runWith(scoreProfile),
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume file (local path or s3://bucket/key)",
	RunE:  runWith(analyzeResume),
}

func init() {
	rootCmd.AddCommand(keywordsCmd, scoreCmd, analyzeCmd)

	keywordsCmd.Flags().Int64P("job", "J", 0, "posting id")
	keywordsCmd.MarkFlagRequired("job")

	scoreCmd.Flags().Int64P("seeker", "s", 0, "seeker profile id")
	scoreCmd.Flags().Int64P("job", "J", 0, "target posting id")
	scoreCmd.Flags().String("summary", "", "summary text, defaults to the profile bio")
	scoreCmd.Flags().Bool("has-experience", false, "the resume has an experience section")
	scoreCmd.Flags().Bool("has-education", false, "the resume has an education section")
	scoreCmd.MarkFlagRequired("seeker")

	analyzeCmd.Flags().String("file", "", "resume location: a path or s3://bucket/key")
	analyzeCmd.Flags().Int64P("job", "J", 0, "posting id to check keyword coverage against")
	analyzeCmd.MarkFlagRequired("file")
}

func extractKeywords(ctx context.Context, cmd *cobra.Command, d *deps) error {
	jobID, _ := cmd.Flags().GetInt64("job")

	s, err := d.openStore(ctx)
	if err != nil {
		return err
	}
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	set := d.extractor(ctx).Extract(ctx, keywords.FromPosting(job))
	d.logger.Info("keywords extracted", zap.String("source", string(set.Source)), zap.Int("technical", len(set.Technical)))
	return printJSON(cmd.OutOrStdout(), set)
}

func scoreProfile(ctx context.Context, cmd *cobra.Command, d *deps) error {
	seekerID, _ := cmd.Flags().GetInt64("seeker")
	jobID, _ := cmd.Flags().GetInt64("job")
	summary, _ := cmd.Flags().GetString("summary")
	hasExperience, _ := cmd.Flags().GetBool("has-experience")
	hasEducation, _ := cmd.Flags().GetBool("has-education")

	s, err := d.openStore(ctx)
	if err != nil {
		return err
	}
	profile, err := s.GetSeekerProfile(ctx, seekerID)
	if err != nil {
		return err
	}
	if summary == "" {
		summary = profile.Bio
	}

	in := ats.Input{
		Skills:        profile.Skills,
		Summary:       summary,
		HasExperience: hasExperience,
		HasEducation:  hasEducation,
	}
	if jobID > 0 {
		job, err := s.GetJob(ctx, jobID)
		if err != nil {
			return err
		}
		set := d.extractor(ctx).Extract(ctx, keywords.FromPosting(job))
		in.JobSkills = job.Skills
		in.Keywords = &set
	}

	return printJSON(cmd.OutOrStdout(), ats.ScoreResume(in))
}

func analyzeResume(ctx context.Context, cmd *cobra.Command, d *deps) error {
	location, _ := cmd.Flags().GetString("file")
	jobID, _ := cmd.Flags().GetInt64("job")

	loader, err := d.resumeLoader(ctx)
	if err != nil {
		return err
	}
	text, err := loader.Load(ctx, location)
	if err != nil {
		return err
	}
	if text == "" {
		return errors.New("resume contains no text")
	}

	var set *model.KeywordSet
	if jobID > 0 {
		s, err := d.openStore(ctx)
		if err != nil {
			return err
		}
		job, err := s.GetJob(ctx, jobID)
		if err != nil {
			return err
		}
		extracted := d.extractor(ctx).Extract(ctx, keywords.FromPosting(job))
		set = &extracted
	}

	return printJSON(cmd.OutOrStdout(), ats.AnalyzeText(text, set))
}
