package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/model"
	"github.com/spigell/jobfit/internal/optimizer"
	"github.com/spigell/jobfit/internal/recommend"
	"github.com/spigell/jobfit/internal/store"
)

const PromptNoTarget = "No target posting"

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Build an ATS optimized resume for a seeker",
	RunE:  runWith(optimizeResume),
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Suggest skills and action verbs for a role",
	RunE:  runWith(suggestSkills),
}

var bulletCmd = &cobra.Command{
	Use:   "bullet [text]",
	Short: "Rewrite an experience bullet for a role",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWith(rewriteBullet),
}

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter",
	Short: "Write a cover letter for a seeker and a posting",
	RunE:  runWith(writeCoverLetter),
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Rewrite a seeker's professional summary",
	RunE:  runWith(rewriteSummary),
}

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "Suggest bullets, summaries, skills and verbs for a role",
	RunE:  runWith(suggestContent),
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List resume templates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printJSON(cmd.OutOrStdout(), optimizer.Templates())
	},
}

func init() {
	rootCmd.AddCommand(optimizeCmd, skillsCmd, bulletCmd, coverLetterCmd, summaryCmd, suggestionsCmd, templatesCmd)

	for _, c := range []*cobra.Command{optimizeCmd, skillsCmd, coverLetterCmd, summaryCmd} {
		c.Flags().Int64P("seeker", "s", 0, "seeker profile id")
		c.MarkFlagRequired("seeker")
	}
	for _, c := range []*cobra.Command{optimizeCmd, coverLetterCmd, summaryCmd} {
		c.Flags().Int64P("job", "J", 0, "target posting id")
	}
	for _, c := range []*cobra.Command{optimizeCmd, coverLetterCmd} {
		c.Flags().String("template", optimizer.DefaultTemplate, "resume template id")
		c.Flags().String("sections", "", "JSON file with experience and education sections")
	}
	coverLetterCmd.MarkFlagRequired("job")

	optimizeCmd.Flags().String("title", "", "target title when no posting is given")
	optimizeCmd.Flags().BoolP("interactive", "i", false, "pick the target posting and template interactively")

	skillsCmd.Flags().String("title", "", "role title")
	skillsCmd.Flags().String("industry", "", "industry, used for action verbs")
	skillsCmd.MarkFlagRequired("title")

	bulletCmd.Flags().String("title", "", "role title")

	summaryCmd.Flags().String("title", "", "target title when no posting is given")
	summaryCmd.Flags().String("text", "", "summary to rewrite, defaults to the profile bio")

	suggestionsCmd.Flags().Int64P("seeker", "s", 0, "seeker profile id, fills skills and experience")
	suggestionsCmd.Flags().String("title", "", "role title")
	suggestionsCmd.Flags().String("industry", "", "industry")
	suggestionsCmd.Flags().Int("years", 0, "years of experience")
	suggestionsCmd.Flags().StringSlice("skills", nil, "skills to build suggestions around")
}

func optimizeResume(ctx context.Context, cmd *cobra.Command, d *deps) error {
	req, err := buildRequest(ctx, cmd, d)
	if err != nil {
		return err
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if err := pickInteractively(ctx, d, &req); err != nil {
			return err
		}
	}

	resume, err := d.builder(ctx).Build(ctx, req)
	if err != nil {
		return err
	}

	d.logger.Info("resume optimized",
		zap.Int("ats_score", resume.ATSScore),
		zap.String("template", resume.Template),
		zap.Strings("notes", resume.Notes),
	)
	return printJSON(cmd.OutOrStdout(), resume)
}

func buildRequest(ctx context.Context, cmd *cobra.Command, d *deps) (optimizer.Request, error) {
	seekerID, _ := cmd.Flags().GetInt64("seeker")
	jobID, _ := cmd.Flags().GetInt64("job")
	templateID, _ := cmd.Flags().GetString("template")
	sectionsFile, _ := cmd.Flags().GetString("sections")

	s, err := d.openStore(ctx)
	if err != nil {
		return optimizer.Request{}, err
	}
	profile, err := s.GetSeekerProfile(ctx, seekerID)
	if err != nil {
		return optimizer.Request{}, err
	}

	req := optimizer.Request{Profile: profile, TemplateID: templateID}
	if title := cmd.Flags().Lookup("title"); title != nil {
		req.TargetTitle = title.Value.String()
	}
	if jobID > 0 {
		if req.Job, err = s.GetJob(ctx, jobID); err != nil {
			return optimizer.Request{}, err
		}
	}
	if sectionsFile != "" {
		if req.Sections, err = readSections(sectionsFile); err != nil {
			return optimizer.Request{}, err
		}
	}
	return req, nil
}

func readSections(path string) (optimizer.Sections, error) {
	var sections optimizer.Sections
	data, err := os.ReadFile(path)
	if err != nil {
		return sections, fmt.Errorf("read sections: %w", err)
	}
	if err := json.Unmarshal(data, &sections); err != nil {
		return sections, fmt.Errorf("parse sections %s: %w", path, err)
	}
	return sections, nil
}

// pickInteractively lets the seeker choose among their top recommendations
// and the available templates.
func pickInteractively(ctx context.Context, d *deps, req *optimizer.Request) error {
	s, err := d.openStore(ctx)
	if err != nil {
		return err
	}
	jobs, err := s.ListOpenJobs(ctx, store.JobFilter{})
	if err != nil {
		return err
	}
	records, err := s.ListApplicationsBySeeker(ctx, req.Profile.ID)
	if err != nil {
		return err
	}

	ranked := recommend.New(d.logger).Recommend(req.Profile, jobs, model.AppliedJobIDs(records))
	top, _ := recommend.Paginate(ranked.Matches, 1, 15)

	items := []string{PromptNoTarget}
	for _, m := range top {
		items = append(items, fmt.Sprintf("%d %s / %s / %.0f", m.Job.ID, m.Job.Title, m.Job.CompanyName(), m.Score))
	}

	jobPrompt := promptui.Select{
		Label: "Choose a target posting and press ENTER",
		Items: items,
		Size:  10,
	}
	idx, _, err := jobPrompt.Run()
	if err != nil {
		return err
	}
	if idx > 0 {
		job := top[idx-1].Job
		req.Job = &job
	}

	templates := optimizer.Templates()
	labels := make([]string, 0, len(templates))
	for _, t := range templates {
		labels = append(labels, fmt.Sprintf("%s (ATS %d) %s", t.Name, t.ATSScore, t.Description))
	}
	templatePrompt := promptui.Select{Label: "Choose a template", Items: labels}
	idx, _, err = templatePrompt.Run()
	if err != nil {
		return err
	}
	req.TemplateID = templates[idx].ID
	return nil
}

func suggestSkills(ctx context.Context, cmd *cobra.Command, d *deps) error {
	seekerID, _ := cmd.Flags().GetInt64("seeker")
	title, _ := cmd.Flags().GetString("title")
	industry, _ := cmd.Flags().GetString("industry")

	s, err := d.openStore(ctx)
	if err != nil {
		return err
	}
	profile, err := s.GetSeekerProfile(ctx, seekerID)
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), struct {
		Suggested   []string `json:"suggested"`
		ActionVerbs []string `json:"action_verbs"`
	}{
		Suggested:   d.builder(ctx).SuggestSkills(ctx, profile.Skills, title, industry),
		ActionVerbs: optimizer.ActionVerbs(industry, title),
	})
}

func rewriteSummary(ctx context.Context, cmd *cobra.Command, d *deps) error {
	seekerID, _ := cmd.Flags().GetInt64("seeker")
	jobID, _ := cmd.Flags().GetInt64("job")
	title, _ := cmd.Flags().GetString("title")
	text, _ := cmd.Flags().GetString("text")

	s, err := d.openStore(ctx)
	if err != nil {
		return err
	}
	profile, err := s.GetSeekerProfile(ctx, seekerID)
	if err != nil {
		return err
	}
	if text == "" {
		text = profile.Bio
	}

	req := optimizer.SummaryRequest{
		Current:  text,
		JobTitle: title,
		Skills:   profile.Skills,
		Years:    profile.ExperienceYears,
	}
	if jobID > 0 {
		if req.Job, err = s.GetJob(ctx, jobID); err != nil {
			return err
		}
	}

	result, err := d.builder(ctx).OptimizeSummary(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func suggestContent(ctx context.Context, cmd *cobra.Command, d *deps) error {
	seekerID, _ := cmd.Flags().GetInt64("seeker")
	title, _ := cmd.Flags().GetString("title")
	industry, _ := cmd.Flags().GetString("industry")
	years, _ := cmd.Flags().GetInt("years")
	skills, _ := cmd.Flags().GetStringSlice("skills")

	req := optimizer.ContentRequest{JobTitle: title, Years: years, Skills: skills, Industry: industry}
	if seekerID > 0 {
		s, err := d.openStore(ctx)
		if err != nil {
			return err
		}
		profile, err := s.GetSeekerProfile(ctx, seekerID)
		if err != nil {
			return err
		}
		if len(req.Skills) == 0 {
			req.Skills = profile.Skills
		}
		if req.Years == 0 {
			req.Years = profile.ExperienceYears
		}
	}

	return printJSON(cmd.OutOrStdout(), d.builder(ctx).ContentSuggestions(ctx, req))
}

func rewriteBullet(ctx context.Context, cmd *cobra.Command, d *deps) error {
	title, _ := cmd.Flags().GetString("title")
	bullet := strings.Join(cmd.Flags().Args(), " ")

	return printJSON(cmd.OutOrStdout(), map[string]string{
		"bullet": d.builder(ctx).OptimizeBullet(ctx, bullet, title),
	})
}

func writeCoverLetter(ctx context.Context, cmd *cobra.Command, d *deps) error {
	req, err := buildRequest(ctx, cmd, d)
	if err != nil {
		return err
	}
	if req.Job == nil {
		return errors.New("a target posting is required")
	}

	b := d.builder(ctx)
	resume, err := b.Build(ctx, req)
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), map[string]any{
		"target_job":   resume.TargetJob,
		"cover_letter": b.CoverLetter(ctx, resume, req.Job.Title, req.Job.CompanyName()),
	})
}
