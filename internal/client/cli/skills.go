package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/skillswap/internal/client/models"
)

// Skills lists the catalog. Accepts "category=<c>" and "level=<l>" filters.
func (a *App) Skills(ctx context.Context, args []string) error {
	var f models.SkillFilter
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return usage("skills [category=<name>] [level=Beginner|Intermediate|Expert]")
		}
		switch k {
		case "category":
			f.Category = v
		case "level":
			f.ExperienceLevel = models.ExperienceLevel(v)
		default:
			return usage("unknown filter %q", k)
		}
	}

	skills, err := a.catalog.ListSkills(ctx, f)
	if err != nil {
		return err
	}
	printSkills(a.out, skills)
	return nil
}

// Search runs a text search. An empty query is refused here rather than
// sent to the server.
func (a *App) Search(ctx context.Context, args []string) error {
	q := strings.TrimSpace(strings.Join(args, " "))
	if q == "" {
		return usage("search <text>")
	}
	skills, err := a.catalog.SearchSkills(ctx, q)
	if err != nil {
		return err
	}
	printSkills(a.out, skills)
	return nil
}

// ShowSkill prints one skill.
func (a *App) ShowSkill(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("skill <id>")
	}
	s, err := a.catalog.GetSkill(ctx, args[0])
	if err != nil {
		return err
	}
	printSkill(a.out, s)
	if s.OwnerUserID != "" && s.OwnerUserID != a.session.UserID() {
		a.printf("\nType 'request %s <message>' to ask for an exchange.\n", s.ID)
	}
	return nil
}

// currentUserID returns the signed-in user's id, fetching the profile when
// only a restored token is known.
func (a *App) currentUserID(ctx context.Context) (string, error) {
	if id := a.session.UserID(); id != "" {
		return id, nil
	}
	u, err := a.session.FetchProfile(ctx)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// MySkills lists the skills the current user offers.
func (a *App) MySkills(ctx context.Context) error {
	uid, err := a.currentUserID(ctx)
	if err != nil {
		return err
	}
	skills, err := a.catalog.ListUserSkills(ctx, uid)
	if err != nil {
		return err
	}
	printSkills(a.out, skills)
	return nil
}

// OfferSkill walks the user through the offer form, validates it locally and
// publishes the skill.
func (a *App) OfferSkill(ctx context.Context) error {
	var in models.SkillInput
	var err error

	if in.Category, err = getSimpleText(a.reader, "Category", a.out); err != nil {
		return err
	}
	if in.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if in.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}
	levels := make([]string, len(models.ExperienceLevels))
	for i, l := range models.ExperienceLevels {
		levels[i] = string(l)
	}
	level, err := GetChoice(a.reader, "Experience level", levels, a.out)
	if err != nil {
		return err
	}
	in.ExperienceLevel = models.ExperienceLevel(level)
	if in.Availability.Days, err = GetList(a.reader, "Available days", a.out); err != nil {
		return err
	}
	if in.Availability.TimeSlots, err = GetList(a.reader, "Time slots, e.g. 18:00-20:00", a.out); err != nil {
		return err
	}

	if err := in.Validate(); err != nil {
		return err
	}

	s, err := a.catalog.CreateSkill(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Skill offered: %s [%s]\n", s.Title, s.ID)
	return nil
}

// EditSkill prompts for a new title and description. Empty answers keep the
// current value.
func (a *App) EditSkill(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("editskill <id>")
	}
	cur, err := a.catalog.GetSkill(ctx, args[0])
	if err != nil {
		return err
	}

	var patch models.SkillPatch
	title, err := getSimpleText(a.reader, "Title ["+cur.Title+"]", a.out)
	if err != nil {
		return err
	}
	if title != "" {
		patch.Title = &title
	}
	desc, err := getSimpleText(a.reader, "Description (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	if desc != "" {
		patch.Description = &desc
	}
	if patch.Title == nil && patch.Description == nil {
		a.println("Nothing to change")
		return nil
	}

	s, err := a.catalog.UpdateSkill(ctx, cur.ID, patch)
	if err != nil {
		return err
	}
	a.printf("Skill updated: %s\n", s.Title)
	return nil
}

// DeleteSkill removes a skill after confirmation.
func (a *App) DeleteSkill(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delskill <id>")
	}
	ok, err := Confirm(a.reader, "Delete skill "+args[0]+"?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cancelled")
		return nil
	}
	if err := a.catalog.DeleteSkill(ctx, args[0]); err != nil {
		return err
	}
	a.println("Skill deleted")
	return nil
}
