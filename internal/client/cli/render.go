package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/skillswap/internal/client/lifecycle"
	"github.com/dmitrijs2005/skillswap/internal/client/models"
)

func printUser(w io.Writer, u models.User) {
	fmt.Fprintf(w, "Name:  %s\nEmail: %s\n", u.Name, u.Email)
	if u.Phone != "" {
		fmt.Fprintf(w, "Phone: %s\n", u.Phone)
	}
	if u.Bio != "" {
		fmt.Fprintf(w, "Bio:   %s\n", u.Bio)
	}
}

func ownerName(s models.Skill) string {
	if s.Owner != nil {
		return s.Owner.DisplayName()
	}
	if s.OwnerUserID != "" {
		return s.OwnerUserID
	}
	return "Anonymous"
}

func printSkills(w io.Writer, skills []models.Skill) {
	if len(skills) == 0 {
		fmt.Fprintln(w, "No skills found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tLEVEL\tOFFERED BY")
	for _, s := range skills {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Title, s.Category, s.ExperienceLevel, ownerName(s))
	}
	tw.Flush()
}

func printSkill(w io.Writer, s models.Skill) {
	fmt.Fprintf(w, "%s [%s]\n", s.Title, s.ID)
	fmt.Fprintf(w, "Category:    %s\n", s.Category)
	fmt.Fprintf(w, "Level:       %s\n", s.ExperienceLevel)
	fmt.Fprintf(w, "Offered by:  %s\n", ownerName(s))
	if s.Owner != nil && s.Owner.Email != "" {
		fmt.Fprintf(w, "Contact:     %s\n", s.Owner.Email)
	}
	if len(s.Availability.Days) > 0 {
		fmt.Fprintf(w, "Days:        %s\n", strings.Join(s.Availability.Days, ", "))
	}
	if len(s.Availability.TimeSlots) > 0 {
		fmt.Fprintf(w, "Time slots:  %s\n", strings.Join(s.Availability.TimeSlots, ", "))
	}
	fmt.Fprintf(w, "\n%s\n", s.Description)
}

func requestTitle(r models.ExchangeRequest) string {
	if r.Skill != nil && r.Skill.Title != "" {
		return r.Skill.Title
	}
	return r.SkillID
}

// counterpart names the other side of r from userID's point of view.
func counterpart(r models.ExchangeRequest, userID string) string {
	if r.FromUserID == userID {
		if r.ToUser != nil {
			return "to " + r.ToUser.DisplayName()
		}
		return "to " + r.ToUserID
	}
	if r.FromUser != nil {
		return "from " + r.FromUser.DisplayName()
	}
	return "from " + r.FromUserID
}

func printRequests(w io.Writer, reqs []models.ExchangeRequest, userID string) {
	if len(reqs) == 0 {
		fmt.Fprintln(w, "No requests found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSKILL\tWITH\tSTATUS\tACTIONS")
	for _, r := range reqs {
		var actions []string
		for _, ev := range lifecycle.Allowed(r, userID) {
			actions = append(actions, string(ev))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, requestTitle(r), counterpart(r, userID), r.Status, strings.Join(actions, ","))
	}
	tw.Flush()
}
