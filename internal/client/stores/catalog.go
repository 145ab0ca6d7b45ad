package stores

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/dmitrijs2005/skillswap/internal/client/api"
	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/dmitrijs2005/skillswap/internal/logging"
)

// CatalogState is a snapshot of the catalog.
type CatalogState struct {
	Skills     []models.Skill // last list or search result, server order
	UserSkills []models.Skill // last ListUserSkills result
	Selected   *models.Skill  // last GetSkill result
	Busy       bool
	LastError  *ErrorInfo
}

// CatalogStore owns the skill collection.
type CatalogStore struct {
	tracker

	exec   api.Executor
	logger logging.Logger

	skills     []models.Skill
	userSkills []models.Skill
	selected   *models.Skill
}

func NewCatalogStore(exec api.Executor, logger logging.Logger) *CatalogStore {
	return &CatalogStore{exec: exec, logger: logger}
}

func skillID(s models.Skill) string { return s.ID }

// State returns a snapshot of the catalog.
func (c *CatalogStore) State() CatalogState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var sel *models.Skill
	if c.selected != nil {
		cp := *c.selected
		sel = &cp
	}
	return CatalogState{
		Skills:     slices.Clone(c.skills),
		UserSkills: slices.Clone(c.userSkills),
		Selected:   sel,
		Busy:       c.busy,
		LastError:  c.lastErr.clone(),
	}
}

// Lookup returns a locally known skill by id.
func (c *CatalogStore) Lookup(id string) (models.Skill, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.selected != nil && c.selected.ID == id {
		return *c.selected, true
	}
	for _, list := range [][]models.Skill{c.skills, c.userSkills} {
		if i := indexOf(list, id, skillID); i >= 0 {
			return list[i], true
		}
	}
	return models.Skill{}, false
}

func (c *CatalogStore) fetchList(ctx context.Context, path string, query map[string]string) ([]models.Skill, error) {
	body, err := c.exec.Execute(ctx, http.MethodGet, path, api.Request{Query: query})
	if err != nil {
		return nil, err
	}
	return models.DecodeSkills(models.Envelope(body, "skills")), nil
}

// ListSkills loads the catalog. An empty filter returns every skill.
func (c *CatalogStore) ListSkills(ctx context.Context, f models.SkillFilter) ([]models.Skill, error) {
	c.start()
	skills, err := c.fetchList(ctx, "/skills", f.Query())
	if err != nil {
		return nil, c.fail(err)
	}
	c.succeed(func() { c.skills = skills })
	return slices.Clone(skills), nil
}

// SearchSkills runs a server-side text search. Empty queries are sent as-is.
func (c *CatalogStore) SearchSkills(ctx context.Context, query string) ([]models.Skill, error) {
	c.start()
	skills, err := c.fetchList(ctx, "/skills/search", map[string]string{"query": query})
	if err != nil {
		return nil, c.fail(err)
	}
	c.succeed(func() { c.skills = skills })
	return slices.Clone(skills), nil
}

// ListUserSkills loads the skills offered by userID.
func (c *CatalogStore) ListUserSkills(ctx context.Context, userID string) ([]models.Skill, error) {
	c.start()
	skills, err := c.fetchList(ctx, pathID("/skills/user", userID), nil)
	if err != nil {
		return nil, c.fail(err)
	}
	c.succeed(func() { c.userSkills = skills })
	return slices.Clone(skills), nil
}

func (c *CatalogStore) fetchOne(ctx context.Context, method, path string, body any) (models.Skill, error) {
	resp, err := c.exec.Execute(ctx, method, path, api.Request{Body: body})
	if err != nil {
		return models.Skill{}, err
	}
	return models.DecodeSkill(models.Envelope(resp, "skill")), nil
}

// GetSkill loads one skill, upserts it and marks it selected.
func (c *CatalogStore) GetSkill(ctx context.Context, id string) (models.Skill, error) {
	c.start()
	skill, err := c.fetchOne(ctx, http.MethodGet, pathID("/skills", id), nil)
	if err != nil {
		return models.Skill{}, c.fail(err)
	}
	c.succeed(func() {
		c.skills = upsert(c.skills, skill, skillID)
		sel := skill
		c.selected = &sel
	})
	return skill, nil
}

// CreateSkill publishes a new skill. Input is forwarded without validation;
// see models.SkillInput.Validate.
func (c *CatalogStore) CreateSkill(ctx context.Context, in models.SkillInput) (models.Skill, error) {
	c.start()
	skill, err := c.fetchOne(ctx, http.MethodPost, "/skills", in)
	if err != nil {
		return models.Skill{}, c.fail(err)
	}
	if skill.ID == "" {
		return models.Skill{}, c.fail(fmt.Errorf("%w: created skill has no id", ErrMalformedResponse))
	}
	c.succeed(func() { c.skills = upsert(c.skills, skill, skillID) })
	c.logger.Info(ctx, "skill created", "skill_id", skill.ID)
	return skill, nil
}

// UpdateSkill applies patch to the skill id.
func (c *CatalogStore) UpdateSkill(ctx context.Context, id string, patch models.SkillPatch) (models.Skill, error) {
	c.start()
	skill, err := c.fetchOne(ctx, http.MethodPut, pathID("/skills", id), patch)
	if err != nil {
		return models.Skill{}, c.fail(err)
	}
	if skill.ID == "" {
		skill.ID = id
	}
	c.succeed(func() {
		if i := indexOf(c.skills, id, skillID); i >= 0 {
			c.skills[i] = skill
		}
		if i := indexOf(c.userSkills, id, skillID); i >= 0 {
			c.userSkills[i] = skill
		}
		if c.selected != nil && c.selected.ID == id {
			sel := skill
			c.selected = &sel
		}
	})
	return skill, nil
}

// DeleteSkill removes the skill remotely, then locally.
func (c *CatalogStore) DeleteSkill(ctx context.Context, id string) error {
	c.start()
	if _, err := c.exec.Execute(ctx, http.MethodDelete, pathID("/skills", id), api.Request{}); err != nil {
		return c.fail(err)
	}
	c.succeed(func() {
		c.skills = remove(c.skills, id, skillID)
		c.userSkills = remove(c.userSkills, id, skillID)
		if c.selected != nil && c.selected.ID == id {
			c.selected = nil
		}
	})
	c.logger.Info(ctx, "skill deleted", "skill_id", id)
	return nil
}

// Reset forgets every loaded skill and the last error.
func (c *CatalogStore) Reset() {
	c.reset(func() {
		c.skills = nil
		c.userSkills = nil
		c.selected = nil
	})
}
