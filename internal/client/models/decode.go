package models

import (
	"time"

	"github.com/tidwall/gjson"
)

// Envelope returns the value stored under key when body is wrapped in an
// object envelope such as {"skills": [...]}, and the whole body otherwise.
func Envelope(body []byte, key string) gjson.Result {
	if r := gjson.GetBytes(body, key); r.Exists() {
		return r
	}
	return gjson.ParseBytes(body)
}

// RefID extracts the id of a reference that is either a bare id string or a
// populated object carrying "_id" or "id".
func RefID(r gjson.Result) string {
	if r.IsObject() {
		if id := r.Get("_id"); id.Exists() {
			return id.String()
		}
		return r.Get("id").String()
	}
	if r.Type == gjson.String {
		return r.String()
	}
	return ""
}

// DecodeUser builds a User from a JSON object.
func DecodeUser(r gjson.Result) User {
	return User{
		ID:    RefID(r),
		Name:  r.Get("name").String(),
		Email: r.Get("email").String(),
		Phone: r.Get("phone").String(),
		Bio:   r.Get("bio").String(),
	}
}

func populatedUser(r gjson.Result) *User {
	if !r.IsObject() {
		return nil
	}
	u := DecodeUser(r)
	return &u
}

// DecodeSkill builds a Skill from a JSON object. The owner arrives in
// "userId" and may be populated.
func DecodeSkill(r gjson.Result) Skill {
	s := Skill{
		ID:              RefID(r),
		Category:        r.Get("category").String(),
		Title:           r.Get("title").String(),
		Description:     r.Get("description").String(),
		ExperienceLevel: ExperienceLevel(r.Get("experienceLevel").String()),
		Availability: Availability{
			Days:      stringArray(r.Get("availability.days")),
			TimeSlots: stringArray(r.Get("availability.timeSlots")),
		},
		CreatedAt: parseTime(r.Get("createdAt")),
	}
	owner := r.Get("userId")
	s.OwnerUserID = RefID(owner)
	s.Owner = populatedUser(owner)
	return s
}

// DecodeSkills decodes a JSON array of skills, keeping server order.
func DecodeSkills(r gjson.Result) []Skill {
	if !r.IsArray() {
		return []Skill{}
	}
	out := make([]Skill, 0, len(r.Array()))
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, DecodeSkill(v))
		return true
	})
	return out
}

// DecodeRequest builds an ExchangeRequest from a JSON object.
func DecodeRequest(r gjson.Result) ExchangeRequest {
	req := ExchangeRequest{
		ID:        RefID(r),
		Status:    RequestStatus(r.Get("status").String()),
		Message:   r.Get("message").String(),
		CreatedAt: parseTime(r.Get("createdAt")),
	}

	skill := r.Get("skillId")
	req.SkillID = RefID(skill)
	if skill.IsObject() {
		s := DecodeSkill(skill)
		req.Skill = &s
	}

	from := r.Get("fromUserId")
	req.FromUserID = RefID(from)
	req.FromUser = populatedUser(from)

	to := r.Get("toUserId")
	req.ToUserID = RefID(to)
	req.ToUser = populatedUser(to)

	return req
}

// DecodeRequests decodes a JSON array of requests, keeping server order.
func DecodeRequests(r gjson.Result) []ExchangeRequest {
	if !r.IsArray() {
		return []ExchangeRequest{}
	}
	out := make([]ExchangeRequest, 0, len(r.Array()))
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, DecodeRequest(v))
		return true
	})
	return out
}

func stringArray(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	arr := r.Array()
	out := make([]string, len(arr))
	for i, v := range arr {
		out[i] = v.String()
	}
	return out
}

func parseTime(r gjson.Result) time.Time {
	if r.Type != gjson.String {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, r.String())
	if err != nil {
		return time.Time{}
	}
	return t
}
