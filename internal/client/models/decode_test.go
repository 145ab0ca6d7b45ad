package models

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestEnvelope(t *testing.T) {
	wrapped := Envelope([]byte(`{"skills":[{"_id":"a"}]}`), "skills")
	assert.True(t, wrapped.IsArray())
	assert.Len(t, wrapped.Array(), 1)

	bare := Envelope([]byte(`[{"_id":"a"},{"_id":"b"}]`), "skills")
	assert.True(t, bare.IsArray())
	assert.Len(t, bare.Array(), 2)
}

func TestRefID(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"string", `"u1"`, "u1"},
		{"object _id", `{"_id":"u2","name":"Ann"}`, "u2"},
		{"object id", `{"id":"u3"}`, "u3"},
		{"null", `null`, ""},
		{"number", `42`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RefID(gjson.Parse(tt.json)))
		})
	}
}

func TestDecodeSkill_PopulatedOwner(t *testing.T) {
	body := `{
		"_id": "s1",
		"userId": {"_id": "u1", "name": "Ann", "email": "ann@x.io", "phone": "123"},
		"category": "Music",
		"title": "Guitar",
		"description": "Acoustic guitar basics",
		"experienceLevel": "Expert",
		"availability": {"days": ["Monday", "Friday"], "timeSlots": ["18:00-19:00", "09:00-10:00"]},
		"createdAt": "2024-05-01T10:00:00.000Z"
	}`

	got := DecodeSkill(gjson.Parse(body))
	want := Skill{
		ID:              "s1",
		OwnerUserID:     "u1",
		Owner:           &User{ID: "u1", Name: "Ann", Email: "ann@x.io", Phone: "123"},
		Category:        "Music",
		Title:           "Guitar",
		Description:     "Acoustic guitar basics",
		ExperienceLevel: LevelExpert,
		Availability: Availability{
			Days:      []string{"Monday", "Friday"},
			TimeSlots: []string{"18:00-19:00", "09:00-10:00"},
		},
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("DecodeSkill mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSkill_BareOwner(t *testing.T) {
	got := DecodeSkill(gjson.Parse(`{"id":"s2","userId":"u9","title":"Chess"}`))
	assert.Equal(t, "s2", got.ID)
	assert.Equal(t, "u9", got.OwnerUserID)
	assert.Nil(t, got.Owner)
	assert.True(t, got.CreatedAt.IsZero())
}

func TestDecodeSkills_KeepsOrder(t *testing.T) {
	got := DecodeSkills(Envelope([]byte(`{"skills":[{"_id":"c"},{"_id":"a"},{"_id":"b"}]}`), "skills"))
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestDecodeSkills_NotArray(t *testing.T) {
	assert.Empty(t, DecodeSkills(gjson.Parse(`{"message":"ok"}`)))
}

func TestDecodeRequest(t *testing.T) {
	body := `{
		"_id": "r1",
		"skillId": {"_id": "s1", "title": "Guitar", "category": "Music", "userId": "u2"},
		"fromUserId": {"_id": "u1", "name": "Ann"},
		"toUserId": "u2",
		"status": "Pending",
		"message": "hi"
	}`

	got := DecodeRequest(gjson.Parse(body))
	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, "s1", got.SkillID)
	require.NotNil(t, got.Skill)
	assert.Equal(t, "Guitar", got.Skill.Title)
	assert.Equal(t, "u1", got.FromUserID)
	require.NotNil(t, got.FromUser)
	assert.Equal(t, "Ann", got.FromUser.Name)
	assert.Equal(t, "u2", got.ToUserID)
	assert.Nil(t, got.ToUser)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, "hi", got.Message)
}

func TestDecodeRequests(t *testing.T) {
	got := DecodeRequests(gjson.Parse(`[{"_id":"r1","status":"Accepted"},{"_id":"r2","status":"Completed"}]`))
	require.Len(t, got, 2)
	assert.Equal(t, StatusAccepted, got[0].Status)
	assert.Equal(t, StatusCompleted, got[1].Status)
}
