package policy

import "testing"

func uintPtr(v uint) *uint { return &v }

func TestCanPerform(t *testing.T) {
	reader := Actor{ID: 1, Role: RoleReader}
	student := Actor{ID: 2, Role: RoleScholarship, OrientorID: uintPtr(3)}
	orphan := Actor{ID: 5, Role: RoleScholarship}
	prof := Actor{ID: 3, Role: RoleProfessor}
	otherProf := Actor{ID: 4, Role: RoleProfessor}
	admin := Actor{ID: 9, Role: RoleAdmin}

	ownArticle := Target{AuthorID: 2}
	foreignArticle := Target{AuthorID: 7}
	supervised := Target{OrientorID: uintPtr(3)}

	tests := []struct {
		name   string
		actor  Actor
		action Action
		target Target
		want   bool
	}{
		{"reader cannot publish", reader, ActionPublishArticle, Target{}, false},
		{"sponsored student publishes", student, ActionPublishArticle, Target{}, true},
		{"student without orientor cannot publish", orphan, ActionPublishArticle, Target{}, false},
		{"professor publishes", prof, ActionPublishArticle, Target{}, true},
		{"admin publishes", admin, ActionPublishArticle, Target{}, true},

		{"reader cannot edit", reader, ActionEditArticle, Target{AuthorID: 1}, false},
		{"student edits own article", student, ActionEditArticle, ownArticle, true},
		{"student cannot edit foreign article", student, ActionEditArticle, foreignArticle, false},
		{"professor edits any article", prof, ActionEditArticle, foreignArticle, true},
		{"student deletes own article", student, ActionDeleteArticle, ownArticle, true},
		{"student cannot delete foreign article", student, ActionDeleteArticle, foreignArticle, false},
		{"admin deletes any article", admin, ActionDeleteArticle, foreignArticle, true},

		{"reader cannot manage categories", reader, ActionManageCategory, Target{}, false},
		{"student cannot manage categories", student, ActionManageCategory, Target{}, false},
		{"professor manages categories", prof, ActionManageCategory, Target{}, true},
		{"admin manages categories", admin, ActionManageCategory, Target{}, true},

		{"orientor approves", prof, ActionApproveSponsorship, supervised, true},
		{"other professor cannot approve", otherProf, ActionApproveSponsorship, supervised, false},
		{"admin cannot approve", admin, ActionApproveSponsorship, supervised, false},
		{"orientor ends sponsorship", prof, ActionEndSponsorship, supervised, true},
		{"other professor cannot end sponsorship", otherProf, ActionEndSponsorship, supervised, false},
		{"student without orientor cannot be ended", prof, ActionEndSponsorship, Target{}, false},

		{"reader deletes own comment", reader, ActionDeleteComment, Target{AuthorID: 1}, true},
		{"reader cannot delete foreign comment", reader, ActionDeleteComment, Target{AuthorID: 2}, false},
		{"professor deletes any comment", prof, ActionDeleteComment, Target{AuthorID: 2}, true},

		{"professor manages events", prof, ActionManageEvent, Target{}, true},
		{"student cannot manage events", student, ActionManageEvent, Target{}, false},
		{"admin lists users", admin, ActionListUsers, Target{}, true},
		{"professor cannot list users", prof, ActionListUsers, Target{}, false},

		{"unknown role is denied", Actor{ID: 1, Role: "visitante"}, ActionDeleteComment, Target{AuthorID: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPerform(tt.actor, tt.action, tt.target); got != tt.want {
				t.Errorf("CanPerform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllows(t *testing.T) {
	if Allows(RoleReader, ActionPublishArticle) {
		t.Error("reader should not be allowed to publish")
	}
	if !Allows(RoleScholarship, ActionEditArticle) {
		t.Error("scholarship student should be allowed to attempt edits")
	}
	if Allows(RoleAdmin, ActionApproveSponsorship) {
		t.Error("only professors approve sponsorships")
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleReader, RoleScholarship, RoleProfessor, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	if Role("guest").Valid() {
		t.Error("unknown role reported valid")
	}
}
