// Package policy decides which role may perform which action. Every
// permission rule in the portal lives in the table below.
package policy

type Role string

const (
	RoleReader      Role = "leitor"
	RoleScholarship Role = "bolsista"
	RoleProfessor   Role = "professor"
	RoleAdmin       Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleReader, RoleScholarship, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

type Action string

const (
	ActionPublishArticle     Action = "article:publish"
	ActionEditArticle        Action = "article:edit"
	ActionDeleteArticle      Action = "article:delete"
	ActionManageCategory     Action = "category:manage"
	ActionApproveSponsorship Action = "sponsorship:approve"
	ActionEndSponsorship     Action = "sponsorship:end"
	ActionManageEvent        Action = "event:manage"
	ActionDeleteComment      Action = "comment:delete"
	ActionListUsers          Action = "user:list"
)

// Actor is the user attempting an action.
type Actor struct {
	ID         uint
	Role       Role
	OrientorID *uint
}

// Target carries the ownership facts of the resource being acted on.
// AuthorID is the article or comment author; OrientorID is the orientor of a
// scholarship student.
type Target struct {
	AuthorID   uint
	OrientorID *uint
}

type scope int

const (
	denied scope = iota
	unrestricted
	// sponsored allows the action only when the actor has an orientor.
	sponsored
	// owned allows the action only on targets authored by the actor.
	owned
	// oriented allows the action only on students the actor supervises.
	oriented
)

var rules = map[Action]map[Role]scope{
	ActionPublishArticle: {
		RoleScholarship: sponsored,
		RoleProfessor:   unrestricted,
		RoleAdmin:       unrestricted,
	},
	ActionEditArticle: {
		RoleScholarship: owned,
		RoleProfessor:   unrestricted,
		RoleAdmin:       unrestricted,
	},
	ActionDeleteArticle: {
		RoleScholarship: owned,
		RoleProfessor:   unrestricted,
		RoleAdmin:       unrestricted,
	},
	ActionManageCategory: {
		RoleProfessor: unrestricted,
		RoleAdmin:     unrestricted,
	},
	ActionApproveSponsorship: {
		RoleProfessor: oriented,
	},
	ActionEndSponsorship: {
		RoleProfessor: oriented,
	},
	ActionManageEvent: {
		RoleProfessor: unrestricted,
		RoleAdmin:     unrestricted,
	},
	ActionDeleteComment: {
		RoleReader:      owned,
		RoleScholarship: owned,
		RoleProfessor:   unrestricted,
		RoleAdmin:       unrestricted,
	},
	ActionListUsers: {
		RoleAdmin: unrestricted,
	},
}

// Allows reports whether role may attempt action at all, before any
// ownership fact about the target is known.
func Allows(role Role, action Action) bool {
	return rules[action][role] != denied
}

// CanPerform is the full decision for actor doing action on target.
func CanPerform(actor Actor, action Action, target Target) bool {
	switch rules[action][actor.Role] {
	case unrestricted:
		return true
	case sponsored:
		return actor.OrientorID != nil
	case owned:
		return target.AuthorID != 0 && target.AuthorID == actor.ID
	case oriented:
		return target.OrientorID != nil && *target.OrientorID == actor.ID
	default:
		return false
	}
}
