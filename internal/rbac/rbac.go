package rbac

type Role string
type Action string

const (
	RoleClient    Role = "client"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

const (
	ActionRead   Action = "read"
	ActionSubmit Action = "submit"
	ActionManage Action = "manage"
	ActionAdmin  Action = "admin"
)

func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleRecruiter:
		return action == ActionRead || action == ActionSubmit || action == ActionManage
	case RoleClient:
		return action == ActionRead || action == ActionSubmit
	default:
		return false
	}
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleClient, RoleRecruiter, RoleAdmin:
		return Role(role)
	default:
		return RoleClient
	}
}

// LandingView is the view a freshly authenticated session is routed to.
func LandingView(role Role) string {
	switch role {
	case RoleAdmin:
		return "dashboard"
	case RoleRecruiter:
		return "recruiter-dashboard"
	default:
		return "client-portal"
	}
}
