package rbac

type Role string
type Action string

const (
	RoleViewer      Role = "viewer"
	RoleStaff       Role = "staff"
	RoleAssessor    Role = "assessor"
	RoleCoordinator Role = "coordinator"
)

const (
	ActionRead    Action = "read"
	ActionEdit    Action = "edit"
	ActionAssess  Action = "assess"
	ActionRefresh Action = "refresh"
	ActionManage  Action = "manage"
)

func Can(role Role, action Action) bool {
	switch role {
	case RoleCoordinator:
		return true
	case RoleAssessor:
		return action == ActionRead || action == ActionEdit || action == ActionAssess || action == ActionRefresh
	case RoleStaff:
		return action == ActionRead || action == ActionEdit
	case RoleViewer:
		return action == ActionRead
	default:
		return false
	}
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleViewer, RoleStaff, RoleAssessor, RoleCoordinator:
		return Role(role)
	default:
		return RoleViewer
	}
}
