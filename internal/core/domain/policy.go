package domain

// Operation identifies an action subject to authorization.
type Operation string

const (
	OpListUsers  Operation = "users.list"
	OpReadUser   Operation = "users.read"
	OpCreateUser Operation = "users.create"
	OpUpdateUser Operation = "users.update"
	OpChangeRole Operation = "users.change_role"
	OpDeleteUser Operation = "users.delete"
)

// Caller is the per-request identity extracted from a verified token.
type Caller struct {
	ID   string
	Role string
}

// adminOps lists every operation an admin may perform.
var adminOps = map[Operation]struct{}{
	OpListUsers:  {},
	OpReadUser:   {},
	OpCreateUser: {},
	OpUpdateUser: {},
	OpChangeRole: {},
	OpDeleteUser: {},
}

// CanAccess is the authorization decision table. Anything not explicitly
// allowed is denied:
//
//   - anonymous callers are denied everything
//   - admin may perform any operation on any target
//   - usuario may read and update only its own account, and may never
//     change a role, not even its own
func CanAccess(caller Caller, op Operation, targetID string) bool {
	if caller.ID == "" || caller.Role == "" {
		return false
	}

	switch caller.Role {
	case RoleAdmin:
		_, ok := adminOps[op]
		return ok
	case RoleUsuario:
		switch op {
		case OpReadUser, OpUpdateUser:
			return targetID != "" && caller.ID == targetID
		}
		return false
	}
	return false
}
