package enums

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func RoleFor(isAdmin bool) Role {
	if isAdmin {
		return RoleAdmin
	}
	return RoleUser
}
