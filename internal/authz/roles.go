package authz

import "taskcontrol/internal/models"

// Ранги ролей проекта: выше — больше прав.
var roleRank = map[models.MemberRole]int{
	models.RoleViewer: 10,
	models.RoleMember: 20,
	models.RoleAdmin:  30,
}

func Rank(role models.MemberRole) int {
	return roleRank[role]
}

// AtLeast reports whether role grants everything min grants.
func AtLeast(role, min models.MemberRole) bool {
	return roleRank[role] >= roleRank[min]
}

func IsReadOnly(role models.MemberRole) bool {
	return role == models.RoleViewer
}
