package models

type UserRole string

const (
	AdminRole      UserRole = "ADMIN"
	ReviewerRole   UserRole = "REVIEWER"
	HrApproverRole UserRole = "HR_APPROVER"
	ViewerRole     UserRole = "VIEWER"
)

var roleHumanName = map[UserRole]string{
	AdminRole:      "Администратор",
	ReviewerRole:   "Специалист по заявкам",
	HrApproverRole: "Согласующий HR",
	ViewerRole:     "Наблюдатель",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == AdminRole
}

// IsPrimaryReviewer роль, для которой заявки с HR-согласованием скрыты до решения HR
func (r UserRole) IsPrimaryReviewer() bool {
	return r != HrApproverRole
}

// CanDecide роль может брать заявки в работу, одобрять и отклонять их
func (r UserRole) CanDecide() bool {
	return r == AdminRole || r == ReviewerRole
}

const SystemUser = "Система"
