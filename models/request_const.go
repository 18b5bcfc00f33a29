package models

type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "open"
	RequestStatusInReview  RequestStatus = "in_review"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCompleted RequestStatus = "completed" // устаревший синоним approved
)

var requestStatusHumanName = map[RequestStatus]string{
	RequestStatusOpen:      "Открыта",
	RequestStatusInReview:  "На рассмотрении",
	RequestStatusApproved:  "Одобрена",
	RequestStatusRejected:  "Отклонена",
	RequestStatusCompleted: "Одобрена",
}

func (s RequestStatus) ToHuman() string {
	if human, exist := requestStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s RequestStatus) IsValid() bool {
	_, ok := requestStatusHumanName[s]
	return ok
}

// IsClosed заявка закрыта и больше не меняется, кроме оплаты рассрочки и чата
func (s RequestStatus) IsClosed() bool {
	return s.IsApproved() || s == RequestStatusRejected
}

func (s RequestStatus) IsApproved() bool {
	return s == RequestStatusApproved || s == RequestStatusCompleted
}

func (s RequestStatus) AllowReview() bool {
	return s == RequestStatusOpen
}

func (s RequestStatus) AllowDecision() bool {
	return s == RequestStatusOpen || s == RequestStatusInReview
}

func ClosedStatuses() []RequestStatus {
	return []RequestStatus{RequestStatusApproved, RequestStatusCompleted, RequestStatusRejected}
}

type RequestCategory string

const (
	CategoryPharmacy      RequestCategory = "pharmacy"
	CategoryOptical       RequestCategory = "optical"
	CategoryDental        RequestCategory = "dental"
	CategoryGroceries     RequestCategory = "groceries"
	CategoryFuel          RequestCategory = "fuel"
	CategoryEducation     RequestCategory = "education"
	CategorySalaryAdvance RequestCategory = "salary_advance"
	CategoryDocuments     RequestCategory = "documents"
)

var requestCategoryHumanName = map[RequestCategory]string{
	CategoryPharmacy:      "Аптека",
	CategoryOptical:       "Оптика",
	CategoryDental:        "Стоматология",
	CategoryGroceries:     "Продукты",
	CategoryFuel:          "Топливо",
	CategoryEducation:     "Обучение",
	CategorySalaryAdvance: "Аванс по зарплате",
	CategoryDocuments:     "Кадровые документы",
}

func (c RequestCategory) ToHuman() string {
	if human, exist := requestCategoryHumanName[c]; exist {
		return human
	}
	return string(c)
}

func (c RequestCategory) IsValid() bool {
	_, ok := requestCategoryHumanName[c]
	return ok
}

// RequiresHrApproval категория требует предварительного согласования HR
func (c RequestCategory) RequiresHrApproval() bool {
	return c == CategorySalaryAdvance
}

func AllCategories() []RequestCategory {
	return []RequestCategory{
		CategoryPharmacy,
		CategoryOptical,
		CategoryDental,
		CategoryGroceries,
		CategoryFuel,
		CategoryEducation,
		CategorySalaryAdvance,
		CategoryDocuments,
	}
}

type HrStatus string

const (
	HrStatusPending  HrStatus = "pending"
	HrStatusApproved HrStatus = "approved"
	HrStatusRejected HrStatus = "rejected"
)

var hrStatusHumanName = map[HrStatus]string{
	HrStatusPending:  "Ожидает HR",
	HrStatusApproved: "Согласовано HR",
	HrStatusRejected: "Отклонено HR",
}

func (s HrStatus) ToHuman() string {
	if human, exist := hrStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

type CollaboratorStatus string

const (
	CollaboratorActive    CollaboratorStatus = "active"
	CollaboratorInactive  CollaboratorStatus = "inactive"
	CollaboratorDismissed CollaboratorStatus = "dismissed"
)

var collaboratorStatusHumanName = map[CollaboratorStatus]string{
	CollaboratorActive:    "Работает",
	CollaboratorInactive:  "Неактивен",
	CollaboratorDismissed: "Уволен",
}

func (s CollaboratorStatus) ToHuman() string {
	if human, exist := collaboratorStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}
