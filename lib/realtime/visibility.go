package realtime

import "convenios-backend/models"

// IsVisible заявки категорий с HR-согласованием скрыты от основных проверяющих,
// пока HR не согласовал заявку или она не закрыта
func IsVisible(filter FilterContext, category models.RequestCategory, status models.RequestStatus, hrStatus models.HrStatus) bool {
	if !filter.Allows(category) {
		return false
	}
	if !category.RequiresHrApproval() || !filter.Role.IsPrimaryReviewer() {
		return true
	}
	return status.IsClosed() || hrStatus == models.HrStatusApproved
}

func (r RequestRow) VisibleFor(filter FilterContext) bool {
	return IsVisible(filter, r.Category, r.Status, r.HrStatus)
}
